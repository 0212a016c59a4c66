package dex

import (
	"fmt"

	"github.com/canopy-network/canopy-amm/lib"
)

// This file defines error objects for the dex module

func ErrInsufficientLiquidity(msg string) lib.ErrorI {
	return lib.NewError(lib.CodeInsufficientLiquidity, lib.DexModule, fmt.Sprintf("insufficient liquidity: %s", msg))
}

func ErrUnsupportedOperation(curve CurveType, operation string) lib.ErrorI {
	return lib.NewError(lib.CodeUnsupportedOperation, lib.DexModule, fmt.Sprintf("%s is not supported by the %s curve", operation, curve))
}

func ErrNonConvergence(value string, iterations int) lib.ErrorI {
	return lib.NewError(lib.CodeNonConvergence, lib.DexModule, fmt.Sprintf("%s did not converge after %d iterations", value, iterations))
}

func ErrCalculationFailure(msg string) lib.ErrorI {
	return lib.NewError(lib.CodeCalculationFailure, lib.DexModule, fmt.Sprintf("calculation failure: %s", msg))
}

func ErrInvalidCurve(msg string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidCurve, lib.DexModule, fmt.Sprintf("invalid curve: %s", msg))
}

func ErrInvalidFee(msg string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidFee, lib.DexModule, fmt.Sprintf("invalid fee: %s", msg))
}

func ErrUnknownCurveType(curveType string) lib.ErrorI {
	return lib.NewError(lib.CodeUnknownCurveType, lib.DexModule, fmt.Sprintf("unknown curve type %q", curveType))
}

func ErrInvalidTradeDirection(direction string) lib.ErrorI {
	return lib.NewError(lib.CodeInvalidTradeDirection, lib.DexModule, fmt.Sprintf("invalid trade direction %q", direction))
}
