package lib

import (
	"errors"
	"fmt"
	"math"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

// Is() allows errors.Is to match two coded errors by module and code
func (p *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return p.ECode == t.ECode && p.EModule == t.EModule
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal     ErrorCode = 2
	CodeJSONUnmarshal   ErrorCode = 3
	CodeWriteFile       ErrorCode = 4
	CodeReadFile        ErrorCode = 5
	CodeInvalidArgument ErrorCode = 6

	// Math Module
	MathModule ErrorModule = "math"

	// Math Module Error Codes
	CodeArithmeticOverflow ErrorCode = 1
	CodeDivisionByZero     ErrorCode = 2

	// Dex Module
	DexModule ErrorModule = "dex"

	// Dex Module Error Codes
	CodeInsufficientLiquidity ErrorCode = 1
	CodeUnsupportedOperation  ErrorCode = 2
	CodeNonConvergence        ErrorCode = 3
	CodeCalculationFailure    ErrorCode = 4
	CodeInvalidCurve          ErrorCode = 5
	CodeInvalidFee            ErrorCode = 6
	CodeUnknownCurveType      ErrorCode = 7
	CodeInvalidTradeDirection ErrorCode = 8

	// RPC Module
	RPCModule ErrorModule = "rpc"

	// RPC Module Error Codes
	CodeRPCTimeout    ErrorCode = 1
	CodeInvalidParams ErrorCode = 2
	CodePostRequest   ErrorCode = 3
	CodeGetRequest    ErrorCode = 4
	CodeHttpStatus    ErrorCode = 5
	CodeReadBody      ErrorCode = 6
	CodeBatchTooLarge ErrorCode = 7
)

// error implementations below for the `lib` package
func newLogError(err error) ErrorI {
	return NewError(NoCode, MainModule, err.Error())
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument(msg string) ErrorI {
	return NewError(CodeInvalidArgument, MainModule, fmt.Sprintf("invalid argument: %s", msg))
}

func ErrArithmeticOverflow(op string) ErrorI {
	return NewError(CodeArithmeticOverflow, MathModule, fmt.Sprintf("%s overflowed", op))
}

func ErrDivisionByZero() ErrorI {
	return NewError(CodeDivisionByZero, MathModule, "division by zero")
}
