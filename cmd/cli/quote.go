package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/canopy-network/canopy-amm/cmd/rpc"
	"github.com/canopy-network/canopy-amm/lib"
	"github.com/spf13/cobra"
)

// quoter is satisfied by both the in process engine and the rpc client
type quoter interface {
	Swap(req rpc.SwapRequest) (*rpc.SwapResponse, lib.ErrorI)
	Deposit(req rpc.DepositRequest) (*rpc.DepositResponse, lib.ErrorI)
	Withdraw(req rpc.WithdrawRequest) (*rpc.WithdrawResponse, lib.ErrorI)
	DepositSingle(req rpc.DepositSingleRequest) (*rpc.DepositSingleResponse, lib.ErrorI)
	WithdrawSingle(req rpc.WithdrawSingleRequest) (*rpc.WithdrawSingleResponse, lib.ErrorI)
	PoolValue(req rpc.PoolValueRequest) (*rpc.PoolValueResponse, lib.ErrorI)
	Batch(req rpc.BatchRequest) (*rpc.BatchResponse, lib.ErrorI)
	Compare(req rpc.CompareRequest) (*rpc.CompareResponse, lib.ErrorI)
}

var (
	_ quoter = &rpc.Engine{}
	_ quoter = &rpc.Client{}
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "quote swaps and liquidity operations against a pool snapshot",
}

var (
	remote, direction                                  = false, ""
	curveType                                          = ""
	tokenBPrice, tokenBOffset, amp                     = uint64(0), uint64(0), uint64(0)
	tokenADecimals, tokenBDecimals                     = uint8(0), uint8(0)
	tradeFee, ownerTradeFee, ownerWithdrawFee, hostFee = "", "", "", ""
)

func init() {
	quoteCmd.PersistentFlags().BoolVar(&remote, "remote", false, "quote through the rpc server instead of in process")
	quoteCmd.PersistentFlags().StringVar(&direction, "direction", "a_to_b", "a_to_b or b_to_a")
	quoteCmd.PersistentFlags().StringVar(&curveType, "curve", "", "constant_product, constant_price, offset or stable; empty uses the configured default")
	quoteCmd.PersistentFlags().Uint64Var(&tokenBPrice, "token-b-price", 0, "constant_price: amount of token A one token B costs")
	quoteCmd.PersistentFlags().Uint64Var(&tokenBOffset, "token-b-offset", 0, "offset: virtual token B liquidity")
	quoteCmd.PersistentFlags().Uint64Var(&amp, "amp", 0, "stable: amplification coefficient")
	quoteCmd.PersistentFlags().Uint8Var(&tokenADecimals, "token-a-decimals", 0, "stable: decimals of token A")
	quoteCmd.PersistentFlags().Uint8Var(&tokenBDecimals, "token-b-decimals", 0, "stable: decimals of token B")
	quoteCmd.PersistentFlags().StringVar(&tradeFee, "trade-fee", "", "trade fee as numerator/denominator, e.g. 25/10000")
	quoteCmd.PersistentFlags().StringVar(&ownerTradeFee, "owner-trade-fee", "", "owner trade fee as numerator/denominator")
	quoteCmd.PersistentFlags().StringVar(&ownerWithdrawFee, "owner-withdraw-fee", "", "owner withdraw fee as numerator/denominator")
	quoteCmd.PersistentFlags().StringVar(&hostFee, "host-fee", "", "host share of the owner trade fee as numerator/denominator")
	quoteCmd.AddCommand(swapCmd)
	quoteCmd.AddCommand(depositCmd)
	quoteCmd.AddCommand(withdrawCmd)
	quoteCmd.AddCommand(depositSingleCmd)
	quoteCmd.AddCommand(withdrawSingleCmd)
	quoteCmd.AddCommand(poolValueCmd)
	quoteCmd.AddCommand(batchCmd)
	quoteCmd.AddCommand(compareCmd)
	quoteCmd.AddCommand(configCmd)
}

var (
	swapCmd = &cobra.Command{
		Use:   "swap <source_amount> <source_reserve> <destination_reserve> --direction=a_to_b",
		Short: "quote a swap",
		Args:  cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.SwapRequest{
				SourceAmount:           argToAmount(args[0]),
				SwapSourceReserve:      argToAmount(args[1]),
				SwapDestinationReserve: argToAmount(args[2]),
				Direction:              direction,
			}
			setPool(&req.Curve, &req.Fees)
			writeToConsole(getQuoter().Swap(req))
		},
	}

	depositCmd = &cobra.Command{
		Use:   "deposit <pool_tokens> <pool_token_supply> <reserve_a> <reserve_b>",
		Short: "quote the trading tokens needed to mint pool tokens",
		Args:  cobra.MinimumNArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.DepositRequest{
				PoolTokenAmount: argToAmount(args[0]),
				PoolTokenSupply: argToAmount(args[1]),
				ReserveA:        argToAmount(args[2]),
				ReserveB:        argToAmount(args[3]),
			}
			setPool(&req.Curve, &req.Fees)
			writeToConsole(getQuoter().Deposit(req))
		},
	}

	withdrawCmd = &cobra.Command{
		Use:   "withdraw <pool_tokens> <pool_token_supply> <reserve_a> <reserve_b>",
		Short: "quote the trading tokens paid out for burning pool tokens",
		Args:  cobra.MinimumNArgs(4),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.WithdrawRequest{
				PoolTokenAmount: argToAmount(args[0]),
				PoolTokenSupply: argToAmount(args[1]),
				ReserveA:        argToAmount(args[2]),
				ReserveB:        argToAmount(args[3]),
			}
			setPool(&req.Curve, &req.Fees)
			writeToConsole(getQuoter().Withdraw(req))
		},
	}

	depositSingleCmd = &cobra.Command{
		Use:   "deposit-single <source_amount> <source_reserve> <pool_token_supply> --direction=a_to_b",
		Short: "quote the pool tokens minted for a one sided deposit",
		Args:  cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.DepositSingleRequest{
				SourceAmount:      argToAmount(args[0]),
				SwapSourceReserve: argToAmount(args[1]),
				PoolTokenSupply:   argToAmount(args[2]),
				Direction:         direction,
			}
			setPool(&req.Curve, &req.Fees)
			writeToConsole(getQuoter().DepositSingle(req))
		},
	}

	withdrawSingleCmd = &cobra.Command{
		Use:   "withdraw-single <destination_amount> <destination_reserve> <pool_token_supply> --direction=a_to_b",
		Short: "quote the pool tokens burned for a one sided withdrawal",
		Args:  cobra.MinimumNArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.WithdrawSingleRequest{
				DestinationAmount:      argToAmount(args[0]),
				SwapDestinationReserve: argToAmount(args[1]),
				PoolTokenSupply:        argToAmount(args[2]),
				Direction:              direction,
			}
			setPool(&req.Curve, &req.Fees)
			writeToConsole(getQuoter().WithdrawSingle(req))
		},
	}

	poolValueCmd = &cobra.Command{
		Use:   "pool-value <reserve_a> <reserve_b>",
		Short: "query the normalized value of a pool",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.PoolValueRequest{ReserveA: argToAmount(args[0]), ReserveB: argToAmount(args[1])}
			setPool(&req.Curve, &req.Fees)
			writeToConsole(getQuoter().PoolValue(req))
		},
	}

	batchCmd = &cobra.Command{
		Use:   "batch <batch.json>",
		Short: "quote every swap listed in a json file",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := new(rpc.BatchRequest)
			readJSONFile(args[0], req)
			writeToConsole(getQuoter().Batch(*req))
		},
	}

	compareCmd = &cobra.Command{
		Use:   "compare <left_swap.json> <right_swap.json>",
		Short: "quote two swaps and show how their results differ",
		Args:  cobra.MinimumNArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := rpc.CompareRequest{}
			readJSONFile(args[0], &req.Left)
			readJSONFile(args[1], &req.Right)
			resp, err := getQuoter().Compare(req)
			if err != nil {
				writeToConsole(nil, err)
			}
			fmt.Println(resp.Difference)
			fmt.Println(resp.Diff)
		},
	}

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "show the curve and fee defaults quotes fall back to",
		Run: func(cmd *cobra.Command, args []string) {
			if remote {
				writeToConsole(client.Config())
				return
			}
			writeToConsole(config.EngineConfig, nil)
		},
	}
)

// getQuoter() returns the rpc client with --remote, otherwise an in process engine
func getQuoter() quoter {
	if remote {
		return client
	}
	return rpc.NewEngine(config.EngineConfig, nil)
}

// setPool() overrides the configured curve and fees with whatever flags were passed
func setPool(curve **lib.CurveParams, fees **lib.FeeParams) {
	if curveType != "" {
		*curve = &lib.CurveParams{
			Type:           curveType,
			TokenBPrice:    tokenBPrice,
			TokenBOffset:   tokenBOffset,
			Amp:            amp,
			TokenADecimals: tokenADecimals,
			TokenBDecimals: tokenBDecimals,
		}
	}
	if tradeFee == "" && ownerTradeFee == "" && ownerWithdrawFee == "" && hostFee == "" {
		return
	}
	f := config.DefaultFees
	argToFee(tradeFee, &f.TradeFeeNumerator, &f.TradeFeeDenominator)
	argToFee(ownerTradeFee, &f.OwnerTradeFeeNumerator, &f.OwnerTradeFeeDenominator)
	argToFee(ownerWithdrawFee, &f.OwnerWithdrawFeeNumerator, &f.OwnerWithdrawFeeDenominator)
	argToFee(hostFee, &f.HostFeeNumerator, &f.HostFeeDenominator)
	*fees = &f
}

func argToAmount(arg string) uint64 {
	amount, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		l.Fatal(err.Error())
	}
	return amount
}

// argToFee() parses a numerator/denominator pair, leaving the fee untouched when arg is empty
func argToFee(arg string, numerator, denominator *uint64) {
	if arg == "" {
		return
	}
	parts := strings.Split(arg, "/")
	if len(parts) != 2 {
		l.Fatal(lib.ErrInvalidArgument(fmt.Sprintf("fee %s must be formatted as numerator/denominator", arg)).Error())
	}
	*numerator, *denominator = argToAmount(parts[0]), argToAmount(parts[1])
}

func readJSONFile(path string, ptr any) {
	if err := lib.NewJSONFromFile(ptr, "", path); err != nil {
		l.Fatal(err.Error())
	}
}
