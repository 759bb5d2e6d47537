package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
	"github.com/oraclecurve/amm-core/pkg/quote"
)

type quoteFlags struct {
	direction     string
	swapType      string
	amountIn      string
	amountOut     string
	maxSlippage   string
	baseReserve   uint64
	quoteReserve  uint64
	targetBase    uint64
	targetQuote   uint64
	baseDecimals  uint8
	quoteDecimals uint8

	slopeWad         uint64
	tradeFeeNum      uint64
	tradeFeeDen      uint64
	adminTradeFeeNum uint64
	adminTradeFeeDen uint64
	minReservePct    string
	virtualPct       string
	maxSwapPct       string
	enableConfidence bool

	mid  string
	low  string
	high string
}

// newQuoteCmd exposes quote_swap_out/quote_swap_in over flags, entirely
// offline: it builds the pool/market inputs from flags and runs the same
// pkg/quote engine a live RPC-backed caller would, without touching the
// network.
func newQuoteCmd() *cobra.Command {
	f := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap against an in-memory pool state (no RPC)",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := f.buildSwapInfo()
			if err != nil {
				return err
			}
			market, err := f.buildMarket()
			if err != nil {
				return err
			}
			maxSlippage, err := fixedpoint.FromDecimalString(f.maxSlippage)
			if err != nil {
				return fmt.Errorf("parse max-slippage: %w", err)
			}

			from, to := f.fromToDescriptors(info)

			var result amm.SwapResult
			switch {
			case f.amountIn != "":
				result, err = quote.QuoteSwapOut(info, from, to, f.amountIn, maxSlippage, market)
			case f.amountOut != "":
				result, err = quote.QuoteSwapIn(info, from, to, f.amountOut, maxSlippage, market)
			default:
				return fmt.Errorf("one of --amount-in or --amount-out is required")
			}
			if err != nil {
				return err
			}

			bz, _ := json.MarshalIndent(result, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	cmd.Flags().StringVar(&f.direction, "direction", "sell_base", "sell_base|sell_quote")
	cmd.Flags().StringVar(&f.swapType, "swap-type", "normal", "normal|stable")
	cmd.Flags().StringVar(&f.amountIn, "amount-in", "", "quote_swap_out: human-scale input amount")
	cmd.Flags().StringVar(&f.amountOut, "amount-out", "", "quote_swap_in: human-scale desired output amount")
	cmd.Flags().StringVar(&f.maxSlippage, "max-slippage-pct", "1", "max slippage percentage")
	cmd.Flags().Uint64Var(&f.baseReserve, "base-reserve", 0, "current base reserve (integer units)")
	cmd.Flags().Uint64Var(&f.quoteReserve, "quote-reserve", 0, "current quote reserve (integer units)")
	cmd.Flags().Uint64Var(&f.targetBase, "target-base-reserve", 0, "target base reserve (integer units)")
	cmd.Flags().Uint64Var(&f.targetQuote, "target-quote-reserve", 0, "target quote reserve (integer units)")
	cmd.Flags().Uint8Var(&f.baseDecimals, "base-decimals", 6, "base token decimals")
	cmd.Flags().Uint8Var(&f.quoteDecimals, "quote-decimals", 6, "quote token decimals")
	cmd.Flags().Uint64Var(&f.slopeWad, "slope-wad", 500000000000000000, "stable-swap slope scaled by 1e18")
	cmd.Flags().Uint64Var(&f.tradeFeeNum, "trade-fee-num", 30, "trade fee numerator")
	cmd.Flags().Uint64Var(&f.tradeFeeDen, "trade-fee-den", 10000, "trade fee denominator")
	cmd.Flags().Uint64Var(&f.adminTradeFeeNum, "admin-trade-fee-num", 20, "admin trade fee numerator")
	cmd.Flags().Uint64Var(&f.adminTradeFeeDen, "admin-trade-fee-den", 100, "admin trade fee denominator")
	cmd.Flags().StringVar(&f.minReservePct, "min-reserve-limit-pct", "5", "min reserve limit percentage")
	cmd.Flags().StringVar(&f.virtualPct, "virtual-reserve-pct", "0", "virtual reserve percentage")
	cmd.Flags().StringVar(&f.maxSwapPct, "max-swap-pct", "25", "max swap percentage")
	cmd.Flags().BoolVar(&f.enableConfidence, "enable-confidence-interval", false, "use adverse oracle bound per direction")
	cmd.Flags().StringVar(&f.mid, "oracle-mid", "", "oracle mid price (base/quote)")
	cmd.Flags().StringVar(&f.low, "oracle-low", "", "oracle low price bound")
	cmd.Flags().StringVar(&f.high, "oracle-high", "", "oracle high price bound")

	return cmd
}

func (f *quoteFlags) buildSwapInfo() (amm.SwapInfo, error) {
	minReserve, err := fixedpoint.FromDecimalString(f.minReservePct)
	if err != nil {
		return amm.SwapInfo{}, fmt.Errorf("parse min-reserve-limit-pct: %w", err)
	}
	virtual, err := fixedpoint.FromDecimalString(f.virtualPct)
	if err != nil {
		return amm.SwapInfo{}, fmt.Errorf("parse virtual-reserve-pct: %w", err)
	}
	maxSwap, err := fixedpoint.FromDecimalString(f.maxSwapPct)
	if err != nil {
		return amm.SwapInfo{}, fmt.Errorf("parse max-swap-pct: %w", err)
	}

	swapType := amm.SwapTypeNormal
	if f.swapType == "stable" {
		swapType = amm.SwapTypeStable
	}

	return amm.SwapInfo{
		SwapType:          swapType,
		MintBase:          "base",
		MintQuote:         "quote",
		MintBaseDecimals:  f.baseDecimals,
		MintQuoteDecimals: f.quoteDecimals,
		PoolState: amm.PoolState{
			BaseReserve:        f.baseReserve,
			QuoteReserve:       f.quoteReserve,
			TargetBaseReserve:  f.targetBase,
			TargetQuoteReserve: f.targetQuote,
		},
		SwapConfig: amm.SwapConfig{
			SlopeWad:                  f.slopeWad,
			TradeFeeNum:               f.tradeFeeNum,
			TradeFeeDen:               f.tradeFeeDen,
			AdminTradeFeeNum:          f.adminTradeFeeNum,
			AdminTradeFeeDen:          f.adminTradeFeeDen,
			MinReserveLimitPercentage: minReserve,
			VirtualReservePercentage:  virtual,
			MaxSwapPercentage:         maxSwap,
			EnableConfidenceInterval:  f.enableConfidence,
		},
	}, nil
}

func (f *quoteFlags) buildMarket() (amm.MarketPriceTriple, error) {
	if f.mid == "" {
		return amm.UndefinedMarketPriceTriple, nil
	}
	mid, err := fixedpoint.FromDecimalString(f.mid)
	if err != nil {
		return amm.MarketPriceTriple{}, fmt.Errorf("parse oracle-mid: %w", err)
	}
	if f.low == "" || f.high == "" {
		return amm.MarketPriceTriple{Mid: mid, Defined: true}, nil
	}
	low, err := fixedpoint.FromDecimalString(f.low)
	if err != nil {
		return amm.MarketPriceTriple{}, fmt.Errorf("parse oracle-low: %w", err)
	}
	high, err := fixedpoint.FromDecimalString(f.high)
	if err != nil {
		return amm.MarketPriceTriple{}, fmt.Errorf("parse oracle-high: %w", err)
	}
	return amm.MarketPriceTriple{Mid: mid, Low: low, High: high, Defined: true, HasBounds: true}, nil
}

func (f *quoteFlags) fromToDescriptors(info amm.SwapInfo) (amm.TokenDescriptor, amm.TokenDescriptor) {
	base := amm.TokenDescriptor{Symbol: "base", MintID: info.MintBase, Decimals: info.MintBaseDecimals}
	quoteTok := amm.TokenDescriptor{Symbol: "quote", MintID: info.MintQuote, Decimals: info.MintQuoteDecimals}
	if f.direction == "sell_quote" {
		return quoteTok, base
	}
	return base, quoteTok
}
