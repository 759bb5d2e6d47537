// Package amm holds the pricing core's data model: token descriptors,
// oracle prices, pool state, swap configuration, and the tagged-variant
// types (SwapType, SwapDirection) the spec calls for in place of
// truthy-key object flags.
//
// Nothing in this package performs I/O. It is pure data plus the
// constructors and small derivations (MarketPriceTriple, SwapResult) that
// have no dependency on the curve math in pkg/curve.
package amm

import "github.com/oraclecurve/amm-core/pkg/fixedpoint"

// TokenDescriptor identifies one side of a pool. Decimals is the number of
// base-10 places between the on-chain integer representation and the
// human-readable value.
type TokenDescriptor struct {
	Symbol    string
	MintID    string
	Decimals  uint8
	OracleRef string
}

// OraclePrice is a single oracle observation: price and its confidence
// band, both in the token's quote unit. Price must be > 0; Confidence is
// typically < Price and may be zero for a mock source.
type OraclePrice struct {
	Price      fixedpoint.Decimal
	Confidence fixedpoint.Decimal
}

// MarketPriceTriple is the base/quote price ratio and its adverse-selection
// bounds. Defined is false when either side's oracle price was unavailable;
// Mid/Low/High must not be read in that case (spec.md §3, "undefined").
type MarketPriceTriple struct {
	Mid       fixedpoint.Decimal
	Low       fixedpoint.Decimal
	High      fixedpoint.Decimal
	Defined   bool
	HasBounds bool
}

// UndefinedMarketPriceTriple is the explicit absent-value variant used
// when an oracle side is missing, rather than a bare zero-value triple.
var UndefinedMarketPriceTriple = MarketPriceTriple{Defined: false}

// DeriveMarketPriceTriple computes mid/low/high per spec.md §3 from two
// independent oracle observations. Returns the undefined triple if either
// side has a non-positive price (treated the same as "missing").
func DeriveMarketPriceTriple(base, quote OraclePrice) MarketPriceTriple {
	if base.Price.Sign() <= 0 || quote.Price.Sign() <= 0 {
		return UndefinedMarketPriceTriple
	}

	mid, err := base.Price.Quo(quote.Price)
	if err != nil {
		return UndefinedMarketPriceTriple
	}

	highNum := base.Price.Add(base.Confidence)
	highDen := quote.Price.Sub(quote.Confidence)
	lowNum := base.Price.Sub(base.Confidence)
	lowDen := quote.Price.Add(quote.Confidence)

	if highDen.Sign() <= 0 {
		return MarketPriceTriple{Mid: mid, Defined: true}
	}

	high, err := highNum.Quo(highDen)
	if err != nil {
		return MarketPriceTriple{Mid: mid, Defined: true}
	}
	low, err := lowNum.Quo(lowDen)
	if err != nil {
		return MarketPriceTriple{Mid: mid, Defined: true}
	}

	return MarketPriceTriple{Mid: mid, Low: low, High: high, Defined: true, HasBounds: true}
}

// PoolState holds the on-chain integer reserves and inventory targets.
// All fields are non-negative by construction (invariant 1).
type PoolState struct {
	BaseReserve        uint64
	QuoteReserve       uint64
	TargetBaseReserve  uint64
	TargetQuoteReserve uint64
	BaseSupply         uint64
	QuoteSupply        uint64
}

// SwapType is a tagged variant, not a truthy-key flag: exactly one of
// SwapTypeNormal or SwapTypeStable.
type SwapType int

const (
	SwapTypeNormal SwapType = iota
	SwapTypeStable
)

func (t SwapType) String() string {
	switch t {
	case SwapTypeNormal:
		return "normal"
	case SwapTypeStable:
		return "stable"
	default:
		return "unknown"
	}
}

// SwapDirection is a tagged variant derived from (from_token, to_token)
// against a pool's (mint_base, mint_quote).
type SwapDirection int

const (
	SellBase SwapDirection = iota
	SellQuote
)

func (d SwapDirection) String() string {
	switch d {
	case SellBase:
		return "sell_base"
	case SellQuote:
		return "sell_quote"
	default:
		return "unknown"
	}
}

// ResolveSwapDirection derives the direction from the requested mint pair
// against the pool's base/quote mints. Fails with ErrInvalidTokenPair when
// neither orientation matches.
func ResolveSwapDirection(fromMint, toMint, mintBase, mintQuote string) (SwapDirection, error) {
	switch {
	case fromMint == mintBase && toMint == mintQuote:
		return SellBase, nil
	case fromMint == mintQuote && toMint == mintBase:
		return SellQuote, nil
	default:
		return 0, ErrInvalidTokenPair
	}
}

// SwapConfig holds the rational/integer parameters governing curve choice,
// fees, and reserve safety margins.
//
// VirtualReservePercentage defaults to the Go zero value (0) when a
// deserialized catalog entry omits it, matching spec.md §9's "treat an
// absent value as 0" open-question decision.
type SwapConfig struct {
	SlopeWad uint64 // slope scaled by WAD=1e18; normal-swap ignores this field

	TradeFeeNum, TradeFeeDen           uint64
	AdminTradeFeeNum, AdminTradeFeeDen uint64
	WithdrawFeeNum, WithdrawFeeDen     uint64
	AdminWithdrawFeeNum               uint64
	AdminWithdrawFeeDen                uint64

	MinReserveLimitPercentage fixedpoint.Decimal // in [0,100]
	VirtualReservePercentage  fixedpoint.Decimal // in [0,100], zero value if absent
	MaxSwapPercentage         fixedpoint.Decimal

	EnableConfidenceInterval bool
}

// Slope returns the configured slope as an exact rational in (0,1].
func (c SwapConfig) Slope() fixedpoint.Decimal {
	wad := fixedpoint.WAD
	slope, err := fixedpoint.NewFromInt64(int64(c.SlopeWad)).Quo(wad)
	if err != nil {
		return fixedpoint.Zero
	}
	return slope
}

// TradeFee returns trade_fee_num/trade_fee_den as an exact rational.
func (c SwapConfig) TradeFee() (fixedpoint.Decimal, error) {
	return ratio(c.TradeFeeNum, c.TradeFeeDen)
}

// AdminTradeFee returns admin_trade_fee_num/admin_trade_fee_den as an exact rational.
func (c SwapConfig) AdminTradeFee() (fixedpoint.Decimal, error) {
	return ratio(c.AdminTradeFeeNum, c.AdminTradeFeeDen)
}

func ratio(num, den uint64) (fixedpoint.Decimal, error) {
	return fixedpoint.NewFromFraction(int64(num), int64(den))
}

// SwapInfo bundles pool identity, mints, decimals, and configuration: the
// full description the quote engine needs for one pool.
type SwapInfo struct {
	SwapType          SwapType
	ConfigKey         string
	MintBase          string
	MintQuote         string
	MintBaseDecimals  uint8
	MintQuoteDecimals uint8
	PoolState         PoolState
	SwapConfig        SwapConfig
}

// SwapResult carries every numeric field as a decimal string at human
// scale, per spec.md §3, to avoid precision loss across the package
// boundary.
type SwapResult struct {
	AmountIn              string
	AmountOut             string
	AmountOutWithSlippage string
	Fee                   string
	PriceImpact           string
	InsufficientLiquidity bool

	// Empty marks the "no quote available" result: amount_in was empty or
	// NaN, or the oracle triple was undefined. Every other field is the
	// zero value when Empty is true.
	Empty bool

	// EmptyReason explains why Empty is true (e.g. ErrOracleUnavailable's
	// message). Empty string when Empty is false or no reason was given.
	EmptyReason string
}

// ZeroSwapResult is the result of quoting a zero-amount trade: all
// quantities are exactly zero and liquidity is sufficient by definition.
func ZeroSwapResult() SwapResult {
	return SwapResult{
		AmountIn:              "0",
		AmountOut:             "0",
		AmountOutWithSlippage: "0",
		Fee:                   "0",
		PriceImpact:           "0",
		InsufficientLiquidity: false,
	}
}

// EmptyQuoteResult is returned when no quote can be produced (missing
// amount, undefined oracle triple). Not an error: callers interpret Empty
// as "no quote available" per spec.md §7. reason, when non-nil, is
// surfaced in EmptyReason so a caller can tell "no oracle" apart from
// "no amount" without inspecting the pool or market inputs again.
func EmptyQuoteResult(reason error) SwapResult {
	r := SwapResult{Empty: true}
	if reason != nil {
		r.EmptyReason = reason.Error()
	}
	return r
}
