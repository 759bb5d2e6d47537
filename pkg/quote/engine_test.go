package quote

import (
	"errors"
	"testing"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

func d(n int64) fixedpoint.Decimal { return fixedpoint.NewFromInt64(n) }

func mustDec(t *testing.T, s string) fixedpoint.Decimal {
	t.Helper()
	v, err := fixedpoint.FromDecimalString(s)
	if err != nil {
		t.Fatalf("FromDecimalString(%q): %v", s, err)
	}
	return v
}

// normalPool mirrors spec.md §8 scenarios 2-4: a normal-swap pool with
// target_base=10,000,000, target_quote=20,000,000, base_reserve=9,500,000,
// quote_reserve=20,500,000, no virtual-reserve augmentation so the engine
// dispatches straight through to the already-verified curve-layer numbers.
func normalPool() amm.SwapInfo {
	return amm.SwapInfo{
		SwapType:          amm.SwapTypeNormal,
		MintBase:          "base",
		MintQuote:         "quote",
		MintBaseDecimals:  6,
		MintQuoteDecimals: 6,
		PoolState: amm.PoolState{
			BaseReserve:        9_500_000,
			QuoteReserve:       20_500_000,
			TargetBaseReserve:  10_000_000,
			TargetQuoteReserve: 20_000_000,
		},
		SwapConfig: amm.SwapConfig{
			TradeFeeNum:               30,
			TradeFeeDen:               10_000,
			AdminTradeFeeNum:          0,
			AdminTradeFeeDen:          1,
			MinReserveLimitPercentage: d(5),
			VirtualReservePercentage:  fixedpoint.Zero,
			MaxSwapPercentage:         d(100),
		},
	}
}

var baseToken = amm.TokenDescriptor{Symbol: "BASE", MintID: "base", Decimals: 6}
var quoteToken = amm.TokenDescriptor{Symbol: "QUOTE", MintID: "quote", Decimals: 6}

// Scenario 2 from spec.md §8: normal-swap small trade.
func TestQuoteSwapOutNormalSmallTrade(t *testing.T) {
	pool := normalPool()
	market := amm.MarketPriceTriple{Mid: d(2), Defined: true}

	res, err := QuoteSwapOut(pool, baseToken, quoteToken, "1", fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if res.Empty || res.InsufficientLiquidity {
		t.Fatalf("expected a feasible, sufficient quote, got %+v", res)
	}

	out := mustDec(t, res.AmountOut)
	lower := mustDec(t, "1.8")
	upper := mustDec(t, "2.0")
	if out.LessThan(lower) || out.GreaterThan(upper) {
		t.Fatalf("amount_out %s out of expected range [1.8,2.0]", out.String())
	}

	// implied price 41/19 ~ 2.158 against an actual ~1.952 gives ~0.1053.
	impact := mustDec(t, res.PriceImpact)
	threshold := mustDec(t, "0.11")
	if impact.GreaterThanOrEqual(threshold) {
		t.Fatalf("price impact %s should be < 0.11", impact.String())
	}

	fee := mustDec(t, res.Fee)
	if fee.Sign() <= 0 {
		t.Fatalf("expected a positive fee, got %s", fee.String())
	}
}

// Scenario 3 from spec.md §8: normal-swap beyond liquidity. The trade size
// is chosen so it drains the quote reserve far past its configured 5%
// floor; the exact spec string is at pool-integer scale, not human scale,
// so this test reproduces the same "far beyond the pool's depth" shape
// rather than the literal digits.
func TestQuoteSwapOutBeyondLiquidity(t *testing.T) {
	pool := normalPool()
	market := amm.MarketPriceTriple{Mid: d(2), Defined: true}

	res, err := QuoteSwapOut(pool, baseToken, quoteToken, "9500", fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if !res.InsufficientLiquidity {
		t.Fatalf("expected insufficient_liquidity for a trade this far beyond depth, got %+v", res)
	}
}

// Scenario 4 from spec.md §8: confidence-interval adverse selection.
// pickMarketPrice selects market.High for a sell-base trade (spec.md
// §4.D step 3, "adverse selection against the pool"); for this pool's
// target ratio the normal-swap closed form is increasing in market price,
// so the adverse bound is the one that pays the trader more, not less.
func TestQuoteSwapOutConfidenceIntervalChangesOutput(t *testing.T) {
	pool := normalPool()
	mid := amm.MarketPriceTriple{Mid: d(2), Defined: true}
	withBounds := amm.MarketPriceTriple{Mid: d(2), Low: mustDec(t, "1.98"), High: mustDec(t, "2.02"), Defined: true, HasBounds: true}

	disabled, err := QuoteSwapOut(pool, baseToken, quoteToken, "1", fixedpoint.Zero, mid)
	if err != nil {
		t.Fatalf("QuoteSwapOut (disabled): %v", err)
	}

	pool.SwapConfig.EnableConfidenceInterval = true
	enabled, err := QuoteSwapOut(pool, baseToken, quoteToken, "1", fixedpoint.Zero, withBounds)
	if err != nil {
		t.Fatalf("QuoteSwapOut (enabled): %v", err)
	}

	disabledOut := mustDec(t, disabled.AmountOut)
	enabledOut := mustDec(t, enabled.AmountOut)
	if enabledOut.Equal(disabledOut) {
		t.Fatalf("expected confidence interval to change amount_out, both were %s", disabledOut.String())
	}
	if !enabledOut.GreaterThan(disabledOut) {
		t.Fatalf("expected high-bound amount_out (%s) to exceed mid amount_out (%s) for this pool's target ratio", enabledOut.String(), disabledOut.String())
	}
}

// stablePool mirrors spec.md §8 scenario 1: slope=0.5, base_reserve =
// quote_reserve = target_base = target_quote = 1,000,000, P_stable=1.
// Decimals are zero on both sides so the engine's human<->pool-scale
// conversion is the identity, letting the reserve numbers above match the
// curve-layer scenario-1 test exactly.
func stablePool() amm.SwapInfo {
	return amm.SwapInfo{
		SwapType:          amm.SwapTypeStable,
		MintBase:          "base",
		MintQuote:         "quote",
		MintBaseDecimals:  0,
		MintQuoteDecimals: 0,
		PoolState: amm.PoolState{
			BaseReserve:        1_000_000,
			QuoteReserve:       1_000_000,
			TargetBaseReserve:  1_000_000,
			TargetQuoteReserve: 1_000_000,
		},
		SwapConfig: amm.SwapConfig{
			SlopeWad:                  500_000_000_000_000_000,
			TradeFeeNum:               0,
			TradeFeeDen:               1,
			AdminTradeFeeNum:          0,
			AdminTradeFeeDen:          1,
			MinReserveLimitPercentage: fixedpoint.Zero,
			VirtualReservePercentage:  fixedpoint.Zero,
		},
	}
}

var zeroDecToken = amm.TokenDescriptor{Symbol: "BASE", MintID: "base", Decimals: 0}
var zeroDecQuoteToken = amm.TokenDescriptor{Symbol: "QUOTE", MintID: "quote", Decimals: 0}

// Scenario 1 from spec.md §8, exercised at the quote-engine layer: an
// already-balanced stable pool should let a 100-unit trade through for
// close to 100 out, not bail out with a spurious DomainError.
func TestQuoteSwapOutStableEqualReserves(t *testing.T) {
	pool := stablePool()
	market := amm.MarketPriceTriple{Mid: fixedpoint.One, Defined: true}

	res, err := QuoteSwapOut(pool, zeroDecToken, zeroDecQuoteToken, "100", fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if res.Empty || res.InsufficientLiquidity {
		t.Fatalf("expected a feasible, sufficient quote, got %+v", res)
	}

	out := mustDec(t, res.AmountOut)
	lower := mustDec(t, "99.0")
	upper := mustDec(t, "100.0")
	if out.LessThan(lower) || out.GreaterThan(upper) {
		t.Fatalf("amount_out %s out of expected range [99.0,100.0]", out.String())
	}
}

// Scenario 5 from spec.md §8: inverse-quote round trip. Feeding
// quote_swap_in's amount_in back through quote_swap_out on the same pool
// must return at least the originally desired output.
func TestQuoteSwapInRoundTrip(t *testing.T) {
	pool := stablePool()
	market := amm.MarketPriceTriple{Mid: fixedpoint.One, Defined: true}

	in, err := QuoteSwapIn(pool, zeroDecToken, zeroDecQuoteToken, "100", fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapIn: %v", err)
	}
	if in.Empty || in.InsufficientLiquidity {
		t.Fatalf("expected a feasible, sufficient inverse quote, got %+v", in)
	}

	out, err := QuoteSwapOut(pool, zeroDecToken, zeroDecQuoteToken, in.AmountIn, fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if out.Empty || out.InsufficientLiquidity {
		t.Fatalf("expected a feasible, sufficient round-trip quote, got %+v", out)
	}

	amountOut := mustDec(t, out.AmountOut)
	desired := d(100)
	if amountOut.LessThan(desired) {
		t.Fatalf("round-trip amount_out %s should be >= 100", amountOut.String())
	}
}

func TestQuoteSwapOutZeroAmount(t *testing.T) {
	pool := normalPool()
	market := amm.MarketPriceTriple{Mid: d(2), Defined: true}

	res, err := QuoteSwapOut(pool, baseToken, quoteToken, "0", fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if res.AmountOut != "0" || res.InsufficientLiquidity {
		t.Fatalf("expected ZeroSwapResult, got %+v", res)
	}
}

func TestQuoteSwapOutEmptyAmount(t *testing.T) {
	pool := normalPool()
	market := amm.MarketPriceTriple{Mid: d(2), Defined: true}

	res, err := QuoteSwapOut(pool, baseToken, quoteToken, "", fixedpoint.Zero, market)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if !res.Empty || res.EmptyReason != errNoAmount.Error() {
		t.Fatalf("expected Empty with errNoAmount reason, got %+v", res)
	}
}

func TestQuoteSwapOutOracleUnavailable(t *testing.T) {
	pool := normalPool()

	res, err := QuoteSwapOut(pool, baseToken, quoteToken, "1", fixedpoint.Zero, amm.UndefinedMarketPriceTriple)
	if err != nil {
		t.Fatalf("QuoteSwapOut: %v", err)
	}
	if !res.Empty || res.EmptyReason != amm.ErrOracleUnavailable.Error() {
		t.Fatalf("expected Empty with ErrOracleUnavailable reason, got %+v", res)
	}
}

func TestQuoteSwapOutNegativeAmountRejected(t *testing.T) {
	pool := normalPool()
	market := amm.MarketPriceTriple{Mid: d(2), Defined: true}

	_, err := QuoteSwapOut(pool, baseToken, quoteToken, "-1", fixedpoint.Zero, market)
	var invalidAmount *amm.InvalidAmountError
	if !errors.As(err, &invalidAmount) {
		t.Fatalf("expected InvalidAmountError, got %v", err)
	}
}

func TestQuoteSwapOutRejectsUnknownTokenPair(t *testing.T) {
	pool := normalPool()
	market := amm.MarketPriceTriple{Mid: d(2), Defined: true}
	other := amm.TokenDescriptor{Symbol: "OTHER", MintID: "other", Decimals: 6}

	_, err := QuoteSwapOut(pool, other, quoteToken, "1", fixedpoint.Zero, market)
	if !errors.Is(err, amm.ErrInvalidTokenPair) {
		t.Fatalf("expected ErrInvalidTokenPair, got %v", err)
	}
}

// CheckSufficientReserve is spec.md §6's standalone check_sufficient_reserve:
// a small trade against a deep pool stays sufficient, a trade large enough
// to nearly drain the quote reserve does not.
func TestCheckSufficientReserveMonotonicity(t *testing.T) {
	pool := normalPool()

	small, err := CheckSufficientReserve(pool, d(1_000_000), d(1_900_000), amm.SellBase, d(2))
	if err != nil {
		t.Fatalf("CheckSufficientReserve (small): %v", err)
	}
	if !small {
		t.Fatal("expected a small trade to leave sufficient reserves")
	}

	huge, err := CheckSufficientReserve(pool, d(9_500_000_000), d(20_400_000), amm.SellBase, d(2))
	if err != nil {
		t.Fatalf("CheckSufficientReserve (huge): %v", err)
	}
	if huge {
		t.Fatal("expected a trade that nearly drains the quote reserve to be insufficient")
	}
}

func TestCheckSufficientReserveInvalidDirection(t *testing.T) {
	pool := normalPool()
	_, err := CheckSufficientReserve(pool, d(1), d(1), amm.SwapDirection(99), d(2))
	if !errors.Is(err, amm.ErrInvalidSwapDirection) {
		t.Fatalf("expected ErrInvalidSwapDirection, got %v", err)
	}
}
