// Package quote implements the pricing core's public entry points
// (spec.md §4.D): quote_swap_out and quote_swap_in, plus the
// deposit/withdraw support functions in §6. This is the only package in
// the core that touches decimal strings; everything below it
// (pkg/curve, pkg/reserves, pkg/fixedpoint) works in exact Decimal
// values at pool-integer scale.
package quote

import (
	"errors"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/curve"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
	"github.com/oraclecurve/amm-core/pkg/reserves"
)

var (
	ten     = fixedpoint.NewFromInt64(10)
	hundred = fixedpoint.NewFromInt64(100)
)

// errNoAmount is the EmptyQuoteResult reason when amount_in/amount_out was
// empty or failed to parse as a decimal string.
var errNoAmount = errors.New("quote: amount is empty or not a valid decimal string")

// resultScale is the number of fractional digits every human-scale
// decimal string in a SwapResult is rendered with.
const resultScale = 18

// decimalScaleFactor returns 10^exponent, handling a negative exponent as
// a reciprocal. This is used both to move amounts between human and
// pool-integer scale and, per spec.md §4.B.6, as the stable-swap's
// static price when exponent = quote_decimals - base_decimals.
func decimalScaleFactor(exponent int) fixedpoint.Decimal {
	if exponent >= 0 {
		return ten.IntPow(exponent)
	}
	recip, err := fixedpoint.One.Quo(ten.IntPow(-exponent))
	if err != nil {
		return fixedpoint.One
	}
	return recip
}

// reservePair names which pool-scale reserves/targets play the "in"/"out"
// roles for a curve call, and which oracle-price bound (high/low) that
// role selects under adverse selection.
type reservePair struct {
	in, out             fixedpoint.Decimal
	targetIn, targetOut fixedpoint.Decimal
	sellingBase         bool // true selects market.High, false selects market.Low
}

func forwardPair(direction amm.SwapDirection, baseReserve, quoteReserve, targetBase, targetQuote fixedpoint.Decimal) reservePair {
	if direction == amm.SellBase {
		return reservePair{in: baseReserve, out: quoteReserve, targetIn: targetBase, targetOut: targetQuote, sellingBase: true}
	}
	return reservePair{in: quoteReserve, out: baseReserve, targetIn: targetQuote, targetOut: targetBase, sellingBase: false}
}

// reversedPair is the reserve frame quote_swap_in uses: the opposite of
// the resolved direction, since solving "how much base in to get this
// much quote out" is computed as the inverse of the quote-sells-for-base
// forward formula.
func reversedPair(direction amm.SwapDirection, baseReserve, quoteReserve, targetBase, targetQuote fixedpoint.Decimal) reservePair {
	opposite := amm.SellQuote
	if direction == amm.SellQuote {
		opposite = amm.SellBase
	}
	return forwardPair(opposite, baseReserve, quoteReserve, targetBase, targetQuote)
}

// pickMarketPrice applies spec.md §4.D step 3: mid unless confidence
// intervals are enabled and bounds are available, in which case the
// adverse bound for the given orientation is used.
func pickMarketPrice(market amm.MarketPriceTriple, enableConfidence bool, sellingBase bool) fixedpoint.Decimal {
	if !enableConfidence || !market.HasBounds {
		return market.Mid
	}
	if sellingBase {
		return market.High
	}
	return market.Low
}

// QuoteSwapOut implements spec.md §4.D's quote_swap_out.
func QuoteSwapOut(pool amm.SwapInfo, from, to amm.TokenDescriptor, amountIn string, maxSlippagePct fixedpoint.Decimal, market amm.MarketPriceTriple) (amm.SwapResult, error) {
	if amountIn == "" {
		return amm.EmptyQuoteResult(errNoAmount), nil
	}
	amt, err := fixedpoint.FromDecimalString(amountIn)
	if err != nil {
		return amm.EmptyQuoteResult(errNoAmount), nil
	}
	if amt.IsZero() {
		return amm.ZeroSwapResult(), nil
	}
	if amt.Sign() < 0 {
		return amm.SwapResult{}, &amm.InvalidAmountError{Input: amountIn, Msg: "amount_in must be non-negative"}
	}

	direction, err := amm.ResolveSwapDirection(from.MintID, to.MintID, pool.MintBase, pool.MintQuote)
	if err != nil {
		return amm.SwapResult{}, err
	}

	if !market.Defined {
		return amm.EmptyQuoteResult(amm.ErrOracleUnavailable), nil
	}

	decimalsExponent := int(pool.MintQuoteDecimals) - int(pool.MintBaseDecimals)
	decimalsFactor := decimalScaleFactor(decimalsExponent)

	sellingBase := direction == amm.SellBase
	oraclePrice := pickMarketPrice(market, pool.SwapConfig.EnableConfidenceInterval, sellingBase)
	pNormalized := oraclePrice.Mul(decimalsFactor)

	scaledIn := amt.Mul(ten.IntPow(int(from.Decimals)))

	baseReserve := fixedpoint.NewFromInt64(int64(pool.PoolState.BaseReserve))
	quoteReserve := fixedpoint.NewFromInt64(int64(pool.PoolState.QuoteReserve))
	targetBase := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetBaseReserve))
	targetQuote := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetQuoteReserve))

	kernelBase, kernelQuote := baseReserve, quoteReserve
	if pool.SwapType == amm.SwapTypeNormal {
		normBase, normQuote, nErr := reserves.Normalized(baseReserve, quoteReserve, targetBase, targetQuote, pNormalized)
		if nErr == nil {
			vBase, vQuote := reserves.Virtual(normBase, normQuote, pool.SwapConfig.VirtualReservePercentage)
			kernelBase = baseReserve.Add(vBase)
			kernelQuote = quoteReserve.Add(vQuote)
		}
	}

	pair := forwardPair(direction, kernelBase, kernelQuote, targetBase, targetQuote)

	var rawOut fixedpoint.Decimal
	var priceImpact fixedpoint.Decimal
	var feasible bool

	switch pool.SwapType {
	case amm.SwapTypeNormal:
		result, cErr := curve.Combined(pair.in, pair.out, pair.targetIn, pair.targetOut, pNormalized, scaledIn)
		if cErr != nil {
			return amm.SwapResult{}, cErr
		}
		rawOut, priceImpact, feasible = result.Output, result.PriceImpact, result.Feasible
	case amm.SwapTypeStable:
		stablePrice := decimalsFactor
		if !sellingBase {
			stablePrice = decimalScaleFactor(-decimalsExponent)
		}
		s := pool.SwapConfig.Slope()
		balancedA, balancedB, bErr := curve.BalancedReserves(s, stablePrice, pair.in, pair.out)
		if bErr != nil {
			return amm.SwapResult{}, bErr
		}
		result, sErr := curve.StableOut(s, pair.in, pair.out, balancedA, balancedB, scaledIn)
		if sErr != nil {
			return amm.SwapResult{}, sErr
		}
		rawOut, priceImpact, feasible = result.Output, result.PriceImpact, result.Feasible
	default:
		return amm.SwapResult{}, amm.ErrInvalidSwapType
	}

	toDecimalsFactor := ten.IntPow(int(to.Decimals))

	if !feasible {
		return amm.SwapResult{
			AmountIn:              amt.ToDecimalString(resultScale),
			AmountOut:             "0",
			AmountOutWithSlippage: "0",
			Fee:                   "0",
			PriceImpact:           "0",
			InsufficientLiquidity: true,
		}, nil
	}

	if rawOut.Sign() < 0 {
		rawOut = fixedpoint.Zero
	}

	grossOut, err := rawOut.Quo(toDecimalsFactor)
	if err != nil {
		return amm.SwapResult{}, err
	}

	tradeFee, err := pool.SwapConfig.TradeFee()
	if err != nil {
		return amm.SwapResult{}, err
	}
	netOut := grossOut.Mul(fixedpoint.One.Sub(tradeFee))

	slippageMultiplier, err := hundred.Sub(maxSlippagePct).Quo(hundred)
	if err != nil {
		return amm.SwapResult{}, err
	}
	outWithSlippage := netOut.Mul(slippageMultiplier)

	fee := grossOut.Sub(netOut)
	adminTradeFee, err := pool.SwapConfig.AdminTradeFee()
	if err != nil {
		return amm.SwapResult{}, err
	}
	adminFee := fee.Mul(adminTradeFee)

	netOutScaled := grossOut.Sub(adminFee).Mul(toDecimalsFactor)
	sufficient, err := CheckSufficientReserve(pool, scaledIn, netOutScaled, direction, market.Mid)
	if err != nil {
		return amm.SwapResult{}, err
	}

	return amm.SwapResult{
		AmountIn:              amt.ToDecimalString(resultScale),
		AmountOut:             netOut.ToDecimalString(resultScale),
		AmountOutWithSlippage: outWithSlippage.ToDecimalString(resultScale),
		Fee:                   fee.ToDecimalString(resultScale),
		PriceImpact:           priceImpact.ToDecimalString(resultScale),
		InsufficientLiquidity: !sufficient,
	}, nil
}

// CheckSufficientReserve implements spec.md §6's check_sufficient_reserve:
// given a trade already scaled to pool-integer units, it projects the
// post-trade reserves and reports whether they stay strictly above the
// pool's configured floor relative to reserves normalized at marketPrice
// (the oracle mid price, quote per base, at human scale). QuoteSwapOut
// uses this same function for its own sufficiency check, so an external
// caller re-running it against a quote already returned gets an identical
// answer.
func CheckSufficientReserve(pool amm.SwapInfo, amountInScaled, amountOutScaled fixedpoint.Decimal, direction amm.SwapDirection, marketPrice fixedpoint.Decimal) (bool, error) {
	decimalsExponent := int(pool.MintQuoteDecimals) - int(pool.MintBaseDecimals)
	pNormalized := marketPrice.Mul(decimalScaleFactor(decimalsExponent))

	baseReserve := fixedpoint.NewFromInt64(int64(pool.PoolState.BaseReserve))
	quoteReserve := fixedpoint.NewFromInt64(int64(pool.PoolState.QuoteReserve))
	targetBase := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetBaseReserve))
	targetQuote := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetQuoteReserve))

	newBase, newQuote, err := reserves.AfterSwap(direction, baseReserve, quoteReserve, amountInScaled, amountOutScaled)
	if err != nil {
		return false, err
	}

	normBaseAfter, normQuoteAfter, err := reserves.Normalized(newBase, newQuote, targetBase, targetQuote, pNormalized)
	if err != nil {
		return false, err
	}

	return reserves.Sufficient(newBase, newQuote, normBaseAfter, normQuoteAfter, pool.SwapConfig.MinReserveLimitPercentage), nil
}

// QuoteSwapIn implements spec.md §4.D's quote_swap_in: given a desired
// output amount, compute the required input.
func QuoteSwapIn(pool amm.SwapInfo, from, to amm.TokenDescriptor, amountOut string, maxSlippagePct fixedpoint.Decimal, market amm.MarketPriceTriple) (amm.SwapResult, error) {
	if amountOut == "" {
		return amm.EmptyQuoteResult(errNoAmount), nil
	}
	desiredOut, err := fixedpoint.FromDecimalString(amountOut)
	if err != nil {
		return amm.EmptyQuoteResult(errNoAmount), nil
	}
	if desiredOut.IsZero() {
		return amm.ZeroSwapResult(), nil
	}
	if desiredOut.Sign() < 0 {
		return amm.SwapResult{}, &amm.InvalidAmountError{Input: amountOut, Msg: "amount_out must be non-negative"}
	}

	direction, err := amm.ResolveSwapDirection(from.MintID, to.MintID, pool.MintBase, pool.MintQuote)
	if err != nil {
		return amm.SwapResult{}, err
	}

	if !market.Defined {
		return amm.EmptyQuoteResult(amm.ErrOracleUnavailable), nil
	}

	tradeFee, err := pool.SwapConfig.TradeFee()
	if err != nil {
		return amm.SwapResult{}, err
	}
	oneMinusFee := fixedpoint.One.Sub(tradeFee)
	grossOut, err := desiredOut.Quo(oneMinusFee)
	if err != nil {
		return amm.SwapResult{}, err
	}

	decimalsExponent := int(pool.MintQuoteDecimals) - int(pool.MintBaseDecimals)
	decimalsFactor := decimalScaleFactor(decimalsExponent)

	// The reversed pair's orientation decides which oracle bound applies,
	// per the same adverse-selection rule used by quote_swap_out.
	reversedSellingBase := direction != amm.SellBase
	oraclePrice := pickMarketPrice(market, pool.SwapConfig.EnableConfidenceInterval, reversedSellingBase)
	pNormalized := oraclePrice.Mul(decimalsFactor)

	toDecimalsFactor := ten.IntPow(int(to.Decimals))
	grossOutScaled := grossOut.Mul(toDecimalsFactor)

	baseReserve := fixedpoint.NewFromInt64(int64(pool.PoolState.BaseReserve))
	quoteReserve := fixedpoint.NewFromInt64(int64(pool.PoolState.QuoteReserve))
	targetBase := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetBaseReserve))
	targetQuote := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetQuoteReserve))

	kernelBase, kernelQuote := baseReserve, quoteReserve
	if pool.SwapType == amm.SwapTypeNormal {
		normBase, normQuote, nErr := reserves.Normalized(baseReserve, quoteReserve, targetBase, targetQuote, pNormalized)
		if nErr == nil {
			vBase, vQuote := reserves.Virtual(normBase, normQuote, pool.SwapConfig.VirtualReservePercentage)
			kernelBase = baseReserve.Add(vBase)
			kernelQuote = quoteReserve.Add(vQuote)
		}
	}

	pair := reversedPair(direction, kernelBase, kernelQuote, targetBase, targetQuote)

	var rawIn fixedpoint.Decimal
	var feasible bool

	switch pool.SwapType {
	case amm.SwapTypeNormal:
		rawIn, feasible = curve.InverseIn(pair.in, pair.out, pair.targetIn, pair.targetOut, pNormalized, grossOutScaled)
	case amm.SwapTypeStable:
		stablePrice := decimalsFactor
		if !reversedSellingBase {
			stablePrice = decimalScaleFactor(-decimalsExponent)
		}
		s := pool.SwapConfig.Slope()
		balancedA, balancedB, bErr := curve.BalancedReserves(s, stablePrice, pair.in, pair.out)
		if bErr != nil {
			return amm.SwapResult{}, bErr
		}
		// The stable curve has no closed-form inverse in this core; a
		// negative trade size against the same forward formula recovers
		// the required input the same way the normal-swap kernel does.
		result, sErr := curve.StableOut(s, pair.in, pair.out, balancedA, balancedB, grossOutScaled.Neg())
		if sErr != nil {
			return amm.SwapResult{}, sErr
		}
		rawIn, feasible = result.Output.Neg(), result.Feasible
	default:
		return amm.SwapResult{}, amm.ErrInvalidSwapType
	}

	fromDecimalsFactor := ten.IntPow(int(from.Decimals))

	if !feasible || rawIn.Sign() < 0 {
		return amm.SwapResult{
			AmountIn:              "0",
			AmountOut:             desiredOut.ToDecimalString(resultScale),
			AmountOutWithSlippage: "0",
			Fee:                   fee(grossOut, desiredOut).ToDecimalString(resultScale),
			PriceImpact:           "0",
			InsufficientLiquidity: true,
		}, nil
	}

	amountIn, err := rawIn.Quo(fromDecimalsFactor)
	if err != nil {
		return amm.SwapResult{}, err
	}

	slippageMultiplier, err := hundred.Sub(maxSlippagePct).Quo(hundred)
	if err != nil {
		return amm.SwapResult{}, err
	}
	outWithSlippage := desiredOut.Mul(slippageMultiplier)

	return amm.SwapResult{
		AmountIn:              amountIn.ToDecimalString(resultScale),
		AmountOut:             desiredOut.ToDecimalString(resultScale),
		AmountOutWithSlippage: outWithSlippage.ToDecimalString(resultScale),
		Fee:                   fee(grossOut, desiredOut).ToDecimalString(resultScale),
		PriceImpact:           "0",
		InsufficientLiquidity: false,
	}, nil
}

func fee(grossOut, netOut fixedpoint.Decimal) fixedpoint.Decimal {
	return grossOut.Sub(netOut)
}
