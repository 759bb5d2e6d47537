// Package reserves implements spec.md §4.C's reserve analytics: the
// projection of current reserves onto the target ratio, the additive
// virtual-reserve augmentation used only by the normal-swap curve,
// post-trade reserve bookkeeping, the strict sufficiency predicate, and
// the per-share withdrawal split. Like pkg/curve, this package performs
// no I/O and holds no state between calls.
package reserves

import (
	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

var (
	zero    = fixedpoint.Zero
	hundred = fixedpoint.NewFromInt64(100)
)

// Normalized projects current reserves onto the target ratio while
// preserving TVL at the current market price p:
//
//	coef             = (base*p + quote) / (targetBase*p + targetQuote)
//	normalized_base  = coef * targetBase
//	normalized_quote = coef * targetQuote
func Normalized(base, quote, targetBase, targetQuote, p fixedpoint.Decimal) (normBase, normQuote fixedpoint.Decimal, err error) {
	numerator := base.Mul(p).Add(quote)
	denominator := targetBase.Mul(p).Add(targetQuote)
	coef, err := numerator.Quo(denominator)
	if err != nil {
		return zero, zero, err
	}
	return coef.Mul(targetBase), coef.Mul(targetQuote), nil
}

// Virtual computes the additive augmentation applied to normal-swap
// curve inputs only: virtual_base = normalized_base * v/100,
// virtual_quote = normalized_quote * v/100.
func Virtual(normBase, normQuote, v fixedpoint.Decimal) (virtualBase, virtualQuote fixedpoint.Decimal) {
	pct, err := v.Quo(hundred)
	if err != nil {
		return zero, zero
	}
	return normBase.Mul(pct), normQuote.Mul(pct)
}

// AfterSwap applies the post-trade reserve update for the given
// direction: SellBase adds the input to base and subtracts the output
// from quote; SellQuote is the mirror. A direction that is neither fails
// with amm.ErrInvalidSwapDirection per spec.md §7, rather than silently
// leaving reserves unchanged.
func AfterSwap(direction amm.SwapDirection, base, quote, amountIn, amountOut fixedpoint.Decimal) (newBase, newQuote fixedpoint.Decimal, err error) {
	switch direction {
	case amm.SellBase:
		return base.Add(amountIn), quote.Sub(amountOut), nil
	case amm.SellQuote:
		return base.Sub(amountOut), quote.Add(amountIn), nil
	default:
		return zero, zero, amm.ErrInvalidSwapDirection
	}
}

// Sufficient reports whether post-trade reserves stay strictly above the
// configured floor relative to reserves normalized from the post-trade
// state: base_after > normalized_base_after * L/100 AND
// quote_after > normalized_quote_after * L/100.
func Sufficient(baseAfter, quoteAfter, normalizedBaseAfter, normalizedQuoteAfter, minReserveLimitPercentage fixedpoint.Decimal) bool {
	pct, err := minReserveLimitPercentage.Quo(hundred)
	if err != nil {
		return false
	}
	baseFloor := normalizedBaseAfter.Mul(pct)
	quoteFloor := normalizedQuoteAfter.Mul(pct)
	return baseAfter.GreaterThan(baseFloor) && quoteAfter.GreaterThan(quoteFloor)
}
