package curve

import (
	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

// ImpliedOutput computes the linear output at the implied (infinitesimal)
// price: m * (b/a) * P * (A/B). This is the strict upper bound every
// curve output must respect (spec.md §3 invariant 5, §8 property 2),
// computed exactly with no intermediate rounding.
func ImpliedOutput(a, b, targetA, targetB, p, m fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	bOverA, err := b.Quo(a)
	if err != nil {
		return zero, err
	}
	targetAOverB, err := targetA.Quo(targetB)
	if err != nil {
		return zero, err
	}
	return m.Mul(bOverA).Mul(p).Mul(targetAOverB), nil
}

// normalClosedForm evaluates spec.md §4.B.1:
//
//	output = b - b * (a/(a+m))^(P*A/B)
//
// m may be negative (the original source's inverse-quote trick); feasible
// is false when a+m <= 0, the documented "return -infinity" sentinel the
// caller must treat as infeasible.
func normalClosedForm(a, b, targetA, targetB, p, m fixedpoint.Decimal) (output fixedpoint.Decimal, feasible bool) {
	denom := a.Add(m)
	if denom.Sign() <= 0 {
		return zero, false
	}

	core, err := a.DivRound(denom, fixedpoint.Ceil, internalScale)
	if err != nil {
		return zero, false
	}

	exp, err := p.Mul(targetA).DivRound(targetB, fixedpoint.Floor, internalScale)
	if err != nil {
		return zero, false
	}

	corePow := core.PowEpsilon(exp)
	bCorePow := b.Mul(corePow).Round(fixedpoint.Ceil, 0)
	return b.Sub(bCorePow), true
}

// ForwardOut computes the normal-swap output for a non-negative input
// amount m. This is the only forward entry point external packages need;
// the sign trick that makes the same formula serve inverse quotes is kept
// entirely inside InverseIn.
func ForwardOut(a, b, targetA, targetB, p, m fixedpoint.Decimal) (output fixedpoint.Decimal, feasible bool) {
	return normalClosedForm(a, b, targetA, targetB, p, m)
}

// InverseIn computes the input amount required to produce desiredOut, in
// the reserve frame already swapped by the caller for the reversed
// direction (a, b, targetA, targetB named from the "in" side's
// perspective after swapping). It evaluates the same closed form with a
// negative m and negates the (necessarily non-positive) result, so
// callers never see the negative-m sentinel spec.md §9 warns about.
func InverseIn(a, b, targetA, targetB, p, desiredOut fixedpoint.Decimal) (amountIn fixedpoint.Decimal, feasible bool) {
	result, feasible := normalClosedForm(a, b, targetA, targetB, p, desiredOut.Neg())
	if !feasible {
		return zero, false
	}
	return result.Neg(), true
}

// ApproxOut evaluates spec.md §4.B.2, the Taylor-style tightened lower
// bound used when the closed form rounds away too much. ok is false when
// the approximation should be skipped: the spec's explicit optional
// variant in place of an overloaded zero-or-null sentinel.
func ApproxOut(a, b, targetA, targetB, p, m fixedpoint.Decimal) (approx fixedpoint.Decimal, ok bool) {
	ratio, err := p.Mul(targetA).Quo(targetB)
	if err != nil {
		return zero, false
	}
	expCeilDec := ratio.Round(fixedpoint.Ceil, 0)
	expCeil := int(expCeilDec.IntPart().Int64())
	if expCeil < 0 {
		expCeil = 0
	}

	mExpCeil := m.Mul(fixedpoint.NewFromInt64(int64(expCeil)))
	if a.Cmp(mExpCeil) <= 0 || b.Cmp(m) <= 0 {
		return zero, false
	}

	denom := a.Add(m)
	if denom.Sign() <= 0 {
		return zero, false
	}
	core, err := a.DivRound(denom, fixedpoint.Ceil, internalScale)
	if err != nil {
		return zero, false
	}
	coreHigh := core.IntPow(expCeil)

	aMinusMExp := a.Sub(mExpCeil)
	coreLow, err := aMinusMExp.DivRound(a, fixedpoint.Floor, internalScale)
	if err != nil || coreLow.IsZero() {
		return zero, false
	}

	k, err := coreHigh.DivRound(coreLow, fixedpoint.Ceil, internalScale)
	if err != nil {
		return zero, false
	}

	implied, err := ImpliedOutput(a, b, targetA, targetB, p, m)
	if err != nil {
		return zero, false
	}

	diff := k.Sub(one).Mul(b.Sub(implied))
	if implied.Abs().LessThanOrEqual(diff) {
		return zero, false
	}

	approx = implied.Sub(diff).Round(fixedpoint.Floor, 0)
	amm.Assert(approx.LessThanOrEqual(implied), "normal_swap_approx", "approx must not exceed implied output")
	return approx, true
}

// CombinedResult is the normal-swap output spec.md §4.B.3 asks for: the
// closed-form output, tightened by the approximation when it is
// available and larger, together with the price impact of the trade.
type CombinedResult struct {
	Output      fixedpoint.Decimal
	PriceImpact fixedpoint.Decimal
	Feasible    bool
}

// Combined computes the normal-swap output and price impact for a
// forward trade of size m (m >= 0).
func Combined(a, b, targetA, targetB, p, m fixedpoint.Decimal) (CombinedResult, error) {
	closed, feasible := ForwardOut(a, b, targetA, targetB, p, m)
	if !feasible {
		return CombinedResult{Feasible: false}, nil
	}

	output := closed
	if approx, ok := ApproxOut(a, b, targetA, targetB, p, m); ok && approx.GreaterThan(output) {
		output = approx
	}

	implied, err := ImpliedOutput(a, b, targetA, targetB, p, m)
	if err != nil {
		return CombinedResult{}, err
	}
	amm.Assert(output.LessThanOrEqual(implied), "normal_swap_combined", "output must not exceed implied output")

	impact, err := PriceImpact(a, b, targetA, targetB, p, m, output)
	if err != nil {
		return CombinedResult{}, err
	}

	return CombinedResult{Output: output, PriceImpact: impact, Feasible: true}, nil
}

// PriceImpact computes |implied_price - actual_price| / actual_price for
// the normal-swap curve. impact is zero when m is zero (no trade, no
// impact to report).
func PriceImpact(a, b, targetA, targetB, p, m, output fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	if m.IsZero() {
		return zero, nil
	}

	bOverA, err := b.Quo(a)
	if err != nil {
		return zero, err
	}
	targetAOverB, err := targetA.Quo(targetB)
	if err != nil {
		return zero, err
	}
	impliedPrice := p.Mul(bOverA).Mul(targetAOverB)

	actualPrice, err := output.Quo(m)
	if err != nil {
		// output/m with m != 0 cannot divide by zero; surfaced only for
		// completeness against spec.md's general "actual_price = infinity"
		// edge case, which this exact rational representation cannot
		// otherwise produce.
		return zero, err
	}
	if actualPrice.IsZero() {
		return zero, fixedpoint.DomainError{Op: "normal_price_impact", Msg: "actual price is zero"}
	}

	diff := impliedPrice.Sub(actualPrice).Abs()
	return diff.DivRound(actualPrice, fixedpoint.HalfEven, internalScale)
}
