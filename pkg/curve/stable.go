package curve

import "github.com/oraclecurve/amm-core/pkg/fixedpoint"

// BalancedReserves solves spec.md §4.B.4: the point on the current
// invariant surface whose base/quote ratio equals the static price p.
//
//	alpha*x^2 + beta*x + gamma = 0
//	alpha =  (2-s)*p
//	beta  = -(1-s)*(p*a+b)
//	gamma = -s*a*b
//	balanced_a = (-beta + sqrt(beta^2 - 4*alpha*gamma)) / (2*alpha)   (sqrt Ceil, division Ceil)
//	balanced_b = balanced_a * p
func BalancedReserves(s, p, a, b fixedpoint.Decimal) (balancedA, balancedB fixedpoint.Decimal, err error) {
	oneMinusS := one.Sub(s)
	two := fixedpoint.NewFromInt64(2)
	four := fixedpoint.NewFromInt64(4)

	alpha := two.Sub(s).Mul(p)
	beta := oneMinusS.Mul(p.Mul(a).Add(b)).Neg()
	gamma := s.Mul(a).Mul(b).Neg()

	discriminant := beta.Mul(beta).Sub(four.Mul(alpha).Mul(gamma))
	if discriminant.Sign() < 0 {
		return zero, zero, fixedpoint.DomainError{Op: "stable_balanced_reserves", Msg: "negative discriminant"}
	}

	sqrtDisc, err := discriminant.Sqrt(fixedpoint.Ceil, internalScale)
	if err != nil {
		return zero, zero, err
	}

	numerator := beta.Neg().Add(sqrtDisc)
	twoAlpha := two.Mul(alpha)
	balancedA, err = numerator.DivRound(twoAlpha, fixedpoint.Ceil, internalScale)
	if err != nil {
		return zero, zero, err
	}
	balancedB = balancedA.Mul(p)
	return balancedA, balancedB, nil
}

// StableResult is the stable-swap output spec.md §4.B.5 asks for.
type StableResult struct {
	Output      fixedpoint.Decimal
	PriceImpact fixedpoint.Decimal
	Feasible    bool
}

// StableOut evaluates spec.md §4.B.5:
//
//	multiplicand = b + balanced_b*(1-s)/s                      (Floor on (1-s)*balanced_b)
//	num          = (1-s)*balanced_a + s*a
//	den          = (1-s)*balanced_a + s*(a+m)
//	multiplier   = 1 - num/den                                 (Floor on num/den)
//	output       = multiplicand * multiplier                   (then floor to integer)
//
// feasible is false when den <= 0, the documented -infinity sentinel.
func StableOut(s, a, b, balancedA, balancedB, m fixedpoint.Decimal) (StableResult, error) {
	oneMinusS := one.Sub(s)

	scaledBalancedB := oneMinusS.Mul(balancedB).Round(fixedpoint.Floor, internalScale)
	dividedB, err := scaledBalancedB.Quo(s)
	if err != nil {
		return StableResult{}, err
	}
	multiplicand := b.Add(dividedB)

	num := oneMinusS.Mul(balancedA).Add(s.Mul(a))
	den := oneMinusS.Mul(balancedA).Add(s.Mul(a.Add(m)))
	if den.Sign() <= 0 {
		return StableResult{Feasible: false}, nil
	}

	numOverDen, err := num.DivRound(den, fixedpoint.Floor, internalScale)
	if err != nil {
		return StableResult{}, err
	}
	multiplier := one.Sub(numOverDen)
	outputExact := multiplicand.Mul(multiplier)
	output := outputExact.Round(fixedpoint.Floor, 0)

	scaledBalancedA := oneMinusS.Mul(balancedA).Round(fixedpoint.Floor, internalScale)
	dividedA, err := scaledBalancedA.Quo(s)
	if err != nil {
		return StableResult{}, err
	}
	impliedDen := a.Add(dividedA)

	impact, err := stablePriceImpact(multiplicand, impliedDen, output, m)
	if err != nil {
		return StableResult{}, err
	}

	return StableResult{Output: output, PriceImpact: impact, Feasible: true}, nil
}

// stablePriceImpact computes |implied-actual|/actual for the stable
// curve, where implied = multiplicand/impliedDen (spec.md §4.B.5) and
// actual = output/m. impact is zero for a zero-size trade, mirroring the
// normal-swap curve's guard.
func stablePriceImpact(multiplicand, impliedDen, output, m fixedpoint.Decimal) (fixedpoint.Decimal, error) {
	if m.IsZero() {
		return zero, nil
	}
	if impliedDen.IsZero() {
		return zero, fixedpoint.DomainError{Op: "stable_price_impact", Msg: "implied denominator is zero"}
	}

	implied, err := multiplicand.Quo(impliedDen)
	if err != nil {
		return zero, err
	}
	actual, err := output.Quo(m)
	if err != nil {
		return zero, err
	}
	if actual.IsZero() {
		return zero, fixedpoint.DomainError{Op: "stable_price_impact", Msg: "actual price is zero"}
	}

	diff := implied.Sub(actual).Abs()
	return diff.DivRound(actual, fixedpoint.HalfEven, internalScale)
}
