package curve

import (
	"testing"

	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

func d(n int64) fixedpoint.Decimal { return fixedpoint.NewFromInt64(n) }

// Scenario 2 from spec.md §8: normal-swap small trade.
func TestForwardOutSmallTrade(t *testing.T) {
	a := d(9_500_000)
	b := d(20_500_000)
	targetA := d(10_000_000)
	targetB := d(20_000_000)
	p := d(2)
	m := d(1_000_000)

	res, err := Combined(a, b, targetA, targetB, p, m)
	if err != nil {
		t.Fatalf("Combined: %v", err)
	}
	if !res.Feasible {
		t.Fatal("expected feasible result")
	}

	lower := d(1_900_000)
	upper := d(2_000_000)
	if res.Output.LessThan(lower) || res.Output.GreaterThan(upper) {
		t.Fatalf("output %s out of expected range [1900000,2000000]", res.Output.String())
	}

	// implied price is 2*(20.5/9.5)*(10/20) = 41/19 ~ 2.158 against an
	// actual price of ~1.952, so the impact is ~0.1053.
	maxImpact, _ := fixedpoint.NewFromFraction(11, 100)
	if res.PriceImpact.GreaterThan(maxImpact) {
		t.Fatalf("price impact %s should be < 0.11", res.PriceImpact.String())
	}
}

// Scenario 3 from spec.md §8: normal-swap beyond liquidity — the forward
// kernel itself stays finite (the quote engine is what flags
// insufficient_liquidity), but output must still respect the implied
// upper bound even for a trade this large.
func TestForwardOutBeyondLiquidityStillConservative(t *testing.T) {
	a := d(9_500_000)
	b := d(20_500_000)
	targetA := d(10_000_000)
	targetB := d(20_000_000)
	p := d(2)
	m := d(9_500_000)

	res, err := Combined(a, b, targetA, targetB, p, m)
	if err != nil {
		t.Fatalf("Combined: %v", err)
	}
	if !res.Feasible {
		t.Fatal("expected feasible result (a+m > 0)")
	}
	implied, err := ImpliedOutput(a, b, targetA, targetB, p, m)
	if err != nil {
		t.Fatalf("ImpliedOutput: %v", err)
	}
	if res.Output.GreaterThan(implied) {
		t.Fatalf("output %s exceeds implied %s", res.Output.String(), implied.String())
	}
}

func TestForwardOutInfeasibleWhenDenomNonPositive(t *testing.T) {
	a := d(100)
	b := d(100)
	targetA := d(100)
	targetB := d(100)
	p := d(1)
	m := d(-100) // a+m == 0

	_, feasible := ForwardOut(a, b, targetA, targetB, p, m)
	if feasible {
		t.Fatal("expected infeasible result when a+m <= 0")
	}
}

func TestInverseInRoundTrip(t *testing.T) {
	// Quote out using a forward trade, then recover (approximately) the
	// same input by asking the inverse kernel for that output in the
	// reversed reserve frame.
	a := d(10_000_000)
	b := d(10_000_000)
	targetA := d(10_000_000)
	targetB := d(10_000_000)
	p := d(1)
	m := d(1_000)

	out, feasible := ForwardOut(a, b, targetA, targetB, p, m)
	if !feasible {
		t.Fatal("expected feasible forward result")
	}

	// Reversed frame: swap which reserve is "in" vs "out".
	amountIn, feasible := InverseIn(b, a, targetB, targetA, p, out)
	if !feasible {
		t.Fatal("expected feasible inverse result")
	}
	if amountIn.LessThan(zero) {
		t.Fatalf("recovered amount_in should be non-negative, got %s", amountIn.String())
	}
}

func TestPriceImpactZeroForZeroTrade(t *testing.T) {
	a := d(1_000_000)
	b := d(1_000_000)
	targetA := d(1_000_000)
	targetB := d(1_000_000)
	p := d(1)
	m := zero

	impact, err := PriceImpact(a, b, targetA, targetB, p, m, zero)
	if err != nil {
		t.Fatalf("PriceImpact: %v", err)
	}
	if !impact.IsZero() {
		t.Fatalf("expected zero impact for zero trade, got %s", impact.String())
	}
}

func TestApproxOutSkippedOutsideUsefulRegime(t *testing.T) {
	// b <= m triggers the documented skip.
	a := d(1_000_000)
	b := d(100)
	targetA := d(1_000_000)
	targetB := d(1_000_000)
	p := d(1)
	m := d(1_000)

	_, ok := ApproxOut(a, b, targetA, targetB, p, m)
	if ok {
		t.Fatal("expected approximation to be skipped when b <= m")
	}
}
