package quote

import (
	"testing"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

// Scenario 6 from spec.md §8, exercised through the quote-engine wrapper:
// base is below target (reserve=800, target=1000), quote is above
// (reserve=1200, target=1000); withdrawing an equal 100/1000 share of
// each at equal prices must split base below quote and sum to 200.
func TestCalculateWithdrawalFromSharesScenario6(t *testing.T) {
	pool := amm.PoolState{
		BaseReserve:        800,
		QuoteReserve:       1200,
		TargetBaseReserve:  1000,
		TargetQuoteReserve: 1000,
		BaseSupply:         1000,
		QuoteSupply:        1000,
	}

	amounts, err := CalculateWithdrawalFromShares(d(100), d(100), fixedpoint.One, fixedpoint.One, pool)
	if err != nil {
		t.Fatalf("CalculateWithdrawalFromShares: %v", err)
	}

	base := mustDec(t, amounts.BaseAmount)
	quote := mustDec(t, amounts.QuoteAmount)
	if !base.LessThan(quote) {
		t.Fatalf("expected base withdrawal (%s) < quote withdrawal (%s)", base.String(), quote.String())
	}

	sum := base.Add(quote)
	want := d(200)
	diff := sum.Sub(want).Abs()
	tolerance := mustDec(t, "0.000001")
	if diff.GreaterThan(tolerance) {
		t.Fatalf("sum %s should equal 200, diff %s", sum.String(), diff.String())
	}
}

func TestCalculateWithdrawalFromSharesZeroShareYieldsZero(t *testing.T) {
	pool := amm.PoolState{
		BaseReserve:        800,
		QuoteReserve:       1200,
		TargetBaseReserve:  1000,
		TargetQuoteReserve: 1000,
		BaseSupply:         1000,
		QuoteSupply:        1000,
	}

	amounts, err := CalculateWithdrawalFromShares(fixedpoint.Zero, fixedpoint.Zero, fixedpoint.One, fixedpoint.One, pool)
	if err != nil {
		t.Fatalf("CalculateWithdrawalFromShares: %v", err)
	}
	if !mustDec(t, amounts.BaseAmount).IsZero() || !mustDec(t, amounts.QuoteAmount).IsZero() {
		t.Fatalf("expected zero withdrawal for zero shares, got %+v", amounts)
	}
}
