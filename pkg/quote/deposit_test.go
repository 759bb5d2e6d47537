package quote

import (
	"testing"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

// A deposit proportional to the pool's current target ratio should mint
// shares proportional to the existing supply, scaled by minCoefficient.
func TestCalculateMinSharesForDepositProportionalDeposit(t *testing.T) {
	pool := amm.SwapInfo{
		SwapType: amm.SwapTypeNormal,
		PoolState: amm.PoolState{
			TargetBaseReserve:  10_000_000,
			TargetQuoteReserve: 20_000_000,
			BaseSupply:         1_000_000,
			QuoteSupply:        1_000_000,
		},
	}
	marketPrice := d(2)
	minCoefficient := mustDec(t, "0.99")

	// Deposit exactly 1% of each target reserve: base=100,000, quote=200,000.
	shares, err := CalculateMinSharesForDeposit(pool, d(100_000), d(200_000), marketPrice, minCoefficient)
	if err != nil {
		t.Fatalf("CalculateMinSharesForDeposit: %v", err)
	}

	base := mustDec(t, shares.MinBaseShare)
	quote := mustDec(t, shares.MinQuoteShare)

	wantBase := d(1_000_000).Mul(mustDec(t, "0.01")).Mul(minCoefficient)
	wantQuote := d(1_000_000).Mul(mustDec(t, "0.01")).Mul(minCoefficient)

	if !base.Equal(wantBase) {
		t.Fatalf("MinBaseShare = %s, want %s", base.String(), wantBase.String())
	}
	if !quote.Equal(wantQuote) {
		t.Fatalf("MinQuoteShare = %s, want %s", quote.String(), wantQuote.String())
	}
}

// A stable-swap pool splits by the raw reserve ratio (denominator 1), not
// by market price, per spec.md §9's decision for stable pools.
func TestCalculateMinSharesForDepositStablePoolIgnoresMarketPrice(t *testing.T) {
	pool := amm.SwapInfo{
		SwapType: amm.SwapTypeStable,
		PoolState: amm.PoolState{
			TargetBaseReserve:  1_000_000,
			TargetQuoteReserve: 1_000_000,
			BaseSupply:         1_000_000,
			QuoteSupply:        1_000_000,
		},
	}

	cheap, err := CalculateMinSharesForDeposit(pool, d(10_000), d(10_000), d(1), fixedpoint.One)
	if err != nil {
		t.Fatalf("CalculateMinSharesForDeposit (p=1): %v", err)
	}
	expensive, err := CalculateMinSharesForDeposit(pool, d(10_000), d(10_000), d(5), fixedpoint.One)
	if err != nil {
		t.Fatalf("CalculateMinSharesForDeposit (p=5): %v", err)
	}

	if cheap.MinBaseShare != expensive.MinBaseShare || cheap.MinQuoteShare != expensive.MinQuoteShare {
		t.Fatalf("expected stable-pool split to ignore market price, got %+v vs %+v", cheap, expensive)
	}
}

func TestCalculateMinSharesForDepositRejectsZeroTargetValue(t *testing.T) {
	pool := amm.SwapInfo{SwapType: amm.SwapTypeNormal}

	_, err := CalculateMinSharesForDeposit(pool, d(100), d(100), d(1), fixedpoint.One)
	if err == nil {
		t.Fatal("expected an error when target reserves are zero")
	}
}
