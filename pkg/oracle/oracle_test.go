package oracle

import (
	"context"
	"testing"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

func dec(t *testing.T, s string) fixedpoint.Decimal {
	t.Helper()
	d, err := fixedpoint.FromDecimalString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestStaticSourceMissingSymbol(t *testing.T) {
	src := NewStaticSource()
	if _, err := src.Price(context.Background(), "SOL"); err == nil {
		t.Fatal("expected error for unset symbol")
	}
}

func TestFetchPairDefined(t *testing.T) {
	src := NewStaticSource()
	src.Set("SOL", amm.OraclePrice{Price: dec(t, "100"), Confidence: dec(t, "1")})
	src.Set("USDC", amm.OraclePrice{Price: dec(t, "1"), Confidence: dec(t, "0.001")})

	triple, lookups := FetchPair(context.Background(), src, "SOL", "USDC")
	if !triple.Defined {
		t.Fatal("expected defined triple")
	}
	if !triple.Mid.Equal(dec(t, "100")) {
		t.Fatalf("mid = %s, want 100", triple.Mid.String())
	}
	if len(lookups) != 2 {
		t.Fatalf("expected 2 lookups, got %d", len(lookups))
	}
	if lookups[0].RequestID == "" || lookups[1].RequestID == "" {
		t.Fatal("expected non-empty request IDs")
	}
	if lookups[0].RequestID == lookups[1].RequestID {
		t.Fatal("expected distinct request IDs per lookup")
	}
}

func TestFetchPairUndefinedWhenSideMissing(t *testing.T) {
	src := NewStaticSource()
	src.Set("SOL", amm.OraclePrice{Price: dec(t, "100")})

	triple, lookups := FetchPair(context.Background(), src, "SOL", "USDC")
	if triple.Defined {
		t.Fatal("expected undefined triple when quote side is missing")
	}
	if lookups[1].Err == nil {
		t.Fatal("expected error recorded for missing quote lookup")
	}
}
