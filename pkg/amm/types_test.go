package amm

import (
	"errors"
	"testing"

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

func TestDeriveMarketPriceTripleUndefinedWhenMissing(t *testing.T) {
	base := OraclePrice{Price: fixedpoint.Zero}
	quote := OraclePrice{Price: dec(t, "1")}
	triple := DeriveMarketPriceTriple(base, quote)
	if triple.Defined {
		t.Fatal("expected undefined triple when base price is zero")
	}
}

func TestDeriveMarketPriceTripleMidLowHigh(t *testing.T) {
	base := OraclePrice{Price: dec(t, "2.0"), Confidence: dec(t, "0.02")}
	quote := OraclePrice{Price: dec(t, "1.0"), Confidence: dec(t, "0.01")}
	triple := DeriveMarketPriceTriple(base, quote)
	if !triple.Defined {
		t.Fatal("expected defined triple")
	}
	if !triple.Mid.Equal(dec(t, "2.0")) {
		t.Fatalf("mid = %s, want 2.0", triple.Mid.String())
	}
	if !triple.High.GreaterThan(triple.Mid) {
		t.Fatalf("high %s should exceed mid %s", triple.High.String(), triple.Mid.String())
	}
	if !triple.Low.LessThan(triple.Mid) {
		t.Fatalf("low %s should be below mid %s", triple.Low.String(), triple.Mid.String())
	}
}

func TestResolveSwapDirection(t *testing.T) {
	dir, err := ResolveSwapDirection("BASE", "QUOTE", "BASE", "QUOTE")
	if err != nil || dir != SellBase {
		t.Fatalf("expected SellBase, got %v, %v", dir, err)
	}
	dir, err = ResolveSwapDirection("QUOTE", "BASE", "BASE", "QUOTE")
	if err != nil || dir != SellQuote {
		t.Fatalf("expected SellQuote, got %v, %v", dir, err)
	}
	_, err = ResolveSwapDirection("OTHER", "BASE", "BASE", "QUOTE")
	if !errors.Is(err, ErrInvalidTokenPair) {
		t.Fatalf("expected ErrInvalidTokenPair, got %v", err)
	}
}

func TestAssertPanicsOnViolation(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if _, ok := r.(*InternalInvariantError); !ok {
			t.Fatalf("expected *InternalInvariantError, got %T", r)
		}
	}()
	Assert(false, "test_op", "always fails")
}
