package catalog

import (
	"context"
	"testing"

	"github.com/oraclecurve/amm-core/pkg/amm"
)

func TestStaticCatalogRegisterAndLookup(t *testing.T) {
	c := NewStaticCatalog()
	c.Register(amm.SwapInfo{ConfigKey: "pool-1", MintBase: "BASE", MintQuote: "QUOTE"})

	got, err := c.Pool(context.Background(), "pool-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MintBase != "BASE" || got.MintQuote != "QUOTE" {
		t.Fatalf("unexpected pool: %+v", got)
	}
}

func TestStaticCatalogUnknownKey(t *testing.T) {
	c := NewStaticCatalog()
	if _, err := c.Pool(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unregistered config key")
	}
}

func TestStaticCatalogReturnsCopy(t *testing.T) {
	c := NewStaticCatalog()
	c.Register(amm.SwapInfo{ConfigKey: "pool-1", MintBase: "BASE"})

	got, err := c.Pool(context.Background(), "pool-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got.MintBase = "MUTATED"

	got2, err := c.Pool(context.Background(), "pool-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got2.MintBase != "BASE" {
		t.Fatalf("mutation leaked into catalog: %+v", got2)
	}
}
