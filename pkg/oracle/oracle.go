// Package oracle is the minimal concrete shape of spec.md §1's "oracle
// source" external collaborator: something that resolves a token symbol
// to a (price, confidence) pair. The pricing core itself never parses
// wire bytes or reaches the network; this package is where a caller
// wires that up before calling into pkg/quote.
package oracle

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/oraclecurve/amm-core/pkg/amm"
)

// Source resolves a token symbol to its current oracle observation.
type Source interface {
	Price(ctx context.Context, symbol string) (amm.OraclePrice, error)
}

// StaticSource is an in-memory Source for tests, examples, and CLI use
// without network access. The zero value is not usable; construct with
// NewStaticSource.
type StaticSource struct {
	mu     sync.RWMutex
	prices map[string]amm.OraclePrice
}

// NewStaticSource builds an empty StaticSource.
func NewStaticSource() *StaticSource {
	return &StaticSource{prices: make(map[string]amm.OraclePrice)}
}

// Set records the observation a future Price call for symbol should return.
func (s *StaticSource) Set(symbol string, price amm.OraclePrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[symbol] = price
}

// Price implements Source.
func (s *StaticSource) Price(ctx context.Context, symbol string) (amm.OraclePrice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[symbol]
	if !ok {
		return amm.OraclePrice{}, fmt.Errorf("oracle: no price recorded for %q", symbol)
	}
	return p, nil
}

// Lookup records one Source.Price call tagged with an opaque request ID,
// the way a production oracle aggregator correlates concurrent lookups
// in its logs without the pricing core itself ever seeing a log line.
type Lookup struct {
	RequestID string
	Symbol    string
	Price     amm.OraclePrice
	Err       error
}

// FetchPair resolves both sides of a market through src and derives the
// triple exactly per spec.md §3, returning the undefined triple if either
// side's lookup failed. The two lookups are independent calls (the spec
// does not require one RPC per pair), each tagged with its own request ID.
func FetchPair(ctx context.Context, src Source, baseSymbol, quoteSymbol string) (amm.MarketPriceTriple, []Lookup) {
	lookups := make([]Lookup, 2)

	basePrice, baseErr := src.Price(ctx, baseSymbol)
	lookups[0] = Lookup{RequestID: uuid.NewString(), Symbol: baseSymbol, Price: basePrice, Err: baseErr}

	quotePrice, quoteErr := src.Price(ctx, quoteSymbol)
	lookups[1] = Lookup{RequestID: uuid.NewString(), Symbol: quoteSymbol, Price: quotePrice, Err: quoteErr}

	if baseErr != nil || quoteErr != nil {
		return amm.UndefinedMarketPriceTriple, lookups
	}
	return amm.DeriveMarketPriceTriple(basePrice, quotePrice), lookups
}
