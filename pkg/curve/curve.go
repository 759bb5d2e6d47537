// Package curve implements the two swap curve families the pricing core
// supports: a logarithmic "normal" curve and a flat "stable" curve. Every
// function here is pure: no I/O, no logging, and (per spec) no knowledge
// of token decimals — the caller (pkg/quote) normalizes amounts and market
// price before calling in, and is responsible for choosing which market
// price plays the role of `p` for the direction being quoted; no function
// in this package makes that choice.
package curve

import "github.com/oraclecurve/amm-core/pkg/fixedpoint"

// internalScale is the number of fractional decimal digits every
// directional rounding in this package snaps to before continuing the
// computation. It is well past the "40+ significant decimal digits"
// floor spec.md §4.A asks for; the snap itself (not just its precision)
// is what gives the kernels their conservative, never-overpay direction,
// so it is applied at every step spec.md marks with a rounding mode even
// though the underlying fixedpoint.Decimal is exact until then.
const internalScale = 60

var (
	zero = fixedpoint.Zero
	one  = fixedpoint.One
)
