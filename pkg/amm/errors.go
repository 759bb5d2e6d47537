package amm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pricing core's taxonomy (spec.md §7). Callers
// use errors.Is against these, the same way the teacher's pkg/types
// sentinel errors are checked.
var (
	ErrInvalidAmount        = errors.New("amm: invalid amount")
	ErrInvalidTokenPair     = errors.New("amm: from/to mints do not match pool mints")
	ErrInvalidSwapType      = errors.New("amm: unknown swap type")
	ErrInvalidSwapDirection = errors.New("amm: unknown swap direction")
	ErrOracleUnavailable    = errors.New("amm: market price triple is undefined")
)

// InvalidAmountError wraps ErrInvalidAmount with the offending input.
type InvalidAmountError struct {
	Input string
	Msg   string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amm: invalid amount %q: %s", e.Input, e.Msg)
}

func (e *InvalidAmountError) Unwrap() error { return ErrInvalidAmount }

// InternalInvariantError reports a post-condition violation: a mismatch
// between the specification and the implementation, never a user-caused
// failure. Spec.md §4.B.3/§7 treat these as panic-class and forbid
// recovery.
type InternalInvariantError struct {
	Op  string
	Msg string
}

func (e *InternalInvariantError) Error() string {
	return fmt.Sprintf("amm: internal invariant violated in %s: %s", e.Op, e.Msg)
}

// Assert panics with an InternalInvariantError when cond is false. Used at
// every post-condition site named in spec.md (e.g. approx <= implied,
// amount_out <= implied_amount_out). Never recovered: a caller seeing this
// panic has found a bug in this package, not in their input.
func Assert(cond bool, op, msg string) {
	if !cond {
		panic(&InternalInvariantError{Op: op, Msg: msg})
	}
}
