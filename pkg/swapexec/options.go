// Package swapexec adapts a quoted amm.SwapResult into the Solana
// instructions that actually move tokens: ATA creation, WSOL wrap/unwrap,
// and the swap instruction itself. Nothing in pkg/quote or pkg/curve
// depends on this package; it is the one place the pricing core's output
// meets chain execution.
package swapexec

import (
	"encoding/json"
	"io"

	"github.com/gagliardetto/solana-go"

	"github.com/oraclecurve/amm-core/pkg/jito"
)

// Options configures swap execution helpers.
type Options struct {
	Overrides       map[string]solana.PublicKey
	Preview         io.Writer
	TrackVolume     bool
	KnownATAs       []solana.PublicKey // Skip ATA existence check for these addresses
	MinOutputAmount uint64             // If non-zero, replaces BuildSwap's minOutputAmount argument
	CloseBaseATA    bool               // Close base token ATA after sell (default: false)
	CloseQuoteATA   bool               // Close quote token ATA after sell for WSOL unwrap (default: false)
	JitoTipLamports uint64             // Jito tip amount in lamports (0 = no tip)
	JitoTipAccount  solana.PublicKey   // Jito tip account (if zero, uses random from predefined list)
}

// Option functional option.
type Option func(*Options)

func WithOverrides(m map[string]solana.PublicKey) Option {
	return func(o *Options) { o.Overrides = m }
}

func WithPreview(w io.Writer) Option {
	return func(o *Options) { o.Preview = w }
}

func WithTrackVolume(v bool) Option {
	return func(o *Options) { o.TrackVolume = v }
}

// WithKnownATAs skips ATA existence check for the specified addresses.
// Use this when you know the ATA exists (e.g., from a previous swap) to
// avoid RPC state propagation delays.
func WithKnownATAs(atas ...solana.PublicKey) Option {
	return func(o *Options) { o.KnownATAs = append(o.KnownATAs, atas...) }
}

// WithMinOutputAmount sets the minimum acceptable output amount directly;
// a non-zero value replaces the minOutputAmount argument passed to
// BuildSwap.
func WithMinOutputAmount(amount uint64) Option {
	return func(o *Options) { o.MinOutputAmount = amount }
}

// WithCloseBaseATA closes the base token ATA after the swap.
// Only use when the account's balance will be zero afterward.
func WithCloseBaseATA() Option {
	return func(o *Options) { o.CloseBaseATA = true }
}

// WithCloseQuoteATA closes the quote token ATA after the swap (for WSOL
// unwrap). Use this when quote is WSOL and the caller wants native SOL
// back.
func WithCloseQuoteATA() Option {
	return func(o *Options) { o.CloseQuoteATA = true }
}

// WithJitoTip adds a Jito tip transfer instruction at the end of the
// transaction. tipLamports: amount to tip in lamports (e.g. 1_000_000 =
// 0.001 SOL). Uses a random tip account from the predefined list unless
// WithJitoTipAccount overrides it.
func WithJitoTip(tipLamports uint64) Option {
	return func(o *Options) {
		o.JitoTipLamports = tipLamports
		if o.JitoTipAccount.IsZero() {
			o.JitoTipAccount = jito.GetRandomTipAccountLocal()
		}
	}
}

// WithJitoTipAccount specifies a custom Jito tip account.
func WithJitoTipAccount(account solana.PublicKey) Option {
	return func(o *Options) { o.JitoTipAccount = account }
}

// MergeOverridesFromJSON merges base58 pubkeys from a JSON blob into dst.
func MergeOverridesFromJSON(dst map[string]solana.PublicKey, jsonBytes []byte) (map[string]solana.PublicKey, error) {
	if dst == nil {
		dst = make(map[string]solana.PublicKey)
	}
	var m map[string]string
	if err := json.Unmarshal(jsonBytes, &m); err != nil {
		return nil, err
	}
	for k, v := range m {
		pk, err := solana.PublicKeyFromBase58(v)
		if err != nil {
			return nil, err
		}
		dst[k] = pk
	}
	return dst, nil
}
