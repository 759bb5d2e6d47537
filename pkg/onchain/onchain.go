// Package onchain is the wire layer between Solana account/instruction
// bytes and the pure pkg/amm data model. It owns the borsh layouts and
// 8-byte Anchor-style discriminators the pricing core never needs to
// know about.
package onchain

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

// discriminator computes the 8-byte Anchor account/instruction
// discriminator for namespace:name, matching the convention every Anchor
// program (and every client decoding one) uses: sha256("namespace:name")[:8].
func discriminator(namespace, name string) [8]byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

var (
	// PoolStateDiscriminator tags a PoolAccount's leading 8 bytes.
	PoolStateDiscriminator = discriminator("account", "PoolState")
	// SwapConfigDiscriminator tags a SwapConfigAccount's leading 8 bytes.
	SwapConfigDiscriminator = discriminator("account", "SwapConfig")
	// SwapInstructionDiscriminator tags a swap instruction's leading 8 bytes.
	SwapInstructionDiscriminator = discriminator("global", "swap")
)

// PoolAccount is the borsh-encoded on-chain layout backing amm.PoolState.
type PoolAccount struct {
	Discriminator      [8]byte
	BaseReserve        uint64
	QuoteReserve       uint64
	TargetBaseReserve  uint64
	TargetQuoteReserve uint64
	BaseSupply         uint64
	QuoteSupply        uint64
}

// UnmarshalPoolAccount decodes raw account data into a PoolAccount,
// rejecting data whose discriminator doesn't match PoolStateDiscriminator.
func UnmarshalPoolAccount(data []byte) (*PoolAccount, error) {
	var acc PoolAccount
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, fmt.Errorf("onchain: decode pool account: %w", err)
	}
	if acc.Discriminator != PoolStateDiscriminator {
		return nil, fmt.Errorf("onchain: unexpected pool account discriminator %x", acc.Discriminator)
	}
	return &acc, nil
}

// ToPoolState converts the on-chain layout into the pricing core's
// PoolState, dropping the discriminator.
func (a *PoolAccount) ToPoolState() amm.PoolState {
	return amm.PoolState{
		BaseReserve:        a.BaseReserve,
		QuoteReserve:       a.QuoteReserve,
		TargetBaseReserve:  a.TargetBaseReserve,
		TargetQuoteReserve: a.TargetQuoteReserve,
		BaseSupply:         a.BaseSupply,
		QuoteSupply:        a.QuoteSupply,
	}
}

// SwapConfigAccount is the borsh-encoded on-chain layout backing
// amm.SwapConfig.
type SwapConfigAccount struct {
	Discriminator             [8]byte
	SwapTypeTag               uint8 // 0 = normal, 1 = stable
	SlopeWad                  uint64
	TradeFeeNum               uint64
	TradeFeeDen               uint64
	AdminTradeFeeNum          uint64
	AdminTradeFeeDen          uint64
	WithdrawFeeNum            uint64
	WithdrawFeeDen            uint64
	AdminWithdrawFeeNum       uint64
	AdminWithdrawFeeDen       uint64
	MinReserveLimitPercentage uint64 // basis points, 10000 = 100%
	VirtualReservePercentage  uint64 // basis points
	MaxSwapPercentage         uint64 // basis points
	EnableConfidenceInterval  bool
}

// UnmarshalSwapConfigAccount decodes raw account data into a
// SwapConfigAccount, rejecting data whose discriminator doesn't match
// SwapConfigDiscriminator.
func UnmarshalSwapConfigAccount(data []byte) (*SwapConfigAccount, error) {
	var acc SwapConfigAccount
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, fmt.Errorf("onchain: decode swap config account: %w", err)
	}
	if acc.Discriminator != SwapConfigDiscriminator {
		return nil, fmt.Errorf("onchain: unexpected swap config discriminator %x", acc.Discriminator)
	}
	return &acc, nil
}

const basisPointsScale = 10000

// ToSwapConfig converts the on-chain basis-point percentages into the
// pricing core's fixedpoint.Decimal percentages in [0,100]. It does not
// read SwapTypeTag; SwapTypeOf resolves that into an amm.SwapType.
func (a *SwapConfigAccount) ToSwapConfig() (amm.SwapConfig, error) {
	minReserve, err := basisPointsToPercent(a.MinReserveLimitPercentage)
	if err != nil {
		return amm.SwapConfig{}, err
	}
	virtualReserve, err := basisPointsToPercent(a.VirtualReservePercentage)
	if err != nil {
		return amm.SwapConfig{}, err
	}
	maxSwap, err := basisPointsToPercent(a.MaxSwapPercentage)
	if err != nil {
		return amm.SwapConfig{}, err
	}

	return amm.SwapConfig{
		SlopeWad:                  a.SlopeWad,
		TradeFeeNum:                a.TradeFeeNum,
		TradeFeeDen:                a.TradeFeeDen,
		AdminTradeFeeNum:           a.AdminTradeFeeNum,
		AdminTradeFeeDen:           a.AdminTradeFeeDen,
		WithdrawFeeNum:             a.WithdrawFeeNum,
		WithdrawFeeDen:             a.WithdrawFeeDen,
		AdminWithdrawFeeNum:        a.AdminWithdrawFeeNum,
		AdminWithdrawFeeDen:        a.AdminWithdrawFeeDen,
		MinReserveLimitPercentage: minReserve,
		VirtualReservePercentage:  virtualReserve,
		MaxSwapPercentage:         maxSwap,
		EnableConfidenceInterval:  a.EnableConfidenceInterval,
	}, nil
}

// SwapTypeOf maps the account's tag byte to an amm.SwapType. Any tag other
// than 0 or 1 is reported rather than silently defaulted.
func (a *SwapConfigAccount) SwapTypeOf() (amm.SwapType, error) {
	switch a.SwapTypeTag {
	case 0:
		return amm.SwapTypeNormal, nil
	case 1:
		return amm.SwapTypeStable, nil
	default:
		return 0, fmt.Errorf("onchain: unknown swap type tag %d", a.SwapTypeTag)
	}
}

// basisPointsToPercent converts an integer basis-points value (10000 =
// 100%) into an exact fixedpoint.Decimal percentage.
func basisPointsToPercent(bps uint64) (fixedpoint.Decimal, error) {
	return fixedpoint.NewFromFraction(int64(bps)*100, basisPointsScale)
}

// SwapInstructionArgs is the Borsh-encoded argument tuple for the swap
// instruction, both directions sharing one layout (min_output_amount is
// ignored by a caller quoting quote_swap_in rather than executing).
type SwapInstructionArgs struct {
	AmountIn        uint64
	MinOutputAmount uint64
}

// EncodeSwapInstructionData serializes the discriminator-prefixed
// instruction data for a swap call.
func EncodeSwapInstructionData(args SwapInstructionArgs) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(SwapInstructionDiscriminator[:])
	enc := bin.NewBorshEncoder(buf)
	if err := enc.Encode(args); err != nil {
		return nil, fmt.Errorf("onchain: encode swap instruction: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrorTable maps a program's numeric error code to its name, the
// generic replacement for a per-program generated error table.
type ErrorTable map[uint32]string

// LookupError resolves a program error code against table, reporting
// whether the code was recognized.
func LookupError(table ErrorTable, code uint32) (string, bool) {
	name, ok := table[code]
	return name, ok
}
