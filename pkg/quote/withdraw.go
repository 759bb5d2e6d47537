package quote

import (
	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
	"github.com/oraclecurve/amm-core/pkg/reserves"
)

// WithdrawalAmounts is the decimal-string result of
// calculate_withdrawal_from_shares (spec.md §6).
type WithdrawalAmounts struct {
	BaseAmount  string
	QuoteAmount string
}

// CalculateWithdrawalFromShares implements spec.md §6's
// calculate_withdrawal_from_shares, delegating the formula itself to
// pkg/reserves (spec.md §4.C) and handling only the decimal-string
// boundary here.
func CalculateWithdrawalFromShares(baseShare, quoteShare, basePrice, quotePrice fixedpoint.Decimal, pool amm.PoolState) (WithdrawalAmounts, error) {
	base := reserves.ShareInput{
		Reserve:     fixedpoint.NewFromInt64(int64(pool.BaseReserve)),
		Target:      fixedpoint.NewFromInt64(int64(pool.TargetBaseReserve)),
		Price:       basePrice,
		Share:       baseShare,
		ShareSupply: fixedpoint.NewFromInt64(int64(pool.BaseSupply)),
	}
	quoteIn := reserves.ShareInput{
		Reserve:     fixedpoint.NewFromInt64(int64(pool.QuoteReserve)),
		Target:      fixedpoint.NewFromInt64(int64(pool.TargetQuoteReserve)),
		Price:       quotePrice,
		Share:       quoteShare,
		ShareSupply: fixedpoint.NewFromInt64(int64(pool.QuoteSupply)),
	}

	baseAmount, quoteAmount, err := reserves.WithdrawalFromShares(base, quoteIn)
	if err != nil {
		return WithdrawalAmounts{}, err
	}

	return WithdrawalAmounts{
		BaseAmount:  baseAmount.ToDecimalString(resultScale),
		QuoteAmount: quoteAmount.ToDecimalString(resultScale),
	}, nil
}
