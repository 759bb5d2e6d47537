package quote

import (
	"github.com/oraclecurve/amm-core/pkg/amm"
	"github.com/oraclecurve/amm-core/pkg/fixedpoint"
)

// MinShares is the decimal-string result of calculate_min_shares_for_deposit.
type MinShares struct {
	MinBaseShare  string
	MinQuoteShare string
}

// CalculateMinSharesForDeposit implements spec.md §6's
// calculate_min_shares_for_deposit. The spec does not give this
// function's formula directly (only the Open Question about its
// splitByRatio denominator); the ratio-split shape below mirrors
// pkg/reserves.Normalized's coef structure — a deposit-value projection
// onto the target-reserve ratio — using marketPrice as the split
// denominator for normal-swap pools and 1 for stable-swap pools, per
// spec.md §9's decision that stable pools preserve their raw reserve
// ratio exactly. minCoefficient floors the result the same way
// max_slippage_pct floors amount_out for swaps: the returned shares are
// an advisory minimum acceptable bound, not an authoritative mint amount.
func CalculateMinSharesForDeposit(pool amm.SwapInfo, baseAmount, quoteAmount, marketPrice, minCoefficient fixedpoint.Decimal) (MinShares, error) {
	denominator := marketPrice
	if pool.SwapType == amm.SwapTypeStable {
		denominator = fixedpoint.One
	}

	targetBase := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetBaseReserve))
	targetQuote := fixedpoint.NewFromInt64(int64(pool.PoolState.TargetQuoteReserve))
	baseSupply := fixedpoint.NewFromInt64(int64(pool.PoolState.BaseSupply))
	quoteSupply := fixedpoint.NewFromInt64(int64(pool.PoolState.QuoteSupply))

	depositValue := baseAmount.Mul(denominator).Add(quoteAmount)
	targetValue := targetBase.Mul(denominator).Add(targetQuote)

	splitCoef, err := depositValue.Quo(targetValue)
	if err != nil {
		return MinShares{}, err
	}

	minBaseShare := splitCoef.Mul(baseSupply).Mul(minCoefficient)
	minQuoteShare := splitCoef.Mul(quoteSupply).Mul(minCoefficient)

	return MinShares{
		MinBaseShare:  minBaseShare.ToDecimalString(resultScale),
		MinQuoteShare: minQuoteShare.ToDecimalString(resultScale),
	}, nil
}
