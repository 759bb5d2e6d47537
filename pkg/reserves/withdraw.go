package reserves

import "github.com/oraclecurve/amm-core/pkg/fixedpoint"

// ShareInput is one token side's state for a withdrawal-by-shares
// computation: current reserve, target reserve, oracle price, the
// share amount being redeemed, and the total outstanding share supply.
type ShareInput struct {
	Reserve     fixedpoint.Decimal
	Target      fixedpoint.Decimal
	Price       fixedpoint.Decimal
	Share       fixedpoint.Decimal
	ShareSupply fixedpoint.Decimal
}

// WithdrawalFromShares computes the per-token withdrawal amounts for a
// redemption of (base.Share, quote.Share), per spec.md §4.C:
//
//   - the "low" side is the token whose current_reserve/target_reserve is
//     smaller;
//   - low_amount           = low.reserve * low.share / low.share_supply
//   - high_base            = low.reserve * high.target / low.target
//   - high_amount_base     = high_base * high.share / high.share_supply
//   - share_tvl_ratio      = (low.share*low.price + high.share*high.price) /
//     (low.supply*low.price + high.supply*high.price)
//   - high_amount_residual = (high.reserve - high_base) * share_tvl_ratio
//   - high_amount          = high_amount_base + high_amount_residual
func WithdrawalFromShares(base, quote ShareInput) (baseAmount, quoteAmount fixedpoint.Decimal, err error) {
	baseRatio, err := base.Reserve.Quo(base.Target)
	if err != nil {
		return zero, zero, err
	}
	quoteRatio, err := quote.Reserve.Quo(quote.Target)
	if err != nil {
		return zero, zero, err
	}

	baseIsLow := baseRatio.LessThan(quoteRatio)
	low, high := quote, base
	if baseIsLow {
		low, high = base, quote
	}

	lowAmount, err := low.Reserve.Mul(low.Share).Quo(low.ShareSupply)
	if err != nil {
		return zero, zero, err
	}

	highBase, err := low.Reserve.Mul(high.Target).Quo(low.Target)
	if err != nil {
		return zero, zero, err
	}
	highAmountBase, err := highBase.Mul(high.Share).Quo(high.ShareSupply)
	if err != nil {
		return zero, zero, err
	}

	tvlNum := low.Share.Mul(low.Price).Add(high.Share.Mul(high.Price))
	tvlDen := low.ShareSupply.Mul(low.Price).Add(high.ShareSupply.Mul(high.Price))
	shareTVLRatio, err := tvlNum.Quo(tvlDen)
	if err != nil {
		return zero, zero, err
	}

	highAmountResidual := high.Reserve.Sub(highBase).Mul(shareTVLRatio)
	highAmount := highAmountBase.Add(highAmountResidual)

	if baseIsLow {
		return lowAmount, highAmount, nil
	}
	return highAmount, lowAmount, nil
}
