// internal/finance/split.go
package finance

import "github.com/shopspring/decimal"

// DefaultUserShare is the user's portion of a sale when no per-user
// override ratio is set.
var DefaultUserShare = decimal.NewFromFloat(0.70)

var one = decimal.NewFromInt(1)

// SplitResult is the outcome of dividing a gross amount between the user
// and the nature fund.
type SplitResult struct {
	UserCredited decimal.Decimal `json:"user_credited"`
	NatureFund   decimal.Decimal `json:"nature_fund"`
	UserShare    decimal.Decimal `json:"user_share"`
	NatureShare  decimal.Decimal `json:"nature_share"`
}

// Split divides grossAmount between the user's spendable share and the
// nature fund. A nil ratio selects DefaultUserShare; a supplied ratio is
// clamped to [0, 1]. It is a total function: no input yields an error.
//
// The nature fund is computed as the residual of the rounded gross amount
// minus the rounded user share, never as grossAmount * (1 - ratio). Rounding
// the two halves independently could make them drift from the gross amount;
// the residual form keeps UserCredited + NatureFund exactly equal to
// round2(grossAmount).
func Split(grossAmount decimal.Decimal, userShareRatio *decimal.Decimal) SplitResult {
	ratio := DefaultUserShare
	if userShareRatio != nil {
		ratio = clampRatio(*userShareRatio)
	}

	userCredited := grossAmount.Mul(ratio).Round(2)
	natureFund := grossAmount.Sub(userCredited).Round(2)
	if natureFund.IsNegative() {
		natureFund = decimal.Zero
	}

	return SplitResult{
		UserCredited: userCredited,
		NatureFund:   natureFund,
		UserShare:    ratio,
		NatureShare:  one.Sub(ratio).Round(2),
	}
}

func clampRatio(r decimal.Decimal) decimal.Decimal {
	switch {
	case r.IsNegative():
		return decimal.Zero
	case r.GreaterThan(one):
		return one
	default:
		return r
	}
}
