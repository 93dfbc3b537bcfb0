// Package pricing turns panel costs into customer prices. It is pure
// computation: no I/O, no clock, no storage. Money is handled through
// decimal arithmetic so that e.g. a 10% markup on 20000 is exactly 22000
// and not 22000.000000000004 rounded the wrong way.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/rezahp/go-smm-backend/internal/domain"
)

// Policy is the process-wide markup policy, fixed at startup.
type Policy struct {
	// SellerPercent is the default markup for users with the seller role.
	SellerPercent float64

	// NonSellerPercent is the default markup for everyone else.
	NonSellerPercent float64

	// PerThousand is true when panel rates are quoted per 1000 units
	// rather than per unit.
	PerThousand bool
}

// Price computes the customer price in integer minor currency units:
//
//	base = perThousand ? panelRate*quantity/1000 : panelRate*quantity
//	sell = base * (1 + markupPercent/100)
//	price = ceil(sell)
//
// quantity <= 0 never reaches this function; the session layer rejects it
// first. A panelRate of 0 yields 0, which the orchestrator refuses to charge.
func Price(panelRate float64, quantity int64, markupPercent float64, perThousand bool) int64 {
	base := decimal.NewFromFloat(panelRate).Mul(decimal.NewFromInt(quantity))
	if perThousand {
		base = base.Div(decimal.NewFromInt(1000))
	}
	markup := decimal.NewFromFloat(markupPercent).Div(decimal.NewFromInt(100))
	sell := base.Mul(decimal.NewFromInt(1).Add(markup))
	return sell.Ceil().IntPart()
}

// ResolveMarkup picks the markup percentage for a user. Precedence, highest
// first: the user's explicit override, then the seller default when the user
// has the seller role, then the non-seller default.
func ResolveMarkup(u *domain.User, p Policy) float64 {
	if u != nil && u.MarkupPercent != nil {
		return *u.MarkupPercent
	}
	if u != nil && u.IsSeller {
		return p.SellerPercent
	}
	return p.NonSellerPercent
}
