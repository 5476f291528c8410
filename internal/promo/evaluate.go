// Package promo holds the 3+1 promotion rules. Everything here is a pure
// function of the cart and catalog; state (monthly ledger, apron grants)
// lives behind the repositories.
package promo

import "github.com/drinkport/beverage-promo-service/internal/models"

const (
	// FreeBoxThreshold paid eligible boxes earn one free box each time it
	// is reached; floor division, no partial credit.
	FreeBoxThreshold = 3
	// MonthlyCap is the most free boxes one business number may receive in
	// a calendar month.
	MonthlyCap = 10
)

type Eligibility struct {
	PaidEligibleBoxes    int
	HasQualifyingProduct bool
	RawFreeBoxes         int
}

// Evaluate computes raw 3+1 eligibility for a cart. Water never counts
// toward the box threshold, but a qualifying-family water line still
// satisfies the presence gate.
func Evaluate(cart models.Cart, catalog models.Catalog) Eligibility {
	var e Eligibility
	for id, qty := range cart {
		p, ok := catalog[id]
		if !ok {
			continue
		}
		if p.Eligible() {
			e.PaidEligibleBoxes += qty
		}
		if p.IsQualifyingFamily {
			e.HasQualifyingProduct = true
		}
	}
	if e.PaidEligibleBoxes >= FreeBoxThreshold && e.HasQualifyingProduct {
		e.RawFreeBoxes = e.PaidEligibleBoxes / FreeBoxThreshold
	}
	return e
}
