package models

import "sort"

// Cart maps product ID to a positive quantity. Invariant: no entry is ever
// present with quantity <= 0; consumers rely on this when computing sums.
type Cart map[string]int

// AddToCart returns a new cart with the product's quantity adjusted by
// delta. The quantity is clamped at zero and a zero result removes the
// entry entirely. The input cart is not modified.
func AddToCart(cart Cart, productID string, delta int) Cart {
	next := make(Cart, len(cart)+1)
	for id, qty := range cart {
		next[id] = qty
	}
	qty := next[productID] + delta
	if qty <= 0 {
		delete(next, productID)
		return next
	}
	next[productID] = qty
	return next
}

// ProductIDs returns the cart's product IDs in sorted order so iteration
// is deterministic.
func (c Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type CartTotals struct {
	AllBoxes      int
	EligibleBoxes int
	Amount        int64
}

// ComputeTotals sums the cart against the catalog. Water boxes count toward
// AllBoxes and Amount but never EligibleBoxes. Lines referencing unknown
// products are skipped.
func ComputeTotals(cart Cart, catalog Catalog) CartTotals {
	var t CartTotals
	for id, qty := range cart {
		p, ok := catalog[id]
		if !ok {
			continue
		}
		t.AllBoxes += qty
		t.Amount += int64(qty) * p.Price
		if p.Eligible() {
			t.EligibleBoxes += qty
		}
	}
	return t
}
