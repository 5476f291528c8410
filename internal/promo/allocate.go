package promo

import "github.com/drinkport/beverage-promo-service/internal/models"

// Allocate clamps the raw free-box entitlement to the quota remaining in
// the month. Never negative, never above rawFreeBoxes.
func Allocate(rawFreeBoxes, usedThisMonth, cap int) int {
	remaining := cap - usedThisMonth
	if remaining < 0 {
		remaining = 0
	}
	if rawFreeBoxes < remaining {
		return rawFreeBoxes
	}
	return remaining
}

// SelectFreeProduct picks the product duplicated as the free line: the
// cheapest non-water line in the cart. Lowest price wins; on tie, first in
// cart iteration order (product-ID sorted). Selection is recomputed on
// every call, never sticky across cart edits. ok is false when the cart
// has no non-water lines.
func SelectFreeProduct(cart models.Cart, catalog models.Catalog) (models.Product, bool) {
	var best models.Product
	found := false
	for _, id := range cart.ProductIDs() {
		p, exists := catalog[id]
		if !exists || !p.Eligible() {
			continue
		}
		if !found || p.Price < best.Price {
			best = p
			found = true
		}
	}
	return best, found
}

// DiscountPercent is the informational discount figure shown next to the
// grant: freeValue / (paidAmount + freeValue) * 100, rounded to nearest.
// Zero when nothing is granted.
func DiscountPercent(paidAmount, freeValue int64) int {
	total := paidAmount + freeValue
	if freeValue <= 0 || total <= 0 {
		return 0
	}
	return int((freeValue*100 + total/2) / total)
}

// AverageBoxPrice is paidAmount spread over paid eligible plus free boxes,
// rounded to nearest. ok is false when there are no boxes to average over.
func AverageBoxPrice(paidAmount int64, eligibleBoxes, grantedFreeBoxes int) (int64, bool) {
	boxes := int64(eligibleBoxes + grantedFreeBoxes)
	if boxes <= 0 {
		return 0, false
	}
	return (paidAmount + boxes/2) / boxes, true
}
