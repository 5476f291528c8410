package models

import "fmt"

// Category classifies a catalog product. WATER is special: it is paid for
// like anything else but never counts toward the 3+1 service threshold.
type Category string

const (
	CategoryCan    Category = "CAN"
	CategoryBottle Category = "BOTTLE"
	CategoryWater  Category = "WATER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCan, CategoryBottle, CategoryWater:
		return true
	}
	return false
}

type Product struct {
	ID       string
	Name     string
	Price    int64 // smallest currency unit
	Category Category
	// IsQualifyingFamily marks products whose presence in the cart (any
	// quantity, any category) is required for the 3+1 bonus to trigger.
	// Set at catalog-authoring time, never inferred from the name.
	IsQualifyingFamily bool
}

// Eligible reports whether a box of this product counts toward the
// 3+1 threshold.
func (p Product) Eligible() bool {
	return p.Category != CategoryWater
}

// NewProduct validates field invariants at the boundary.
func NewProduct(id, name string, price int64, category Category, qualifying bool) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("product id required")
	}
	if price < 0 {
		return Product{}, fmt.Errorf("product %s: negative price %d", id, price)
	}
	if !category.Valid() {
		return Product{}, fmt.Errorf("product %s: unknown category %q", id, category)
	}
	return Product{ID: id, Name: name, Price: price, Category: category, IsQualifyingFamily: qualifying}, nil
}

// Catalog is a read-only product lookup keyed by product ID.
type Catalog map[string]Product

func NewCatalog(products []Product) Catalog {
	c := make(Catalog, len(products))
	for _, p := range products {
		c[p.ID] = p
	}
	return c
}
