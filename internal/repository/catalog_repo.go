package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/drinkport/beverage-promo-service/internal/models"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ListProducts loads the full catalog. The qualifying-family flag is a
// stored column, set when the product is authored, never derived from the
// name at read time.
func (r *CatalogRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	const query = `
		SELECT id, name, price, category, is_qualifying_family
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var (
			id, name   string
			price      int64
			category   string
			qualifying bool
		)
		if err := rows.Scan(&id, &name, &price, &category, &qualifying); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		p, err := models.NewProduct(id, name, price, models.Category(category), qualifying)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
