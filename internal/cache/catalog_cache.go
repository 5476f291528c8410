package cache

import (
	"context"
	"sync"
	"time"

	"github.com/drinkport/beverage-promo-service/internal/models"
)

type ProductLister interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// CatalogCache is a read-through cache over the product table. The catalog
// changes rarely (authored by staff), so a short TTL is plenty.
type CatalogCache struct {
	mu        sync.RWMutex
	repo      ProductLister
	ttl       time.Duration
	catalog   models.Catalog
	products  []models.Product
	fetchedAt time.Time
}

func NewCatalogCache(repo ProductLister, ttl time.Duration) *CatalogCache {
	return &CatalogCache{repo: repo, ttl: ttl}
}

// Catalog returns the cached catalog, refreshing from the repository when
// the TTL has lapsed. A stale copy is served if the refresh fails and a
// previous load succeeded.
func (c *CatalogCache) Catalog(ctx context.Context) (models.Catalog, error) {
	c.mu.RLock()
	if c.catalog != nil && time.Since(c.fetchedAt) < c.ttl {
		cat := c.catalog
		c.mu.RUnlock()
		return cat, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.catalog, nil
	}

	products, err := c.repo.ListProducts(ctx)
	if err != nil {
		if c.catalog != nil {
			return c.catalog, nil
		}
		return nil, err
	}
	c.products = products
	c.catalog = models.NewCatalog(products)
	c.fetchedAt = time.Now()
	return c.catalog, nil
}

// Products returns the cached product list in catalog order.
func (c *CatalogCache) Products(ctx context.Context) ([]models.Product, error) {
	if _, err := c.Catalog(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, nil
}
