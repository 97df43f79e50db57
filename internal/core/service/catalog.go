package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"golang.org/x/text/language"
)

var _ port.CatalogBrowser = (*Catalog)(nil)

// A Catalog keeps the products fetched in the current session.
//
// Each load takes a generation number. A response is stored only when no
// newer load has started since, so a slow stale response cannot overwrite
// a fresher one. A failed load keeps the previous catalog.
type Catalog struct {
	fetcher port.CatalogFetcher
	lang    language.Tag

	mu         sync.RWMutex
	generation uint64
	products   []domain.Product
}

func NewCatalog(fetcher port.CatalogFetcher, lang language.Tag) *Catalog {
	return &Catalog{fetcher: fetcher, lang: lang}
}

func (c *Catalog) Load(ctx context.Context) error {
	return c.Reload(ctx, domain.AllCategories)
}

// Reload replaces the catalog with the products of the category, or with
// the whole catalog for "all" and "".
func (c *Catalog) Reload(ctx context.Context, category string) error {
	const op = "Catalog.Reload"
	log := slog.With("op", op, "category", category)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	gen := c.nextGeneration()

	var (
		ps  []domain.Product
		err error
	)
	if category == "" || category == domain.AllCategories {
		ps, err = c.fetcher.FetchAll(ctx)
	} else {
		ps, err = c.fetcher.FetchByCategory(ctx, category)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		log.Warn("discard stale catalog response", "generation", gen)
		return fmt.Errorf("%s: %w", op, domain.ErrStaleResponse)
	}
	c.products = ps

	log.Info("catalog loaded", "nProducts", len(ps))
	return nil
}

func (c *Catalog) nextGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	return c.generation
}

// Products returns a copy of the catalog in fetch order.
func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.products)
}

func (c *Catalog) Product(id int) (domain.Product, error) {
	const op = "Catalog.Product"

	c.mu.RLock()
	defer c.mu.RUnlock()

	i := slices.IndexFunc(c.products, func(p domain.Product) bool {
		return p.ID == id
	})
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return c.products[i], nil
}

func (c *Catalog) View(criteria domain.FilterCriteria) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FilterProducts(c.products, criteria, c.lang)
}

func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Categories(c.products)
}
