package service

import (
	"slices"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// FilterProducts returns the products matching c, ordered by c.SortBy.
//
// The input slice is never reordered. Sorting is stable, so equal keys keep
// their catalog order. Name ordering is collated for the given language.
func FilterProducts(
	products []domain.Product, c domain.FilterCriteria, lang language.Tag,
) []domain.Product {
	search := strings.ToLower(c.Search)

	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, search, c) {
			matched = append(matched, p)
		}
	}

	sortProducts(matched, domain.ParseSortOrder(string(c.SortBy)), lang)
	return matched
}

func matches(p domain.Product, search string, c domain.FilterCriteria) bool {
	matchesSearch := strings.Contains(strings.ToLower(p.Title), search) ||
		strings.Contains(strings.ToLower(p.Description), search)

	matchesCategory := c.Category == "" ||
		c.Category == domain.AllCategories ||
		p.Category == c.Category

	matchesPrice := p.Price.LessThanOrEqual(c.MaxPrice)

	return matchesSearch && matchesCategory && matchesPrice
}

func sortProducts(ps []domain.Product, by domain.SortOrder, lang language.Tag) {
	switch by {
	case domain.SortPriceAsc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case domain.SortNameAsc:
		col := collate.New(lang)
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return col.CompareString(a.Title, b.Title)
		})
	case domain.SortNameDesc:
		col := collate.New(lang)
		slices.SortStableFunc(ps, func(a, b domain.Product) int {
			return col.CompareString(b.Title, a.Title)
		})
	}
}

// Categories lists distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	var cs []string
	for _, p := range products {
		if p.Category != "" && !slices.Contains(cs, p.Category) {
			cs = append(cs, p.Category)
		}
	}
	return cs
}

// PriceRange returns the lowest and highest catalog prices.
func PriceRange(products []domain.Product) (lo, hi decimal.Decimal) {
	if len(products) == 0 {
		return decimal.Zero, decimal.Zero
	}
	byPrice := func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	return slices.MinFunc(products, byPrice).Price,
		slices.MaxFunc(products, byPrice).Price
}
