package domain

import "github.com/shopspring/decimal"

type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortNameAsc   SortOrder = "name-asc"
	SortNameDesc  SortOrder = "name-desc"
)

// ParseSortOrder treats unknown values as SortDefault.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(s); o {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return o
	default:
		return SortDefault
	}
}

var DefaultMaxPrice = decimal.NewFromInt(1000)

type FilterCriteria struct {
	Search   string
	Category string
	MaxPrice decimal.Decimal
	SortBy   SortOrder
}

func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category: AllCategories,
		MaxPrice: DefaultMaxPrice,
		SortBy:   SortDefault,
	}
}
