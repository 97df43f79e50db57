package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

const AllCategories = "all"

type (
	Product struct {
		ID          int
		Title       string
		Category    string
		Description string
		Image       string
		Price       decimal.Decimal
		Rating      *Rating
	}

	Rating struct {
		Rate  float64
		Count int
	}
)

// Stars returns the rounded rating in range [0, 5].
func (p Product) Stars() int {
	if p.Rating == nil {
		return 0
	}
	stars := int(math.Round(p.Rating.Rate))
	return max(0, min(5, stars))
}
