package catalogapi

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	product struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Price       decimal.Decimal `json:"price"`
		Description string          `json:"description"`
		Category    string          `json:"category"`
		Image       string          `json:"image"`
		Rating      *rating         `json:"rating,omitempty"`
	}

	rating struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	}
)

func (p product) toDomain() domain.Product {
	v := domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
	}
	if p.Rating != nil {
		v.Rating = &domain.Rating{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return v
}

func toDomain(ps []product) []domain.Product {
	vs := make([]domain.Product, len(ps))
	for i, p := range ps {
		vs[i] = p.toDomain()
	}
	return vs
}

var errNotArray = errors.New("body is not a JSON array")

// decodeProducts accepts exactly one JSON array. Unmarshal rejects bytes
// left after the value.
func decodeProducts(b []byte) ([]product, error) {
	var ps []product
	if err := json.Unmarshal(b, &ps); err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, errNotArray
	}
	return ps, nil
}
