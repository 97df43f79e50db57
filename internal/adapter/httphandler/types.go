package httphandler

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	Product struct {
		ID          int             `json:"id"`
		Title       string          `json:"title"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Image       string          `json:"image"`
		Price       decimal.Decimal `json:"price"`
		Rating      *Rating         `json:"rating,omitempty"`
		Stars       int             `json:"stars"`
	}

	Rating struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	}

	ProductsView struct {
		Count    int       `json:"count"`
		Products []Product `json:"products"`
	}

	Categories struct {
		Categories []string `json:"categories"`
	}
)

type (
	LineItem struct {
		ID       int             `json:"id"`
		Title    string          `json:"title"`
		Price    decimal.Decimal `json:"price"`
		Image    string          `json:"image"`
		Quantity int             `json:"quantity"`
		Subtotal decimal.Decimal `json:"subtotal"`
	}

	Cart struct {
		Items []LineItem      `json:"items"`
		Total decimal.Decimal `json:"total"`
		Count int             `json:"count"`
	}

	Order struct {
		Date  time.Time  `json:"date"`
		Items []LineItem `json:"items"`
	}

	AddItemRequest struct {
		ID       int  `json:"id"`
		Quantity *int `json:"quantity,omitempty"`
	}

	ChangeQuantityRequest struct {
		Action string `json:"action"`
	}

	RestoreResponse struct {
		Restored bool `json:"restored"`
		Cart     Cart `json:"cart"`
	}
)

type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toProduct(p domain.Product) Product {
	v := Product{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		Stars:       p.Stars(),
	}
	if p.Rating != nil {
		v.Rating = &Rating{Rate: p.Rating.Rate, Count: p.Rating.Count}
	}
	return v
}

func toProductsView(ps []domain.Product) ProductsView {
	v := ProductsView{Count: len(ps), Products: make([]Product, len(ps))}
	for i, p := range ps {
		v.Products[i] = toProduct(p)
	}
	return v
}

func toLineItems(vs []domain.LineItem) []LineItem {
	items := make([]LineItem, len(vs))
	for i, v := range vs {
		items[i] = LineItem{
			ID:       v.ID,
			Title:    v.Title,
			Price:    v.Price,
			Image:    v.Image,
			Quantity: v.Quantity,
			Subtotal: v.Subtotal(),
		}
	}
	return items
}

func toCart(s domain.CartSummary) Cart {
	return Cart{Items: toLineItems(s.Items), Total: s.Total, Count: s.Count}
}

func toOrder(o domain.Order) Order {
	return Order{Date: o.Date, Items: toLineItems(o.Items)}
}
