package storage

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	lineItem struct {
		ID       int             `json:"id"`
		Title    string          `json:"title"`
		Price    decimal.Decimal `json:"price"`
		Image    string          `json:"image"`
		Quantity int             `json:"quantity"`
	}

	order struct {
		Date  time.Time  `json:"date"`
		Items []lineItem `json:"items"`
	}
)

func toLineItems(vs []domain.LineItem) []lineItem {
	items := make([]lineItem, len(vs))
	for i, v := range vs {
		items[i] = lineItem{
			ID:       v.ID,
			Title:    v.Title,
			Price:    v.Price,
			Image:    v.Image,
			Quantity: v.Quantity,
		}
	}
	return items
}

func toDomainLineItems(items []lineItem) []domain.LineItem {
	vs := make([]domain.LineItem, len(items))
	for i, item := range items {
		vs[i] = domain.LineItem{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Image:    item.Image,
			Quantity: item.Quantity,
		}
	}
	return vs
}

func toOrder(v domain.Order) order {
	return order{Date: v.Date, Items: toLineItems(v.Items)}
}

func toDomainOrder(o order) domain.Order {
	return domain.Order{Date: o.Date, Items: toDomainLineItems(o.Items)}
}

// IndentLineItems renders line items in their stored format.
func IndentLineItems(vs []domain.LineItem) ([]byte, error) {
	return json.MarshalIndent(toLineItems(vs), "", "  ")
}

// IndentOrders renders orders in their stored format.
func IndentOrders(vs []domain.Order) ([]byte, error) {
	history := make([]order, len(vs))
	for i, v := range vs {
		history[i] = toOrder(v)
	}
	return json.MarshalIndent(history, "", "  ")
}
