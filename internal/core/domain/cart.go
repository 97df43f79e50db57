package domain

import "github.com/shopspring/decimal"

type LineItem struct {
	ID       int
	Title    string
	Price    decimal.Decimal
	Image    string
	Quantity int
}

// NewLineItem snapshots the product fields with quantity 1.
func NewLineItem(p Product) LineItem {
	return LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: 1,
	}
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CartSummary struct {
	Items []LineItem
	Total decimal.Decimal
	Count int
}
