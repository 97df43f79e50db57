package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

type CatalogFetcher interface {
	FetchAll(context.Context) ([]domain.Product, error)
	FetchByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

type KeyValueStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

type CartRepository interface {
	LoadCart(context.Context) ([]domain.LineItem, error)
	SaveCart(context.Context, []domain.LineItem) error
	LoadBackup(context.Context) ([]domain.LineItem, error)
	SaveBackup(context.Context, []domain.LineItem) error
}

type OrderHistory interface {
	AppendOrder(context.Context, domain.Order) error
	Orders(context.Context) ([]domain.Order, error)
}

type Notifier interface {
	Notify(context.Context, domain.Notification)
}

// StorefrontCommands is the set of user actions the presentation layer
// dispatches into the core.
type StorefrontCommands interface {
	AddToCart(ctx context.Context, productID int) error
	AddToCartFromDetail(ctx context.Context, productID, quantity int) error
	ChangeQuantity(ctx context.Context, productID int, action string) error
	RemoveFromCart(ctx context.Context, productID int) error
	ViewDetails(productID int) (domain.Product, error)
	ClearCart(context.Context) error
	BackupCart(context.Context) error
	RestoreCart(context.Context) (bool, error)
	Checkout(context.Context) (domain.Order, error)
	Summary() domain.CartSummary
}

type CatalogBrowser interface {
	Reload(ctx context.Context, category string) error
	View(domain.FilterCriteria) []domain.Product
	Categories() []string
}
