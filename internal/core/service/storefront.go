package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	ActionIncrease = "increase"
	ActionDecrease = "decrease"
)

var _ port.StorefrontCommands = (*Storefront)(nil)

// A Storefront executes shopper actions against the catalog and the cart
// and reports the outcome to the notifier.
type Storefront struct {
	catalog  *Catalog
	cart     *CartStore
	orders   port.OrderHistory
	notifier port.Notifier
	now      func() time.Time
}

func NewStorefront(
	catalog *Catalog,
	cart *CartStore,
	orders port.OrderHistory,
	notifier port.Notifier,
) *Storefront {
	return &Storefront{
		catalog:  catalog,
		cart:     cart,
		orders:   orders,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Storefront) AddToCart(ctx context.Context, productID int) error {
	const op = "Storefront.AddToCart"

	p, err := s.catalog.Product(productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cart.Add(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Notify(ctx, domain.Success(p.Title+" added to cart"))
	return nil
}

func (s *Storefront) AddToCartFromDetail(
	ctx context.Context, productID, quantity int,
) error {
	const op = "Storefront.AddToCartFromDetail"

	p, err := s.catalog.Product(productID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cart.AddN(ctx, p, quantity); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Notify(ctx, domain.Success(
		fmt.Sprintf("%d x %s added to cart", quantity, p.Title),
	))
	return nil
}

// ChangeQuantity steps the item quantity by one. A decrease below 1 is
// ignored; removal goes through RemoveFromCart.
func (s *Storefront) ChangeQuantity(
	ctx context.Context, productID int, action string,
) error {
	const op = "Storefront.ChangeQuantity"

	var delta int
	switch action {
	case ActionIncrease:
		delta = 1
	case ActionDecrease:
		delta = -1
	default:
		return fmt.Errorf("%s: %w: %q", op, domain.ErrInvalidAction, action)
	}

	if _, err := s.cart.StepQuantity(ctx, productID, delta); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storefront) RemoveFromCart(ctx context.Context, productID int) error {
	const op = "Storefront.RemoveFromCart"

	if _, ok := s.cart.Get(productID); !ok {
		return fmt.Errorf("%s: %w", op, domain.ErrItemNotFound)
	}

	if err := s.cart.Remove(ctx, productID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Notify(ctx, domain.Success("Product removed from cart"))
	return nil
}

func (s *Storefront) ViewDetails(productID int) (domain.Product, error) {
	const op = "Storefront.ViewDetails"

	p, err := s.catalog.Product(productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Storefront) ClearCart(ctx context.Context) error {
	const op = "Storefront.ClearCart"

	if err := s.cart.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifier.Notify(ctx, domain.Success("Cart cleared"))
	return nil
}

func (s *Storefront) BackupCart(ctx context.Context) error {
	const op = "Storefront.BackupCart"

	if err := s.cart.Backup(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storefront) RestoreCart(ctx context.Context) (bool, error) {
	const op = "Storefront.RestoreCart"

	restored, err := s.cart.Restore(ctx)
	if err != nil {
		return restored, fmt.Errorf("%s: %w", op, err)
	}

	if restored {
		s.notifier.Notify(ctx, domain.Success("Cart restored"))
	}
	return restored, nil
}

// Checkout records the cart as an order and empties the cart. The cart is
// kept when the order cannot be recorded.
func (s *Storefront) Checkout(ctx context.Context) (domain.Order, error) {
	const op = "Storefront.Checkout"

	var (
		order    domain.Order
		recorded bool
	)
	_, err := s.cart.Checkout(ctx, func(items []domain.LineItem) error {
		order = domain.Order{Date: s.now().UTC(), Items: items}
		if err := s.orders.AppendOrder(ctx, order); err != nil {
			return err
		}
		recorded = true
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		s.notifier.Notify(ctx, domain.Failure("The cart is empty"))
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	case !recorded:
		s.notifier.Notify(ctx, domain.Failure("Failed to place the order"))
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	// The order is recorded even if the emptied cart was not persisted.
	s.notifier.Notify(ctx, domain.Success("Order placed"))
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

func (s *Storefront) Summary() domain.CartSummary {
	return s.cart.Summary()
}
