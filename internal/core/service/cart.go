package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

// A CartStore is the sole owner of the cart line items.
//
// Every mutation writes the full cart to the repository before returning.
// On a storage failure the in-memory cart remains authoritative and the
// error is returned to the caller.
type CartStore struct {
	mu    sync.Mutex
	repo  port.CartRepository
	items []domain.LineItem
}

// NewCartStore loads the persisted cart. Absent or malformed data yields
// an empty cart.
func NewCartStore(ctx context.Context, repo port.CartRepository) *CartStore {
	const op = "NewCartStore"
	log := slog.With("op", op)

	items, err := repo.LoadCart(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case errors.Is(err, domain.ErrStorageDecode):
			log.Warn("stored cart is malformed, starting empty", "err", err)
		default:
			log.Error("failed to load cart, starting empty", "err", err)
		}
		items = nil
	}

	return &CartStore{repo: repo, items: sanitize(items)}
}

func (s *CartStore) Add(ctx context.Context, p domain.Product) error {
	return s.AddN(ctx, p, 1)
}

// AddN adds n units of the product, as n consecutive Add calls would.
func (s *CartStore) AddN(ctx context.Context, p domain.Product, n int) error {
	const op = "CartStore.AddN"

	if n < 1 {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidQuantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(p.ID); i >= 0 {
		s.items[i].Quantity += n
	} else {
		item := domain.NewLineItem(p)
		item.Quantity = n
		s.items = append(s.items, item)
	}

	return s.persist(ctx, op)
}

// Remove deletes the line item if present. A missing id leaves the cart
// untouched.
func (s *CartStore) Remove(ctx context.Context, productID int) error {
	const op = "CartStore.Remove"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = slices.DeleteFunc(s.items, func(item domain.LineItem) bool {
		return item.ID == productID
	})

	return s.persist(ctx, op)
}

// UpdateQuantity sets the quantity clamped to at least 1. It never removes
// the item.
func (s *CartStore) UpdateQuantity(
	ctx context.Context, productID int, quantity int,
) error {
	const op = "CartStore.UpdateQuantity"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(productID)
	if i < 0 {
		return nil
	}
	s.items[i].Quantity = max(1, quantity)

	return s.persist(ctx, op)
}

// StepQuantity changes the item quantity by delta. A step below 1 is
// ignored and reported as false.
func (s *CartStore) StepQuantity(
	ctx context.Context, productID int, delta int,
) (bool, error) {
	const op = "CartStore.StepQuantity"

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(productID)
	if i < 0 {
		return false, fmt.Errorf("%s: %w", op, domain.ErrItemNotFound)
	}

	q := s.items[i].Quantity + delta
	if q < 1 {
		return false, nil
	}
	s.items[i].Quantity = q

	return true, s.persist(ctx, op)
}

// Checkout hands the line items to record and empties the cart, both under
// the store lock. The cart is kept when record fails.
func (s *CartStore) Checkout(
	ctx context.Context, record func([]domain.LineItem) error,
) ([]domain.LineItem, error) {
	const op = "CartStore.Checkout"

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrCartEmpty)
	}

	items := slices.Clone(s.items)
	if err := record(slices.Clone(items)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.items = nil
	return items, s.persist(ctx, op)
}

func (s *CartStore) Clear(ctx context.Context) error {
	const op = "CartStore.Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx, op)
}

// All returns a copy of the line items in insertion order.
func (s *CartStore) All() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *CartStore) Get(productID int) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(productID); i >= 0 {
		return s.items[i], true
	}
	return domain.LineItem{}, false
}

func (s *CartStore) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.items)
}

func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.items)
}

func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

func (s *CartStore) Summary() domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartSummary{
		Items: slices.Clone(s.items),
		Total: total(s.items),
		Count: count(s.items),
	}
}

// Backup saves a snapshot of the current cart.
func (s *CartStore) Backup(ctx context.Context) error {
	const op = "CartStore.Backup"

	s.mu.Lock()
	snapshot := slices.Clone(s.items)
	s.mu.Unlock()

	if err := s.repo.SaveBackup(ctx, snapshot); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Restore merges the saved snapshot into the cart, keeping each snapshot
// item's quantity. Reports false when there is no usable snapshot.
func (s *CartStore) Restore(ctx context.Context) (bool, error) {
	const op = "CartStore.Restore"

	snapshot, err := s.repo.LoadBackup(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) ||
			errors.Is(err, domain.ErrStorageDecode) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	snapshot = sanitize(snapshot)
	if len(snapshot) == 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range snapshot {
		if i := s.index(item.ID); i >= 0 {
			s.items[i].Quantity += item.Quantity
			continue
		}
		s.items = append(s.items, item)
	}

	return true, s.persist(ctx, op)
}

func (s *CartStore) index(productID int) int {
	return slices.IndexFunc(s.items, func(item domain.LineItem) bool {
		return item.ID == productID
	})
}

// persist must be called with mu held.
func (s *CartStore) persist(ctx context.Context, op string) error {
	if err := s.repo.SaveCart(ctx, slices.Clone(s.items)); err != nil {
		slog.Error("failed to persist cart", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func total(items []domain.LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

func count(items []domain.LineItem) (n int) {
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// sanitize merges duplicate ids and lifts quantities below 1, so that data
// loaded from storage holds the cart invariants.
func sanitize(items []domain.LineItem) []domain.LineItem {
	var out []domain.LineItem
	for _, item := range items {
		item.Quantity = max(1, item.Quantity)
		i := slices.IndexFunc(out, func(v domain.LineItem) bool {
			return v.ID == item.ID
		})
		if i >= 0 {
			out[i].Quantity += item.Quantity
			continue
		}
		out = append(out, item)
	}
	return out
}
