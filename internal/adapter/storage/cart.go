package storage

import (
	"context"
	"fmt"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartRepository = (*CartRepository)(nil)

type CartKeys struct {
	Cart   string
	Backup string
}

// A CartRepository keeps the cart as a JSON array of line items.
type CartRepository struct {
	kv   port.KeyValueStorage
	keys CartKeys
}

func NewCartRepository(kv port.KeyValueStorage, keys CartKeys) CartRepository {
	return CartRepository{kv, keys}
}

func (r CartRepository) LoadCart(ctx context.Context) ([]domain.LineItem, error) {
	const op = "CartRepository.LoadCart"

	vs, err := r.load(ctx, r.keys.Cart)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

func (r CartRepository) SaveCart(ctx context.Context, vs []domain.LineItem) error {
	const op = "CartRepository.SaveCart"

	if err := r.save(ctx, r.keys.Cart, vs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r CartRepository) LoadBackup(ctx context.Context) ([]domain.LineItem, error) {
	const op = "CartRepository.LoadBackup"

	vs, err := r.load(ctx, r.keys.Backup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

func (r CartRepository) SaveBackup(ctx context.Context, vs []domain.LineItem) error {
	const op = "CartRepository.SaveBackup"

	if err := r.save(ctx, r.keys.Backup, vs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r CartRepository) load(
	ctx context.Context, key string,
) ([]domain.LineItem, error) {
	b, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var items []lineItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorageDecode, err)
	}
	return toDomainLineItems(items), nil
}

func (r CartRepository) save(
	ctx context.Context, key string, vs []domain.LineItem,
) error {
	b, err := json.Marshal(toLineItems(vs))
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, key, b)
}
