package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.OrderHistory = (*OrderRepository)(nil)

// An OrderRepository keeps the purchase history as a JSON array under a
// single key.
type OrderRepository struct {
	kv  port.KeyValueStorage
	key string
}

func NewOrderRepository(kv port.KeyValueStorage, key string) OrderRepository {
	return OrderRepository{kv, key}
}

// MalformedKey is where AppendOrder moves a history it cannot decode before
// starting a new one.
func MalformedKey(historyKey string) string {
	return historyKey + ".malformed"
}

func (r OrderRepository) AppendOrder(ctx context.Context, v domain.Order) error {
	const op = "OrderRepository.AppendOrder"
	log := slog.With("op", op)

	history, malformed, err := r.read(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if malformed != nil {
		aside := MalformedKey(r.key)
		if err := r.kv.Put(ctx, aside, malformed); err != nil {
			return fmt.Errorf("%s: keep malformed history: %w", op, err)
		}
		log.Warn("malformed purchase history moved aside", "key", aside)
	}

	history = append(history, toOrder(v))

	b, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.kv.Put(ctx, r.key, b); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r OrderRepository) Orders(ctx context.Context) ([]domain.Order, error) {
	const op = "OrderRepository.Orders"

	history, _, err := r.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vs := make([]domain.Order, len(history))
	for i, o := range history {
		vs[i] = toDomainOrder(o)
	}
	return vs, nil
}

// read treats an absent history as empty. A malformed history reads as
// empty too, and its raw bytes are returned.
func (r OrderRepository) read(ctx context.Context) ([]order, []byte, error) {
	const op = "OrderRepository.read"

	b, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var history []order
	if err := json.Unmarshal(b, &history); err != nil {
		slog.Warn("purchase history is malformed", "op", op, "err", err)
		return nil, b, nil
	}
	return history, nil, nil
}
