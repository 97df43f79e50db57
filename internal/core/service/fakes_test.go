package service_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

var errStorage = errors.New("disk is full")

type fakeCartRepo struct {
	mu        sync.Mutex
	cart      []domain.LineItem
	backup    []domain.LineItem
	hasCart   bool
	hasBackup bool
	loadErr   error
	saveErr   error
	saves     int
	// saveDelay widens the window between reading and writing the cart.
	saveDelay time.Duration
}

func (r *fakeCartRepo) LoadCart(context.Context) ([]domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if !r.hasCart {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(r.cart), nil
}

func (r *fakeCartRepo) SaveCart(_ context.Context, vs []domain.LineItem) error {
	time.Sleep(r.saveDelay)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.cart = slices.Clone(vs)
	r.hasCart = true
	return nil
}

func (r *fakeCartRepo) LoadBackup(context.Context) ([]domain.LineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.hasBackup {
		return nil, domain.ErrNotFound
	}
	return slices.Clone(r.backup), nil
}

func (r *fakeCartRepo) SaveBackup(_ context.Context, vs []domain.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.backup = slices.Clone(vs)
	r.hasBackup = true
	return nil
}

func (r *fakeCartRepo) stored() []domain.LineItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.cart)
}

type fakeOrders struct {
	mu     sync.Mutex
	orders []domain.Order
	err    error
}

func (o *fakeOrders) AppendOrder(_ context.Context, v domain.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.orders = append(o.orders, v)
	return nil
}

func (o *fakeOrders) Orders(context.Context) ([]domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.orders), o.err
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, v domain.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, v)
}

type fakeFetcher struct {
	all        []domain.Product
	byCategory map[string][]domain.Product
	err        error
	calls      []string
}

func (f *fakeFetcher) FetchAll(context.Context) ([]domain.Product, error) {
	f.calls = append(f.calls, domain.AllCategories)
	if f.err != nil {
		return nil, f.err
	}
	return f.all, nil
}

func (f *fakeFetcher) FetchByCategory(
	_ context.Context, category string,
) ([]domain.Product, error) {
	f.calls = append(f.calls, category)
	if f.err != nil {
		return nil, f.err
	}
	return f.byCategory[category], nil
}
