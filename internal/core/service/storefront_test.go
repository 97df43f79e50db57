package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
)

type StorefrontSuite struct {
	suite.Suite
	repo     *fakeCartRepo
	orders   *fakeOrders
	notifier *recordingNotifier
	cart     *service.CartStore
	sf       *service.Storefront
}

func TestStorefront(t *testing.T) {
	suite.Run(t, new(StorefrontSuite))
}

func (s *StorefrontSuite) SetupTest() {
	ctx := s.T().Context()

	catalog := service.NewCatalog(
		&fakeFetcher{all: catalogFixture()}, language.English,
	)
	s.Require().NoError(catalog.Load(ctx))

	s.repo = new(fakeCartRepo)
	s.orders = new(fakeOrders)
	s.notifier = new(recordingNotifier)
	s.cart = service.NewCartStore(ctx, s.repo)
	s.sf = service.NewStorefront(catalog, s.cart, s.orders, s.notifier)
}

func (s *StorefrontSuite) lastNotification() domain.Notification {
	s.Require().NotEmpty(s.notifier.items)
	return s.notifier.items[len(s.notifier.items)-1]
}

func (s *StorefrontSuite) TestAddToCart() {
	ctx := s.T().Context()

	s.Require().NoError(s.sf.AddToCart(ctx, 3))
	s.Require().NoError(s.sf.AddToCart(ctx, 3))

	item, ok := s.cart.Get(3)
	s.Require().True(ok)
	s.Equal(2, item.Quantity)
	s.Equal(domain.Success("jacket added to cart"), s.lastNotification())
}

func (s *StorefrontSuite) TestAddToCartUnknownProduct() {
	err := s.sf.AddToCart(s.T().Context(), 42)

	s.Require().ErrorIs(err, domain.ErrProductNotFound)
	s.True(s.cart.IsEmpty())
	s.Empty(s.notifier.items)
}

func (s *StorefrontSuite) TestAddToCartFromDetail() {
	ctx := s.T().Context()

	s.Require().NoError(s.sf.AddToCartFromDetail(ctx, 1, 3))
	s.Equal(3, s.cart.ItemCount())
	s.Equal(domain.Success("3 x Backpack added to cart"), s.lastNotification())

	err := s.sf.AddToCartFromDetail(ctx, 1, 0)
	s.Require().ErrorIs(err, domain.ErrInvalidQuantity)
	s.Equal(3, s.cart.ItemCount())
}

func (s *StorefrontSuite) TestChangeQuantity() {
	ctx := s.T().Context()
	s.Require().NoError(s.sf.AddToCart(ctx, 2))

	s.Require().NoError(s.sf.ChangeQuantity(ctx, 2, service.ActionIncrease))
	s.Equal(2, s.cart.ItemCount())

	s.Require().NoError(s.sf.ChangeQuantity(ctx, 2, service.ActionDecrease))
	s.Equal(1, s.cart.ItemCount())

	// At quantity 1 a decrease is ignored.
	s.Require().NoError(s.sf.ChangeQuantity(ctx, 2, service.ActionDecrease))
	s.Equal(1, s.cart.ItemCount())

	err := s.sf.ChangeQuantity(ctx, 2, "double")
	s.Require().ErrorIs(err, domain.ErrInvalidAction)

	err = s.sf.ChangeQuantity(ctx, 4, service.ActionIncrease)
	s.Require().ErrorIs(err, domain.ErrItemNotFound)
}

func (s *StorefrontSuite) TestRemoveFromCart() {
	ctx := s.T().Context()
	s.Require().NoError(s.sf.AddToCart(ctx, 1))
	s.Require().NoError(s.sf.AddToCart(ctx, 2))

	s.Require().NoError(s.sf.RemoveFromCart(ctx, 1))
	s.Equal([]int{2}, lineIDs(s.cart.All()))
	s.Equal(domain.Success("Product removed from cart"), s.lastNotification())

	err := s.sf.RemoveFromCart(ctx, 1)
	s.Require().ErrorIs(err, domain.ErrItemNotFound)
	s.Equal([]int{2}, lineIDs(s.cart.All()))
}

func (s *StorefrontSuite) TestViewDetails() {
	p, err := s.sf.ViewDetails(5)
	s.Require().NoError(err)
	s.Equal("Monitor", p.Title)

	_, err = s.sf.ViewDetails(0)
	s.Require().ErrorIs(err, domain.ErrProductNotFound)
}

func (s *StorefrontSuite) TestClearCart() {
	ctx := s.T().Context()
	s.Require().NoError(s.sf.AddToCart(ctx, 1))

	s.Require().NoError(s.sf.ClearCart(ctx))
	s.True(s.cart.IsEmpty())
	s.Equal(domain.Success("Cart cleared"), s.lastNotification())
}

func (s *StorefrontSuite) TestBackupRestore() {
	ctx := s.T().Context()

	restored, err := s.sf.RestoreCart(ctx)
	s.Require().NoError(err)
	s.False(restored)

	s.Require().NoError(s.sf.AddToCartFromDetail(ctx, 1, 2))
	s.Require().NoError(s.sf.BackupCart(ctx))
	s.Require().NoError(s.sf.ClearCart(ctx))

	restored, err = s.sf.RestoreCart(ctx)
	s.Require().NoError(err)
	s.True(restored)
	s.Equal(2, s.cart.ItemCount())
	s.Equal(domain.Success("Cart restored"), s.lastNotification())
}

func (s *StorefrontSuite) TestCheckout() {
	ctx := s.T().Context()
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	service.SetStorefrontClock(s.sf, func() time.Time { return fixed })

	s.Require().NoError(s.sf.AddToCartFromDetail(ctx, 1, 2))
	s.Require().NoError(s.sf.AddToCart(ctx, 3))

	order, err := s.sf.Checkout(ctx)
	s.Require().NoError(err)

	s.Equal(fixed, order.Date)
	s.Equal([]int{1, 3}, lineIDs(order.Items))
	s.Equal([]domain.Order{order}, s.orders.orders)
	s.True(s.cart.IsEmpty())
	s.Empty(s.repo.stored())
	s.Equal(domain.Success("Order placed"), s.lastNotification())
}

func (s *StorefrontSuite) TestCheckoutEmptyCart() {
	_, err := s.sf.Checkout(s.T().Context())

	s.Require().ErrorIs(err, domain.ErrCartEmpty)
	s.Empty(s.orders.orders)
	s.Equal(domain.LevelError, s.lastNotification().Level)
}

func (s *StorefrontSuite) TestCheckoutHistoryFailureKeepsCart() {
	ctx := s.T().Context()
	s.Require().NoError(s.sf.AddToCart(ctx, 1))
	s.orders.err = errStorage

	_, err := s.sf.Checkout(ctx)

	s.Require().ErrorIs(err, errStorage)
	s.Equal(1, s.cart.ItemCount())
	s.Equal(domain.LevelError, s.lastNotification().Level)
}

func (s *StorefrontSuite) TestSummary() {
	ctx := s.T().Context()
	s.Require().NoError(s.sf.AddToCartFromDetail(ctx, 2, 2))
	s.Require().NoError(s.sf.AddToCart(ctx, 4))

	summary := s.sf.Summary()
	s.Equal(3, summary.Count)
	s.Equal("66.9", summary.Total.String())
	s.Len(summary.Items, 2)
}

func lineIDs(items []domain.LineItem) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestStorefrontStorageFailureSurfaces(t *testing.T) {
	ctx := t.Context()
	catalog := service.NewCatalog(
		&fakeFetcher{all: catalogFixture()}, language.English,
	)
	require.NoError(t, catalog.Load(ctx))

	repo := &fakeCartRepo{saveErr: errStorage}
	notifier := new(recordingNotifier)
	cart := service.NewCartStore(ctx, repo)
	sf := service.NewStorefront(catalog, cart, new(fakeOrders), notifier)

	err := sf.AddToCart(ctx, 1)

	require.ErrorIs(t, err, errStorage)
	assert.Equal(t, 1, cart.ItemCount())
	assert.Empty(t, notifier.items)
}

func newSlowStorefront(t *testing.T) (*service.Storefront, *service.CartStore, *fakeOrders) {
	t.Helper()
	ctx := t.Context()

	catalog := service.NewCatalog(
		&fakeFetcher{all: catalogFixture()}, language.English,
	)
	require.NoError(t, catalog.Load(ctx))

	repo := &fakeCartRepo{saveDelay: 100 * time.Microsecond}
	cart := service.NewCartStore(ctx, repo)
	orders := new(fakeOrders)
	sf := service.NewStorefront(catalog, cart, orders, new(recordingNotifier))
	return sf, cart, orders
}

func TestStorefrontConcurrentChangeQuantity(t *testing.T) {
	sf, cart, _ := newSlowStorefront(t)
	ctx := t.Context()
	require.NoError(t, sf.AddToCart(ctx, 1))

	const n = 200
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sf.ChangeQuantity(ctx, 1, service.ActionIncrease))
		}()
	}
	wg.Wait()

	item, ok := cart.Get(1)
	require.True(t, ok)
	assert.Equal(t, n+1, item.Quantity)
}

func TestStorefrontConcurrentCheckout(t *testing.T) {
	sf, cart, orders := newSlowStorefront(t)
	ctx := t.Context()

	const adds = 100
	var wg sync.WaitGroup
	for range adds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sf.AddToCart(ctx, 2))
		}()
	}
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = sf.Checkout(ctx)
		}()
	}
	wg.Wait()

	history, err := orders.Orders(ctx)
	require.NoError(t, err)

	units := cart.ItemCount()
	for _, o := range history {
		for _, item := range o.Items {
			units += item.Quantity
		}
	}
	assert.Equal(t, adds, units)
}
