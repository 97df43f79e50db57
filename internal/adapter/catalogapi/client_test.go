package catalogapi_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/catalogapi"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsBody = `[
	{
		"id": 1,
		"title": "Fjallraven Backpack",
		"price": 109.95,
		"description": "Your perfect pack for everyday use",
		"category": "men's clothing",
		"image": "https://example.com/1.jpg",
		"rating": {"rate": 3.9, "count": 120}
	},
	{
		"id": 9,
		"title": "WD 2TB Elements",
		"price": 64,
		"description": "USB 3.0 and USB 2.0 compatibility",
		"category": "electronics",
		"image": "https://example.com/9.jpg"
	}
]`

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	s := httptest.NewServer(h)
	t.Cleanup(s.Close)
	return s
}

func newClient(t *testing.T, url string, opts ...catalogapi.Opt) catalogapi.Client {
	t.Helper()
	c, err := catalogapi.New(url, opts...)
	require.NoError(t, err)
	return c
}

func TestFetchAll(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/products", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(productsBody))
		})

		ps, err := newClient(t, s.URL).FetchAll(t.Context())
		require.NoError(t, err)
		require.Len(t, ps, 2)

		assert.Equal(t, 1, ps[0].ID)
		assert.Equal(t, "Fjallraven Backpack", ps[0].Title)
		assert.Equal(t, "men's clothing", ps[0].Category)
		assert.Equal(t, "109.95", ps[0].Price.String())
		require.NotNil(t, ps[0].Rating)
		assert.Equal(t, 3.9, ps[0].Rating.Rate)
		assert.Equal(t, 120, ps[0].Rating.Count)

		assert.Equal(t, "64", ps[1].Price.String())
		assert.Nil(t, ps[1].Rating)
	})

	t.Run("NonSuccessStatus", func(t *testing.T) {
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusNotFound)
		})

		_, err := newClient(t, s.URL).FetchAll(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetwork)

		var netErr *catalogapi.NetworkError
		require.True(t, errors.As(err, &netErr))
		assert.Equal(t, http.StatusNotFound, netErr.StatusCode)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		bodies := []string{
			`{"id": 1`,
			`{"id": 1}`,
			`null`,
			`[] trailing-garbage`,
			`[{"id": 1}] [{"id": 2}]`,
			``,
		}
		for _, body := range bodies {
			s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			ps, err := newClient(t, s.URL).FetchAll(t.Context())
			require.Error(t, err, "body %q", body)
			assert.ErrorIs(t, err, domain.ErrDecode, "body %q", body)
			assert.Nil(t, ps)

			var decErr *catalogapi.DecodeError
			assert.True(t, errors.As(err, &decErr), "body %q", body)
		}
	})

	t.Run("EmptyArray", func(t *testing.T) {
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("[]\n"))
		})

		ps, err := newClient(t, s.URL).FetchAll(t.Context())
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("Unreachable", func(t *testing.T) {
		s := httptest.NewServer(http.NotFoundHandler())
		url := s.URL
		s.Close()

		_, err := newClient(t, url).FetchAll(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetwork)
	})

	t.Run("NoRetryByDefault", func(t *testing.T) {
		var calls atomic.Int32
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := newClient(t, s.URL).FetchAll(t.Context())
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("RetryServerErrors", func(t *testing.T) {
		var calls atomic.Int32
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(productsBody))
		})

		c := newClient(t, s.URL,
			catalogapi.AttemptsOpt(3, retry.LinearBackoff(time.Millisecond)),
		)
		ps, err := c.FetchAll(t.Context())
		require.NoError(t, err)
		assert.Len(t, ps, 2)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("NoRetryClientErrors", func(t *testing.T) {
		var calls atomic.Int32
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		})

		c := newClient(t, s.URL,
			catalogapi.AttemptsOpt(3, retry.LinearBackoff(time.Millisecond)),
		)
		_, err := c.FetchAll(t.Context())
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestFetchByCategory(t *testing.T) {
	t.Run("Category", func(t *testing.T) {
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products/category/men's clothing", r.URL.Path)
			_, _ = w.Write([]byte(`[]`))
		})

		ps, err := newClient(t, s.URL).FetchByCategory(t.Context(), "men's clothing")
		require.NoError(t, err)
		assert.Empty(t, ps)
	})

	t.Run("AllMeansFullCatalog", func(t *testing.T) {
		s := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			_, _ = w.Write([]byte(productsBody))
		})

		ps, err := newClient(t, s.URL+"/").FetchByCategory(t.Context(), domain.AllCategories)
		require.NoError(t, err)
		assert.Len(t, ps, 2)
	})
}

func TestNew(t *testing.T) {
	_, err := catalogapi.New("ftp://example.com")
	require.Error(t, err)

	_, err = catalogapi.New("https://example.com", catalogapi.TimeoutOpt(0))
	require.Error(t, err)

	_, err = catalogapi.New("https://example.com", catalogapi.TLSOpt(nil))
	require.Error(t, err)
}
