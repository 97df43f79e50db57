package catalogapi

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 16 << 20
)

var _ port.CatalogFetcher = (*Client)(nil)

type Opt func(*clientOpts) error

type clientOpts struct {
	timeout   time.Duration
	tlsConfig *tls.Config
	retry     retry.RetryConfig
	transport http.RoundTripper
}

func TimeoutOpt(d time.Duration) Opt {
	return func(o *clientOpts) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		o.timeout = d
		return nil
	}
}

func TLSOpt(cfg *tls.Config) Opt {
	return func(o *clientOpts) error {
		if cfg == nil {
			return errors.New("tls config is nil")
		}
		o.tlsConfig = cfg
		return nil
	}
}

// AttemptsOpt enables retries of transport failures and 5xx responses.
func AttemptsOpt(n int, backoff retry.Backoff) Opt {
	return func(o *clientOpts) error {
		if n < 1 {
			return errors.New("attempts must be positive")
		}
		o.retry.MaxAttempts = n
		o.retry.Backoff = backoff
		return nil
	}
}

// TransportOpt replaces the base transport. Used in tests.
func TransportOpt(rt http.RoundTripper) Opt {
	return func(o *clientOpts) error {
		if rt == nil {
			return errors.New("transport is nil")
		}
		o.transport = rt
		return nil
	}
}

// A Client reads products from a fakestoreapi-compatible JSON API.
type Client struct {
	baseURL string
	http    *http.Client
	retry   retry.RetryConfig
}

func New(baseURL string, opts ...Opt) (Client, error) {
	const op = "catalogapi.New"

	u, err := url.Parse(baseURL)
	if err != nil {
		return Client{}, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Client{}, fmt.Errorf("%s: unsupported scheme %q", op, u.Scheme)
	}

	options := clientOpts{
		timeout: defaultTimeout,
		retry:   retry.RetryConfig{MaxAttempts: 1},
	}
	for _, o := range opts {
		if err := o(&options); err != nil {
			return Client{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	base := options.transport
	if base == nil {
		t := http.DefaultTransport.(*http.Transport).Clone()
		if options.tlsConfig != nil {
			t.TLSClientConfig = options.tlsConfig
		}
		base = t
	}
	options.retry.ShouldRetry = isTransient

	return Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(base),
			Timeout:   options.timeout,
		},
		retry: options.retry,
	}, nil
}

func (c Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "Client.FetchAll"

	ps, err := c.fetch(ctx, c.baseURL+"/products")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// FetchByCategory requests one category. "all" requests the whole catalog.
func (c Client) FetchByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	const op = "Client.FetchByCategory"

	if category == domain.AllCategories {
		return c.FetchAll(ctx)
	}

	u := c.baseURL + "/products/category/" + url.PathEscape(category)
	ps, err := c.fetch(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (c Client) fetch(ctx context.Context, u string) ([]domain.Product, error) {
	return retry.DoWithResult(ctx, c.retry, func() ([]domain.Product, error) {
		return c.get(ctx, u)
	})
}

func (c Client) get(ctx context.Context, u string) ([]domain.Product, error) {
	const op = "Client.get"
	log := slog.With("op", op, "url", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("requesting catalog")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("catalog is unreachable", "err", err)
		return nil, &NetworkError{URL: u, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Error("failed to close response body", "err", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("catalog responded with failure", "status", resp.StatusCode)
		return nil, &NetworkError{URL: u, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn("failed to read response body", "err", err)
		return nil, &NetworkError{URL: u, Err: err}
	}

	ps, err := decodeProducts(b)
	if err != nil {
		log.Warn("failed to decode catalog", "err", err)
		return nil, &DecodeError{URL: u, Err: err}
	}

	log.Debug("catalog received", "nProducts", len(ps))
	return toDomain(ps), nil
}

func isTransient(err error) bool {
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		return false
	}
	return netErr.StatusCode == 0 || netErr.StatusCode >= 500
}
