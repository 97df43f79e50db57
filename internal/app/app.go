package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalogapi"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/notifier"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/retry"
)

type repositories struct {
	db     storage.LevelDB
	cart   storage.CartRepository
	orders storage.OrderRepository
}

type coreService struct {
	catalog    *service.Catalog
	cart       *service.CartStore
	storefront *service.Storefront
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	repos      repositories
	catalogAPI catalogapi.Client
	notifier   *notifier.Recent
	service    coreService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	db, err := storage.OpenLevelDB(app.cfg.Storage.Path)
	if err != nil {
		app.fallDown(op, err)
	}
	keys := app.cfg.Storage.Keys
	app.repos = repositories{
		db: db,
		cart: storage.NewCartRepository(db, storage.CartKeys{
			Cart:   keys.Cart,
			Backup: keys.Backup,
		}),
		orders: storage.NewOrderRepository(db, keys.History),
	}

	catalogCfg := app.cfg.Catalog
	opts := []catalogapi.Opt{
		catalogapi.TimeoutOpt(catalogCfg.Timeout),
		catalogapi.AttemptsOpt(
			catalogCfg.Attempts, retry.LinearBackoff(catalogCfg.RetryDelay),
		),
	}
	if catalogCfg.TLS.CAFile != "" {
		tlsConfig, err := adapter.MakeClientTLSConfig(
			catalogCfg.TLS.CAFile,
			catalogCfg.TLS.CertFile,
			catalogCfg.TLS.KeyFile,
		)
		if err != nil {
			app.fallDown(op, err)
		}
		opts = append(opts, catalogapi.TLSOpt(tlsConfig))
	}

	client, err := catalogapi.New(catalogCfg.BaseURL, opts...)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalogAPI = client

	app.notifier = notifier.NewRecent(
		notifier.NewLog(slog.Default()), app.cfg.NotificationsLimit,
	)
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"
	log := slog.With("op", op)

	catalog := service.NewCatalog(app.catalogAPI, app.cfg.Catalog.Language)
	if err := catalog.Load(app.ctx); err != nil {
		log.Warn("catalog is unavailable, starting with an empty one", "err", err)
	}

	cart := service.NewCartStore(app.ctx, app.repos.cart)

	app.service = coreService{
		catalog:    catalog,
		cart:       cart,
		storefront: service.NewStorefront(catalog, cart, app.repos.orders, app.notifier),
	}
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.service.catalog, app.service.storefront)
	httphandler.RegisterCart(mux, app.service.storefront)
	httphandler.RegisterNotifications(mux, app.notifier)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	httpServer, err := httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.RequestTimeout,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.httpServer = httpServer
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.repos.db.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
