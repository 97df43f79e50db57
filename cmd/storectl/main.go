package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/spf13/pflag"
)

const (
	configFlag      = "config"
	storagePathFlag = "storage-path"
)

type flags struct {
	configPath  string
	storagePath string
	command     string
}

// storectl prints the local storage of a stopped storefront in its stored
// format. Keys and path come from the storefront config:
//
//	storectl [-c config.yaml] [-s storefront.db] orders|cart|backup
func main() {
	f := getFlagsValues()
	validateFlags(f)

	cfg, err := config.LoadFile(f.configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		fallDown()
	}
	if f.storagePath != "" {
		cfg.Storage.Path = f.storagePath
	}

	if err := run(context.Background(), cfg.Storage, f.command); err != nil {
		slog.Error("failed to read storage", "err", err)
		fallDown()
	}
}

func getFlagsValues() flags {
	configPath := pflag.StringP(configFlag, "c", "", "storefront config file")
	storagePath := pflag.StringP(storagePathFlag, "s", "", "LevelDB directory, overrides storage.path")
	pflag.Parse()

	return flags{
		configPath:  *configPath,
		storagePath: *storagePath,
		command:     pflag.Arg(0),
	}
}

func validateFlags(f flags) {
	var errs []error

	switch f.command {
	case "orders", "cart", "backup":
	default:
		errs = append(errs, fmt.Errorf("command %q: want orders, cart or backup", f.command))
	}
	if pflag.NArg() > 1 {
		errs = append(errs, errors.New("one command expected"))
	}

	if len(errs) != 0 {
		slog.Error("invalid args", "err", errors.Join(errs...))
		fallDown()
	}
}

func run(ctx context.Context, cfg config.Storage, command string) error {
	db, err := storage.OpenLevelDB(cfg.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	carts := storage.NewCartRepository(db, storage.CartKeys{
		Cart:   cfg.Keys.Cart,
		Backup: cfg.Keys.Backup,
	})

	var b []byte
	switch command {
	case "orders":
		orders, err := storage.NewOrderRepository(db, cfg.Keys.History).Orders(ctx)
		if err != nil {
			return err
		}
		b, err = storage.IndentOrders(orders)
		if err != nil {
			return err
		}
	case "cart", "backup":
		load := carts.LoadCart
		if command == "backup" {
			load = carts.LoadBackup
		}
		items, err := load(ctx)
		if err != nil {
			return err
		}
		b, err = storage.IndentLineItems(items)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(os.Stdout, string(b))
	return err
}

func fallDown() {
	os.Exit(2)
}
