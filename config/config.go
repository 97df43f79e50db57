package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

type tlsFiles struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type catalog struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Attempts   int           `mapstructure:"attempts"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Language   language.Tag  `mapstructure:"language"`
	TLS        tlsFiles      `mapstructure:"tls"`
}

type StorageKeys struct {
	Cart    string `mapstructure:"cart"`
	Backup  string `mapstructure:"backup"`
	History string `mapstructure:"history"`
}

type Storage struct {
	Path string      `mapstructure:"path"`
	Keys StorageKeys `mapstructure:"keys"`
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	NotificationsLimit int           `mapstructure:"notifications_limit"`
	Catalog            catalog       `mapstructure:"catalog"`
	Storage            Storage       `mapstructure:"storage"`
}

func Load() Config {
	cfg, err := load(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile is Load for tools that parse their own flags. An empty path
// means defaults and environment only.
func LoadFile(path string) (Config, error) {
	return load(path)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("request_timeout", "15s")
	v.SetDefault("notifications_limit", 20)

	v.SetDefault("catalog.base_url", "https://fakestoreapi.com")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.attempts", 1)
	v.SetDefault("catalog.retry_delay", "200ms")
	v.SetDefault("catalog.language", "en")
	v.SetDefault("catalog.tls.ca_file", "")
	v.SetDefault("catalog.tls.cert_file", "")
	v.SetDefault("catalog.tls.key_file", "")

	v.SetDefault("storage.path", "storefront.db")
	v.SetDefault("storage.keys.cart", "cart")
	v.SetDefault("storage.keys.backup", "cartBackup")
	v.SetDefault("storage.keys.history", "purchaseHistory")
}

// load reads the optional config file; STOREFRONT_* env vars take
// precedence over it.
func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url: required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog.timeout: must be positive"))
	}
	if c.Catalog.Attempts < 1 {
		errs = append(errs, errors.New("catalog.attempts: must be at least 1"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout: must be positive"))
	}
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path: required"))
	}

	k := c.Storage.Keys
	if k.Cart == "" || k.Backup == "" || k.History == "" {
		errs = append(errs, errors.New("storage.keys: all keys required"))
	} else if k.Cart == k.Backup || k.Cart == k.History || k.Backup == k.History {
		errs = append(errs, errors.New("storage.keys: keys must differ"))
	}

	tls := c.Catalog.TLS
	if (tls.CertFile == "") != (tls.KeyFile == "") {
		errs = append(errs, errors.New("catalog.tls: cert_file and key_file go together"))
	}
	if tls.CertFile != "" && tls.CAFile == "" {
		errs = append(errs, errors.New("catalog.tls: ca_file required"))
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	RequestTimeout=%q

	Catalog:
	BaseURL=%q
	Timeout=%q
	Attempts=%d
	Language=%q
	CAFile=%q

	Storage:
	Path=%q
	Keys:
		Cart=%q
		Backup=%q
		History=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.RequestTimeout,
		c.Catalog.BaseURL,
		c.Catalog.Timeout,
		c.Catalog.Attempts,
		c.Catalog.Language,
		c.Catalog.TLS.CAFile,
		c.Storage.Path,
		c.Storage.Keys.Cart,
		c.Storage.Keys.Backup,
		c.Storage.Keys.History,
	)
}
