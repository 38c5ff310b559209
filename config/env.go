package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STOREFRONT_"

type Config struct {
	App struct {
		Env      string `koanf:"env"`
		Port     string `koanf:"port"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
		Currency string `koanf:"currency"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
		AllowedOrigins  []string      `koanf:"allowed_origins"`
		SSEKeepAlive    time.Duration `koanf:"sse_keepalive"`
	} `koanf:"http"`

	Remote struct {
		BaseURL      string        `koanf:"base_url"`
		PageSize     int           `koanf:"page_size"`
		Timeout      time.Duration `koanf:"timeout"`
		ForwardQuery bool          `koanf:"forward_query"`
		CacheTTL     time.Duration `koanf:"cache_ttl"`
	} `koanf:"remote"`

	Catalog struct {
		Source string `koanf:"source"`
	} `koanf:"catalog"`

	DB struct {
		URL           string `koanf:"url"`
		Host          string `koanf:"host"`
		Port          string `koanf:"port"`
		User          string `koanf:"user"`
		Password      string `koanf:"password"`
		Name          string `koanf:"name"`
		SSLMode       string `koanf:"sslmode"`
		MigrationsDir string `koanf:"migrations_dir"`
	} `koanf:"db"`

	Redis struct {
		URL      string `koanf:"url"`
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Session struct {
		Secret        string        `koanf:"secret"`
		TTL           time.Duration `koanf:"ttl"`
		SweepInterval time.Duration `koanf:"sweep_interval"`
	} `koanf:"session"`
}

var AppConfig *Config

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.App.Env = "development"
	cfg.App.Port = "8082"
	cfg.App.LogLevel = "info"
	cfg.App.LogFile = "./logs/storefront.log"
	cfg.App.Currency = "R$"

	cfg.HTTP.ReadTimeout = 15 * time.Second
	cfg.HTTP.WriteTimeout = 0
	cfg.HTTP.ShutdownTimeout = 10 * time.Second
	cfg.HTTP.SSEKeepAlive = 15 * time.Second
	cfg.HTTP.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

	cfg.Remote.BaseURL = "https://dummyjson.com/products"
	cfg.Remote.PageSize = 6
	cfg.Remote.Timeout = 10 * time.Second
	cfg.Remote.CacheTTL = 5 * time.Minute

	cfg.Catalog.Source = "static"

	cfg.DB.Host = "localhost"
	cfg.DB.Port = "5454"
	cfg.DB.User = "postgres"
	cfg.DB.Password = "postgres"
	cfg.DB.Name = "storefront"
	cfg.DB.SSLMode = "disable"
	cfg.DB.MigrationsDir = "database/migration"

	cfg.Session.Secret = "secret"
	cfg.Session.TTL = 24 * time.Hour
	cfg.Session.SweepInterval = time.Minute
	return cfg
}

// LoadConfig layers .env, an optional YAML file and STOREFRONT_* variables
// over the defaults. Nested keys use a double underscore, e.g.
// STOREFRONT_REMOTE__PAGE_SIZE=6.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("env overlay: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	// PORT is what most hosting platforms hand out.
	if port := os.Getenv("PORT"); port != "" && !k.Exists("app.port") {
		cfg.App.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("app.port required")
	}
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url required")
	}
	if c.Remote.PageSize < 1 {
		return fmt.Errorf("remote.page_size must be positive, got %d", c.Remote.PageSize)
	}
	switch c.Catalog.Source {
	case "static", "postgres":
	default:
		return fmt.Errorf("catalog.source must be static or postgres, got %q", c.Catalog.Source)
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.HTTP.SSEKeepAlive <= 0 {
		return fmt.Errorf("http.sse_keepalive must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
