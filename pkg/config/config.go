package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names for the required settings, shared with tests and
// deploy tooling.
const (
	EnvAppEnv         = "STOREFRONT_APP_ENV"
	EnvPort           = "STOREFRONT_APP_PORT"
	EnvCommerceAPIURL = "STOREFRONT_COMMERCE_API_URL"
	EnvCommerceChan   = "STOREFRONT_COMMERCE_CHANNEL"
	EnvRedisURL       = "STOREFRONT_REDIS_URL"
	EnvRazorpayKeyID  = "STOREFRONT_RAZORPAY_KEY_ID"
)

type Config struct {
	App      AppConfig
	Commerce CommerceConfig
	Redis    RedisConfig
	Razorpay RazorpayConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Commerce.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// CommerceConfig points at the upstream GraphQL commerce endpoint.
type CommerceConfig struct {
	APIURL         string        `envconfig:"STOREFRONT_COMMERCE_API_URL" default:"https://demo.saleor.io/graphql/"`
	Channel        string        `envconfig:"STOREFRONT_COMMERCE_CHANNEL" default:"default-channel"`
	RequestTimeout time.Duration `envconfig:"STOREFRONT_COMMERCE_REQUEST_TIMEOUT" default:"15s"`
	PageSize       int           `envconfig:"STOREFRONT_COMMERCE_PAGE_SIZE" default:"20"`
}

func (c CommerceConfig) validate() error {
	parsed, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("parsing commerce api url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("commerce api url must be http(s), got %q", c.APIURL)
	}
	if strings.TrimSpace(c.Channel) == "" {
		return fmt.Errorf("commerce channel is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("commerce page size must be positive")
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL" required:"true"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RazorpayConfig carries the hosted payment widget credentials. The key id is
// public and handed to the widget; the secret stays server-side for callback
// signature checks.
type RazorpayConfig struct {
	KeyID       string `envconfig:"STOREFRONT_RAZORPAY_KEY_ID" required:"true"`
	KeySecret   string `envconfig:"STOREFRONT_RAZORPAY_KEY_SECRET"`
	DisplayName string `envconfig:"STOREFRONT_RAZORPAY_DISPLAY_NAME" default:"Storefront"`
	ThemeColor  string `envconfig:"STOREFRONT_RAZORPAY_THEME_COLOR" default:"#1976d2"`
}
