package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Display  DisplayConfig
	CORS     CORSConfig
	Log      LogConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
	LoginRateLimit int
	LoginWindow    time.Duration
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address is
	// the client address.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Driver          string // postgres | mysql | sqlite
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
	SlowThreshold   time.Duration
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// RedisConfig is optional; an empty URL keeps revocation and caching in memory.
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// DisplayConfig drives presentation-only currency normalization.
type DisplayConfig struct {
	BaseCurrency string
	Rates        map[string]decimal.Decimal // units of currency per one base unit
}

type CORSConfig struct {
	Origins []string
}

type LogConfig struct {
	Level       string
	Format      string // json | console
	Development bool
}

type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "change-me-in-production"

func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:           "5000",
			Env:            "development",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			RequestTimeout: 15 * time.Second,
			LoginRateLimit: 10,
			LoginWindow:    time.Minute,
		},
		Database: DatabaseConfig{
			Driver:          "postgres",
			DSN:             "",
			MaxIdleConns:    5,
			MaxOpenConns:    10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Second,
			ConnectTimeout:  10 * time.Second,
			SlowThreshold:   200 * time.Millisecond,
		},
		JWT: JWTConfig{
			Secret: DefaultJWTSecret,
			Expiry: 12 * time.Hour,
			Issuer: "bouncecure",
		},
		Redis: RedisConfig{
			CacheTTL: 30 * time.Second,
		},
		Display: DisplayConfig{
			BaseCurrency: "USD",
			Rates:        map[string]decimal.Decimal{"INR": decimal.NewFromInt(75)},
		},
		CORS: CORSConfig{
			Origins: []string{
				"http://localhost:5173",
				"https://bouncecure-payment.onrender.com",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Admin: AdminConfig{
			Name: "Administrator",
		},
	}
	cfg.applyEnv()
	return cfg
}

// Validate rejects settings that must not reach production.
func (c *Config) Validate() error {
	if c.Server.Env != "production" {
		return nil
	}
	if c.JWT.Secret == "" || c.JWT.Secret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	return nil
}

// UsesDefaultSecret reports whether tokens are signed with the built-in secret.
func (c *Config) UsesDefaultSecret() bool {
	return c.JWT.Secret == DefaultJWTSecret
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.Env, "APP_ENV")
	setDuration(&c.Server.RequestTimeout, "REQUEST_TIMEOUT")
	setInt(&c.Server.LoginRateLimit, "LOGIN_RATE_LIMIT")
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		c.Server.TrustedProxies = splitList(v)
	}

	setString(&c.Database.Driver, "DATABASE_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")
	setInt(&c.Database.MaxOpenConns, "DB_MAX_OPEN_CONNS")
	setInt(&c.Database.MaxIdleConns, "DB_MAX_IDLE_CONNS")
	setDuration(&c.Database.ConnMaxIdleTime, "DB_CONN_MAX_IDLE_TIME")
	setDuration(&c.Database.ConnectTimeout, "DB_CONNECT_TIMEOUT")

	setString(&c.JWT.Secret, "JWT_SECRET")
	setDuration(&c.JWT.Expiry, "JWT_EXPIRY")
	setString(&c.JWT.Issuer, "JWT_ISSUER")

	setString(&c.Redis.URL, "REDIS_URL")
	setDuration(&c.Redis.CacheTTL, "REDIS_CACHE_TTL")

	setString(&c.Display.BaseCurrency, "DISPLAY_BASE_CURRENCY")
	c.Display.BaseCurrency = strings.ToUpper(c.Display.BaseCurrency)
	if v := os.Getenv("DISPLAY_INR_PER_USD"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil && d.IsPositive() {
			c.Display.Rates["INR"] = d
		}
	}
	for cur, rate := range ParseRates(os.Getenv("DISPLAY_RATES")) {
		c.Display.Rates[cur] = rate
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORS.Origins = splitList(v)
	}

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	c.Log.Development = c.Server.Env != "production"

	setString(&c.Admin.Email, "ADMIN_EMAIL")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Admin.Name, "ADMIN_NAME")
}

// ParseRates parses "INR:75,EUR:0.92". Malformed or non-positive entries are skipped.
func ParseRates(s string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, item := range splitList(s) {
		cur, val, ok := strings.Cut(item, ":")
		cur = strings.ToUpper(strings.TrimSpace(cur))
		if !ok || cur == "" {
			continue
		}
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil || !d.IsPositive() {
			continue
		}
		out[cur] = d
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
