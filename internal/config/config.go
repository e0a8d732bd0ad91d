package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIVersion     = "2024-01"
	DefaultCartStorageKey = "shopify-cart-id"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	DBConnString    string
	ShutdownTimeout time.Duration
	LogLevel        string

	Commerce Commerce

	CartStorageKey  string
	CartStoreFile   string
	MockCatalogFile string
	SessionTTL      time.Duration
	CORSOrigins     []string
}

// Commerce carries the Storefront API credentials.
type Commerce struct {
	StoreDomain string
	AccessToken string
	APIVersion  string
}

// Configured reports whether live credentials are present. A partial pair
// counts as not configured.
func (c Commerce) Configured() bool {
	return strings.TrimSpace(c.StoreDomain) != "" && strings.TrimSpace(c.AccessToken) != ""
}

// Load reads a .env file when one exists and then builds Config from the environment.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return FromEnv()
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		DBConnString:    os.Getenv("DB_DSN"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		Commerce:        CommerceFromEnv(),
		CartStorageKey:  envOrDefault("CART_STORAGE_KEY", DefaultCartStorageKey),
		CartStoreFile:   os.Getenv("CART_STORE_FILE"),
		MockCatalogFile: os.Getenv("MOCK_CATALOG_FILE"),
		SessionTTL:      envHours("SESSION_TTL_HOURS", 30*24*time.Hour),
		CORSOrigins:     envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// CommerceFromEnv re-reads only the credential settings. The cart engine calls
// it on every operation so credentials can change without a restart.
func CommerceFromEnv() Commerce {
	return Commerce{
		StoreDomain: strings.TrimSpace(os.Getenv("SHOPIFY_STORE_DOMAIN")),
		AccessToken: strings.TrimSpace(os.Getenv("SHOPIFY_STOREFRONT_ACCESS_TOKEN")),
		APIVersion:  envOrDefault("SHOPIFY_API_VERSION", DefaultAPIVersion),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envHours(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		hours, err := strconv.Atoi(v)
		if err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
