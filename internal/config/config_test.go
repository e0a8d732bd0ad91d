package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("SHOPIFY_STORE_DOMAIN", "")
	t.Setenv("SHOPIFY_STOREFRONT_ACCESS_TOKEN", "")
	t.Setenv("CART_STORAGE_KEY", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DefaultCartStorageKey, cfg.CartStorageKey)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.Commerce.Configured())
}

func TestCommerceConfiguredRequiresBoth(t *testing.T) {
	cases := []struct {
		domain, token string
		want          bool
	}{
		{"", "", false},
		{"shop.myshopify.com", "", false},
		{"", "token", false},
		{"  ", "token", false},
		{"shop.myshopify.com", "token", true},
	}
	for _, tc := range cases {
		c := Commerce{StoreDomain: tc.domain, AccessToken: tc.token}
		assert.Equal(t, tc.want, c.Configured(), "domain=%q token=%q", tc.domain, tc.token)
	}
}

func TestEnvListAndHours(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SESSION_TTL_HOURS", "2")
	cfg := FromEnv()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("SHOPIFY_API_VERSION=2025-01\n"), 0o600))
	t.Setenv("SHOPIFY_API_VERSION", "")
	os.Unsetenv("SHOPIFY_API_VERSION")

	cfg := Load(path)
	assert.Equal(t, "2025-01", cfg.Commerce.APIVersion)
}
