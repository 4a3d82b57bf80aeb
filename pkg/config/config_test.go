package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
service_name = "storefront-test"
environment = "staging"

[http]
port = 8181

[session]
store = "redis"
cookie_name = "sid"
ttl = 600

[pricing]
tax_rate = "0.21"
max_quantity = 10

[[catalog.products]]
id = 7
name = "Milanesa Test"
price = "12.50"
image = "/static/img/test.png"

[[catalog.addons]]
id = 1
name = "Agua"
price = "0.90"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "storefront-test", cfg.ServiceName)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8181, cfg.HTTP.Port)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, 600, cfg.Session.TTL)
	assert.Equal(t, "0.21", cfg.Pricing.TaxRate)
	assert.Equal(t, "5.00", cfg.Pricing.ShippingFee, "unset keys keep their defaults")
	assert.Equal(t, 10, cfg.Pricing.MaxQuantity)

	require.Len(t, cfg.Catalog.Products, 1)
	assert.Equal(t, 7, cfg.Catalog.Products[0].ID)
	assert.Equal(t, "12.50", cfg.Catalog.Products[0].Price)
	require.Len(t, cfg.Catalog.AddOns, 1)
	assert.Equal(t, "Agua", cfg.Catalog.AddOns[0].Name)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "9191")
	t.Setenv("APP_SESSION_STORE", "memory")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Session.Store)
}

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "storefront_session", cfg.Session.CookieName)
	assert.Equal(t, "local", cfg.Session.Lock)
	assert.Equal(t, "0.10", cfg.Pricing.TaxRate)
	assert.Equal(t, "50.00", cfg.Pricing.ShippingThreshold)
	assert.Equal(t, 20, cfg.Pricing.MaxQuantity)
	assert.Empty(t, cfg.Catalog.Products)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServiceName: "storefront",
			HTTP:        HTTPConfig{Port: 8080},
			Session:     SessionConfig{Store: "memory", Lock: "local", CookieName: "sid", TTL: 60},
			Pricing:     PricingConfig{MaxQuantity: 20},
		}
	}

	t.Run("ok", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "dev", cfg.Environment)
	})

	t.Run("unknown store", func(t *testing.T) {
		cfg := valid()
		cfg.Session.Store = "etcd"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown lock", func(t *testing.T) {
		cfg := valid()
		cfg.Session.Lock = "zookeeper"
		assert.Error(t, cfg.Validate())
	})

	t.Run("mysql needs dsn", func(t *testing.T) {
		cfg := valid()
		cfg.Session.Store = "mysql"
		assert.Error(t, cfg.Validate())
		cfg.Database.DSN = "user:pass@tcp(localhost:3306)/storefront"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("kafka needs brokers", func(t *testing.T) {
		cfg := valid()
		cfg.Kafka.Enabled = true
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := valid()
		cfg.HTTP.Port = 70000
		assert.Error(t, cfg.Validate())
	})
}
