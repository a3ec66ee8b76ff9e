package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "tripscore.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "tripscore:", cfg.Store.Redis.Prefix)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 3, cfg.Scoring.OptimalCheapest)
	assert.Equal(t, 5, cfg.Scoring.OptimalDirectWindow)
	assert.Nil(t, cfg.Scoring.DefaultWeights)
	assert.Equal(t, "en-US", cfg.Itinerary.Locale)
	assert.Equal(t, 2, cfg.Itinerary.ActivitiesPerDay)
	assert.Equal(t, "file", cfg.Provider.Kind)
	assert.Equal(t, 3, cfg.Provider.MaxRetries)
	assert.InDelta(t, 5.0, cfg.Provider.RatePerSecond, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: memory
log:
  level: debug
  format: console
server:
  port: 9090
scoring:
  default_weights:
    budget: 5
    quality: 3
    convenience: 2
itinerary:
  locale: en-GB
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "en-GB", cfg.Itinerary.Locale)
	require.NotNil(t, cfg.Scoring.DefaultWeights)
	assert.InDelta(t, 5.0, cfg.Scoring.DefaultWeights.Budget, 0.001)
	assert.InDelta(t, 2.0, cfg.Scoring.DefaultWeights.Convenience, 0.001)
	// Defaults still apply for unset values
	assert.Equal(t, 3, cfg.Scoring.OptimalCheapest)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("TRIPSCORE_STORE_DRIVER", "postgres")
	t.Setenv("TRIPSCORE_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("TRIPSCORE_SERVER_PORT", "3000")
	t.Setenv("TRIPSCORE_PROVIDER_KIND", "http")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Provider.Kind)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "tripscore.db"
	cfg.Server.Port = 8080
	cfg.Scoring.OptimalCheapest = 3
	cfg.Scoring.OptimalDirectWindow = 5
	cfg.Provider.Kind = "file"
	cfg.Provider.BaseDir = "testdata"
	return cfg
}

func TestValidateEngine(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("engine"))
}

func TestValidateStoreDriver(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"memory needs nothing", func(c *Config) { c.Store.Driver = "memory"; c.Store.DatabaseURL = "" }, ""},
		{"unsupported driver", func(c *Config) { c.Store.Driver = "mongo" }, `store.driver "mongo" is not supported`},
		{"postgres without url", func(c *Config) { c.Store.Driver = "postgres"; c.Store.DatabaseURL = "" }, "store.database_url is required"},
		{"redis without addr", func(c *Config) { c.Store.Driver = "redis" }, "store.redis.addr is required"},
		{"negative window", func(c *Config) { c.Scoring.OptimalDirectWindow = -1 }, "scoring.optimal_* must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate("engine")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidatePlan_HTTPNeedsFlightsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Provider.Kind = "http"

	err := cfg.Validate("plan")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provider.flights_url is required")

	cfg.Provider.FlightsURL = "https://api.example.test/flights"
	assert.NoError(t, cfg.Validate("plan"))
}

func TestValidatePlan_UnknownProvider(t *testing.T) {
	cfg := validDefaults()
	cfg.Provider.Kind = "ftp"

	err := cfg.Validate("plan")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `provider.kind "ftp" is not supported`)
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
