package toml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmnexus/nexus/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	repo, err := NewRepository(viper.New())
	require.NoError(t, err)
	return repo
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	repo := newTestRepository(t)

	settings, err := repo.Load()
	require.NoError(t, err)

	assert.Equal(t, defaultRateCeiling, settings.RateCeiling)
	assert.Equal(t, defaultRateWindow, settings.RateWindow)
	assert.Equal(t, defaultMaxCohort, settings.MaxCohort)
	assert.Equal(t, defaultDeadline, settings.Deadline)
	assert.Len(t, settings.Catalog, 3)
	assert.NotEmpty(t, settings.MetricsPath)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	repo := newTestRepository(t)

	saved := DefaultSettings(filepath.Join(t.TempDir(), "metrics.csv"))
	saved.RateCeiling = 9
	saved.RateWindow = 30 * time.Second
	saved.Deadline = 1500 * time.Millisecond
	require.NoError(t, repo.Save(saved))
	require.True(t, repo.Exists())

	loaded, err := repo.Load()
	require.NoError(t, err)

	assert.Equal(t, 9, loaded.RateCeiling)
	assert.Equal(t, 30*time.Second, loaded.RateWindow)
	assert.Equal(t, 1500*time.Millisecond, loaded.Deadline)
	assert.Equal(t, saved.MetricsPath, loaded.MetricsPath)
	assert.Len(t, loaded.Catalog, len(saved.Catalog))
	assert.Equal(t, saved.Catalog[0].ID, loaded.Catalog[0].ID)
	assert.True(t, loaded.Prices.RateFor("gpt-4o").Equal(saved.Prices.RateFor("gpt-4o")))
}

func TestLoadCustomCatalogAndRouting(t *testing.T) {
	repo := newTestRepository(t)

	config := `version = 1

[limits]
ceiling = 2
window = "30s"

[dispatch]
deadline = "750ms"
max_cohort = 1

[pricing]
default_rate = "0.0010"

[[models]]
id = "local-llama"
tags = ["cheap", "fast"]
base_url = "http://localhost:8080/v1"
rate = "0.0001"

[routing]
cost_saving = ["cheap"]
`
	require.NoError(t, os.MkdirAll(filepath.Dir(repo.Path()), 0o755))
	require.NoError(t, os.WriteFile(repo.Path(), []byte(config), 0o600))

	settings, err := repo.Load()
	require.NoError(t, err)

	assert.Equal(t, 2, settings.RateCeiling)
	assert.Equal(t, 30*time.Second, settings.RateWindow)
	assert.Equal(t, 750*time.Millisecond, settings.Deadline)
	assert.Equal(t, 1, settings.MaxCohort)

	require.Len(t, settings.Catalog, 1)
	assert.Equal(t, domain.ModelID("local-llama"), settings.Catalog[0].ID)
	assert.Equal(t, "http://localhost:8080/v1", settings.Catalog[0].BaseURL)

	assert.Equal(t, []domain.Capability{domain.CapabilityCheap}, settings.Priorities[domain.ObjectiveCostSaving])
	// Unset objectives keep their default tiers.
	assert.Equal(t, domain.DefaultPriorities()[domain.ObjectiveCoding], settings.Priorities[domain.ObjectiveCoding])

	assert.True(t, settings.Prices.RateFor("local-llama").Equal(decimal.RequireFromString("0.0001")))
	assert.True(t, settings.Prices.DefaultRate.Equal(decimal.RequireFromString("0.0010")))
}

func TestLoadRejectsNewerSchemaVersion(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(repo.Path()), 0o755))
	require.NoError(t, os.WriteFile(repo.Path(), []byte("version = 2\n"), 0o600))

	_, err := repo.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported engine config schema version")
}

func TestLoadRejectsUnknownCapabilityTag(t *testing.T) {
	repo := newTestRepository(t)

	config := `version = 1

[[models]]
id = "m1"
tags = ["omniscient"]
`
	require.NoError(t, os.MkdirAll(filepath.Dir(repo.Path()), 0o755))
	require.NoError(t, os.WriteFile(repo.Path(), []byte(config), 0o600))

	_, err := repo.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown capability tag")
}

func TestLoadRejectsNegativeDuration(t *testing.T) {
	repo := newTestRepository(t)

	config := `version = 1

[dispatch]
deadline = "-2s"
`
	require.NoError(t, os.MkdirAll(filepath.Dir(repo.Path()), 0o755))
	require.NoError(t, os.WriteFile(repo.Path(), []byte(config), 0o600))

	_, err := repo.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}
