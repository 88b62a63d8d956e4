package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "csv", cfg.Snapshot.Source)
	assert.Equal(t, "snapshots", cfg.Snapshot.Dir)
	assert.Equal(t, []string{"HORECA", "TRADE"}, cfg.Analysis.ExcludedTypes)
	assert.Equal(t, "Lead", cfg.Analysis.ExcludedSubType)
	assert.Equal(t, 0.6, cfg.Analysis.ConversionWeight)
	assert.Equal(t, 0.4, cfg.Analysis.SalesWeight)
	assert.Equal(t, []int{7, 14, 21, 30}, cfg.Analysis.PeriodWindows)
	assert.False(t, cfg.History.DedupeByDate)
	assert.False(t, cfg.Publish.Enabled)
	assert.Equal(t, 60*time.Second, cfg.Publish.Timeout)
	assert.Equal(t, "0 0 7 * * *", cfg.Schedule.RefreshSpec)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EXCLUDED_TYPES", "HORECA, TRADE ,Internal")
	t.Setenv("PERIOD_WINDOWS", "7,90")
	t.Setenv("CONVERSION_WEIGHT", "0.5")
	t.Setenv("SALES_WEIGHT", "0.5")
	t.Setenv("HISTORY_DEDUPE_BY_DATE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"HORECA", "TRADE", "Internal"}, cfg.Analysis.ExcludedTypes)
	assert.Equal(t, []int{7, 90}, cfg.Analysis.PeriodWindows)
	assert.Equal(t, 0.5, cfg.Analysis.ConversionWeight)
	assert.True(t, cfg.History.DedupeByDate)
}

func TestLoad_EmptyExclusionListIsHonored(t *testing.T) {
	// Set-to-empty means no exclusions; only unset falls back to the
	// default channel list.
	t.Setenv("EXCLUDED_TYPES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Analysis.ExcludedTypes)
}

func TestLoad_EmptyPeriodWindowsRejected(t *testing.T) {
	t.Setenv("PERIOD_WINDOWS", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PERIOD_WINDOWS")
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("SNAPSHOT_SOURCE", "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost/winners")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Snapshot.Source)
}

func TestLoad_RejectsBadWeights(t *testing.T) {
	t.Setenv("CONVERSION_WEIGHT", "0.8")
	t.Setenv("SALES_WEIGHT", "0.8")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "weights must sum to 1.0")
}

func TestLoad_RejectsUnknownSource(t *testing.T) {
	t.Setenv("SNAPSHOT_SOURCE", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAPSHOT_SOURCE")
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	t.Setenv("ENV", "testing")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestGetEnvHelpers_FallBackOnBadValues(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "not-a-number")
	t.Setenv("PUBLISH_TIMEOUT", "soon")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 60*time.Second, cfg.Publish.Timeout)
	assert.True(t, cfg.MetricsEnabled)
}
