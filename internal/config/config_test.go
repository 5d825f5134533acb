package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trends:\n  fatigue_decay_per_week: 2.5\ncharts:\n  hot_100_size: 40\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.Trends.FatigueDecayPerWeek)
	assert.Equal(t, 40, cfg.Charts.Hot100Size)
	assert.Equal(t, Default().Trends.Max, cfg.Trends.Max)
}

func TestLoad_RejectsInvalidTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trends:\n  min: 2\n  max: 1\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trends: [1, 2"), 0o644))

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("HITMAKER_DB", "/tmp/x.db")
	t.Setenv("HITMAKER_SEED", "42")
	t.Setenv("HITMAKER_PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://hitmaker.fm,")

	rt := FromEnv()
	assert.Equal(t, "/tmp/x.db", rt.DBPath)
	assert.Equal(t, int64(42), rt.Seed)
	assert.Equal(t, 9090, rt.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://hitmaker.fm"}, rt.CORSOrigins)
	assert.Zero(t, rt.TickSeconds)
}
