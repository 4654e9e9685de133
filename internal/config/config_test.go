package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homestead.yaml")
	doc := `
starting_balance: 1000
water_duration: 2m
crops:
  wheat:
    seed_cost: 5
    base_reward: 12
    grow_time: 3s
    max_stages: 3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.StartingBalance)
	assert.Equal(t, 2*time.Minute, cfg.WaterDuration)

	// Untouched knobs keep their defaults.
	assert.Equal(t, 10, cfg.AreaSize)
	assert.Equal(t, 100, cfg.BaseAreaCost)

	wheat, ok := cfg.Crop("wheat")
	require.True(t, ok)
	assert.Equal(t, 5, wheat.SeedCost)
	assert.Equal(t, 3*time.Second, wheat.GrowTime)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("area_size: 0\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("crops: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("water_duration: soon\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateCropCatalog(t *testing.T) {
	cfg := Default()
	cfg.Crops = map[string]CropDef{
		"weird": {SeedCost: 1, BaseReward: 1, GrowTime: time.Second, MaxStages: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.Crops = map[string]CropDef{}
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.FertilizerMaxUsage = 0
	assert.Error(t, cfg.Validate())
}
