// Package config holds the tunable simulation constants and the crop catalog.
// Values are fixed for the lifetime of the process; there is no hot reload.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects every tunable knob of the simulation.
type Config struct {
	// AreaSize is the edge length, in tiles, of one purchasable area.
	AreaSize int `yaml:"area_size"`

	// Area unlock pricing: cost = BaseAreaCost + manhattan × AreaDistanceCost.
	BaseAreaCost     int `yaml:"base_area_cost"`
	AreaDistanceCost int `yaml:"area_distance_cost"`

	// StartingBalance seeds the coin ledger on a fresh world and on reset.
	StartingBalance int `yaml:"starting_balance"`

	// LedgerHistoryCap bounds the transaction history; oldest entries are
	// evicted first. The live balance is unaffected by eviction.
	LedgerHistoryCap int `yaml:"ledger_history_cap"`

	// Water enhancement: additive growth bonus while active, wall-clock
	// lifetime after application.
	WaterBonus    float64       `yaml:"water_bonus"`
	WaterDuration time.Duration `yaml:"water_duration"`

	// Fertilizer enhancement: additive growth bonus, consumed per planting.
	FertilizerBonus    float64 `yaml:"fertilizer_bonus"`
	FertilizerMaxUsage int     `yaml:"fertilizer_max_usage"`

	// Harvest multipliers.
	ImmatureHarvestFactor  float64 `yaml:"immature_harvest_factor"`
	WaterHarvestBonus      float64 `yaml:"water_harvest_bonus"`
	FertilizerHarvestBonus float64 `yaml:"fertilizer_harvest_bonus"`

	// Crops maps crop identifiers to their catalog entries.
	Crops map[string]CropDef `yaml:"crops"`
}

// CropDef describes one plantable crop type.
type CropDef struct {
	SeedCost   int           `yaml:"seed_cost"`
	BaseReward int           `yaml:"base_reward"`
	GrowTime   time.Duration `yaml:"grow_time"`
	MaxStages  int           `yaml:"max_stages"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AreaSize:         10,
		BaseAreaCost:     100,
		AreaDistanceCost: 50,
		StartingBalance:  500,
		LedgerHistoryCap: 1000,

		WaterBonus:    0.5,
		WaterDuration: 60 * time.Second,

		FertilizerBonus:    1.0,
		FertilizerMaxUsage: 3,

		ImmatureHarvestFactor:  0.5,
		WaterHarvestBonus:      0.10,
		FertilizerHarvestBonus: 0.20,

		Crops: map[string]CropDef{
			"wheat":  {SeedCost: 10, BaseReward: 20, GrowTime: 5 * time.Second, MaxStages: 3},
			"corn":   {SeedCost: 25, BaseReward: 55, GrowTime: 10 * time.Second, MaxStages: 4},
			"carrot": {SeedCost: 15, BaseReward: 32, GrowTime: 7 * time.Second, MaxStages: 3},
			"potato": {SeedCost: 30, BaseReward: 70, GrowTime: 15 * time.Second, MaxStages: 4},
			"tomato": {SeedCost: 50, BaseReward: 120, GrowTime: 20 * time.Second, MaxStages: 5},
		},
	}
}

// UnmarshalYAML layers the document over the receiver: absent keys keep
// their current values. Durations are written as Go duration strings
// ("90s", "2m").
func (c *Config) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		AreaSize         *int `yaml:"area_size"`
		BaseAreaCost     *int `yaml:"base_area_cost"`
		AreaDistanceCost *int `yaml:"area_distance_cost"`
		StartingBalance  *int `yaml:"starting_balance"`
		LedgerHistoryCap *int `yaml:"ledger_history_cap"`

		WaterBonus    *float64 `yaml:"water_bonus"`
		WaterDuration *string  `yaml:"water_duration"`

		FertilizerBonus    *float64 `yaml:"fertilizer_bonus"`
		FertilizerMaxUsage *int     `yaml:"fertilizer_max_usage"`

		ImmatureHarvestFactor  *float64 `yaml:"immature_harvest_factor"`
		WaterHarvestBonus      *float64 `yaml:"water_harvest_bonus"`
		FertilizerHarvestBonus *float64 `yaml:"fertilizer_harvest_bonus"`

		Crops map[string]CropDef `yaml:"crops"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}

	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt(&c.AreaSize, raw.AreaSize)
	setInt(&c.BaseAreaCost, raw.BaseAreaCost)
	setInt(&c.AreaDistanceCost, raw.AreaDistanceCost)
	setInt(&c.StartingBalance, raw.StartingBalance)
	setInt(&c.LedgerHistoryCap, raw.LedgerHistoryCap)
	setFloat(&c.WaterBonus, raw.WaterBonus)
	setFloat(&c.FertilizerBonus, raw.FertilizerBonus)
	setInt(&c.FertilizerMaxUsage, raw.FertilizerMaxUsage)
	setFloat(&c.ImmatureHarvestFactor, raw.ImmatureHarvestFactor)
	setFloat(&c.WaterHarvestBonus, raw.WaterHarvestBonus)
	setFloat(&c.FertilizerHarvestBonus, raw.FertilizerHarvestBonus)

	if raw.WaterDuration != nil {
		d, err := time.ParseDuration(*raw.WaterDuration)
		if err != nil {
			return fmt.Errorf("water_duration: %w", err)
		}
		c.WaterDuration = d
	}

	if c.Crops == nil {
		c.Crops = map[string]CropDef{}
	}
	for name, def := range raw.Crops {
		c.Crops[name] = def
	}
	return nil
}

// UnmarshalYAML decodes one crop catalog entry.
func (d *CropDef) UnmarshalYAML(n *yaml.Node) error {
	var raw struct {
		SeedCost   int    `yaml:"seed_cost"`
		BaseReward int    `yaml:"base_reward"`
		GrowTime   string `yaml:"grow_time"`
		MaxStages  int    `yaml:"max_stages"`
	}
	if err := n.Decode(&raw); err != nil {
		return err
	}
	gt, err := time.ParseDuration(raw.GrowTime)
	if err != nil {
		return fmt.Errorf("grow_time: %w", err)
	}
	*d = CropDef{
		SeedCost:   raw.SeedCost,
		BaseReward: raw.BaseReward,
		GrowTime:   gt,
		MaxStages:  raw.MaxStages,
	}
	return nil
}

// Load reads a YAML config file layered over the defaults. A missing file is
// not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engines cannot run with.
func (c Config) Validate() error {
	if c.AreaSize < 1 {
		return fmt.Errorf("area_size must be >= 1, got %d", c.AreaSize)
	}
	if c.StartingBalance < 0 {
		return fmt.Errorf("starting_balance must be >= 0, got %d", c.StartingBalance)
	}
	if c.LedgerHistoryCap < 1 {
		return fmt.Errorf("ledger_history_cap must be >= 1, got %d", c.LedgerHistoryCap)
	}
	if c.WaterDuration <= 0 {
		return fmt.Errorf("water_duration must be positive, got %s", c.WaterDuration)
	}
	if c.FertilizerMaxUsage < 1 {
		return fmt.Errorf("fertilizer_max_usage must be >= 1, got %d", c.FertilizerMaxUsage)
	}
	if len(c.Crops) == 0 {
		return fmt.Errorf("crop catalog is empty")
	}
	for name, def := range c.Crops {
		if def.MaxStages < 2 {
			return fmt.Errorf("crop %q: max_stages must be >= 2, got %d", name, def.MaxStages)
		}
		if def.GrowTime <= 0 {
			return fmt.Errorf("crop %q: grow_time must be positive, got %s", name, def.GrowTime)
		}
		if def.SeedCost < 0 || def.BaseReward < 0 {
			return fmt.Errorf("crop %q: seed_cost and base_reward must be >= 0", name)
		}
	}
	return nil
}

// Crop looks up a catalog entry by crop identifier.
func (c Config) Crop(name string) (CropDef, bool) {
	def, ok := c.Crops[name]
	return def, ok
}
