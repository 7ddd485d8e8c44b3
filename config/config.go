package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full immutable tunables tree, built once at startup and
// injected into each system. Systems never reach for a shared global.
type Config struct {
	Camera     CameraConfig     `yaml:"camera"`
	Player     PlayerConfig     `yaml:"player"`
	Waves      WaveConfig       `yaml:"waves"`
	Basic      PopulationConfig `yaml:"basic"`
	Elite      PopulationConfig `yaml:"elite"`
	Formation  PopulationConfig `yaml:"formation"`
	Walker     PopulationConfig `yaml:"walker"`
	Weapons    WeaponsConfig    `yaml:"weapons"`
	Collection CollectionConfig `yaml:"collection"`
}

// CameraConfig sizes the viewport in world units
type CameraConfig struct {
	// ViewWidth/ViewHeight are the visible world rectangle dimensions
	ViewWidth  float64 `yaml:"view_width"`
	ViewHeight float64 `yaml:"view_height"`

	// VisibilityBuffer pads the visible rect for weapon target queries.
	// Enemies inside the buffered rect are targetable before fully on-screen.
	VisibilityBuffer float64 `yaml:"visibility_buffer"`
}

// PlayerConfig covers movement, survivability, and crit rolls
type PlayerConfig struct {
	MoveSpeed float64 `yaml:"move_speed"` // World units per second
	MaxHealth float64 `yaml:"max_health"`

	// CritChance/CritMultiplier apply to every weapon's damage roll
	CritChance     float64 `yaml:"crit_chance"`
	CritMultiplier float64 `yaml:"crit_multiplier"`

	// MagnetRadius is the orb auto-collect distance
	MagnetRadius float64 `yaml:"magnet_radius"`

	// BaseXPToLevel is the XP needed for level 2; each further level
	// requirement is multiplied by XPGrowth
	BaseXPToLevel int     `yaml:"base_xp_to_level"`
	XPGrowth      float64 `yaml:"xp_growth"`

	// WeaponUnlockLevels maps player level to the weapon activated on
	// reaching it. The starting weapon is unlocked at construction.
	WeaponUnlockLevels map[int]string `yaml:"weapon_unlock_levels"`
}

// Load returns the compiled-in defaults, overridden by the YAML file at
// path when path is non-empty. Unknown keys in the file are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that would degenerate into spawn storms or
// divide-by-zero scaling
func (c *Config) Validate() error {
	for _, p := range []struct {
		name string
		cfg  *PopulationConfig
	}{
		{"basic", &c.Basic},
		{"elite", &c.Elite},
		{"formation", &c.Formation},
		{"walker", &c.Walker},
	} {
		if p.cfg.MaxActive <= 0 {
			return fmt.Errorf("%s: max_active must be positive", p.name)
		}
		if p.cfg.MinSpawnIntervalMs <= 0 {
			return fmt.Errorf("%s: min_spawn_interval_ms must be positive", p.name)
		}
		if p.cfg.BaseSpawnIntervalMs < p.cfg.MinSpawnIntervalMs {
			return fmt.Errorf("%s: base interval below minimum", p.name)
		}
	}
	if c.Waves.LullSpawnMultiplier <= 0 {
		return fmt.Errorf("waves: lull_spawn_multiplier must be positive")
	}
	if c.Waves.IntensityScaling <= 0 || c.Waves.IntensityScaling > 1 {
		return fmt.Errorf("waves: intensity_scaling must be in (0,1]")
	}
	if c.Player.XPGrowth < 1 {
		return fmt.Errorf("player: xp_growth must be >= 1")
	}
	return nil
}
