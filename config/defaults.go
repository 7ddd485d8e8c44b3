package config

// CollectionConfig tunes pickups and experience flow
type CollectionConfig struct {
	// OrbXP is experience granted per orb
	OrbXP int `yaml:"orb_xp"`

	// OrbDriftSpeed is orb homing speed inside the magnet radius
	OrbDriftSpeed float64 `yaml:"orb_drift_speed"`

	// OrbLifetimeMs culls uncollected orbs
	OrbLifetimeMs int `yaml:"orb_lifetime_ms"`

	// HealthPickupAmount restored per health pickup
	HealthPickupAmount float64 `yaml:"health_pickup_amount"`

	// MaxPickups caps live pickups; also the pickup pool capacity
	MaxPickups int `yaml:"max_pickups"`
}

// Default returns the full compiled-in tuning tree
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			ViewWidth:        960,
			ViewHeight:       540,
			VisibilityBuffer: 100,
		},
		Player: PlayerConfig{
			MoveSpeed:      140,
			MaxHealth:      100,
			CritChance:     0.08,
			CritMultiplier: 2.0,
			MagnetRadius:   60,
			BaseXPToLevel:  10,
			XPGrowth:       1.35,
			WeaponUnlockLevels: map[int]string{
				2:  "melee",
				4:  "drone",
				6:  "beam",
				8:  "strike",
				11: "push",
			},
		},
		Waves:     DefaultWaves(),
		Basic:     DefaultBasic(),
		Elite:     DefaultElite(),
		Formation: DefaultFormation(),
		Walker:    DefaultWalker(),
		Weapons:   DefaultWeapons(),
		Collection: CollectionConfig{
			OrbXP:              2,
			OrbDriftSpeed:      220,
			OrbLifetimeMs:      20000,
			HealthPickupAmount: 25,
			MaxPickups:         256,
		},
	}
}
