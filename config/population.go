package config

// SubtypeConfig scales one enemy variant within a population
type SubtypeConfig struct {
	HealthMult  float64 `yaml:"health_mult"`
	SpeedMult   float64 `yaml:"speed_mult"`
	HitboxScale float64 `yaml:"hitbox_scale"`

	// UnlockLevel gates the subtype out of the spawn roll below this
	// player level
	UnlockLevel int `yaml:"unlock_level"`
}

// DropConfig holds the death drop rolls for a population
type DropConfig struct {
	// ExperienceOrbCount orbs always drop on a kill
	ExperienceOrbCount int `yaml:"experience_orb_count"`

	// RelicChance/HealthChance are independent Bernoulli rolls
	RelicChance  float64 `yaml:"relic_chance"`
	HealthChance float64 `yaml:"health_chance"`
}

// PopulationConfig is the static per-kind tuning block
type PopulationConfig struct {
	// MaxActive caps live enemies; it is also the pool capacity
	MaxActive int `yaml:"max_active"`

	// BaseSpawnIntervalMs is the unscaled gap between spawns
	BaseSpawnIntervalMs int `yaml:"base_spawn_interval_ms"`

	// MinSpawnIntervalMs is the hard floor after all scaling
	MinSpawnIntervalMs int `yaml:"min_spawn_interval_ms"`

	// MinPlayerLevel gates spawning entirely; the scheduler still ticks
	// below it but produces nothing
	MinPlayerLevel int `yaml:"min_player_level"`

	// SpawnPadding offsets spawn zones outward from the viewport edge
	SpawnPadding float64 `yaml:"spawn_padding"`

	BaseHealth float64 `yaml:"base_health"`
	BaseDamage float64 `yaml:"base_damage"`
	BaseSpeed  float64 `yaml:"base_speed"` // World units per second

	// HitboxRadius is the base collision radius, scaled per subtype
	HitboxRadius float64 `yaml:"hitbox_radius"`

	// KnockbackForce caps the displacement a weapon's knockback can move
	// this kind per hit; zero makes the kind immune
	KnockbackForce      float64 `yaml:"knockback_force"`
	KnockbackDurationMs int     `yaml:"knockback_duration_ms"`

	// OffscreenGraceMs releases the enemy back to the pool after being
	// continuously outside the visible rect this long. Deliberately a raw
	// per-population constant: basic and formation despawn almost
	// immediately, elite lingers two full seconds.
	OffscreenGraceMs int `yaml:"offscreen_grace_ms"`

	Drops DropConfig `yaml:"drops"`

	Subtypes map[string]SubtypeConfig `yaml:"subtypes"`

	// Level scaling (basic population): interval multiplier
	// max(MinReductionFactor, 1 - (level-1)*ReductionPerLevel).
	// The shipped MinReductionFactor of 1 makes the level term inert;
	// kept at its literal tuned value.
	MinReductionFactor float64 `yaml:"min_reduction_factor"`
	ReductionPerLevel  float64 `yaml:"reduction_per_level"`

	// Time scaling (basic population): interval multiplier
	// max(0.1, 1 - min(minutes*ReductionPerMinute, MaxTimeReduction))
	ReductionPerMinute float64 `yaml:"reduction_per_minute"`
	MaxTimeReduction   float64 `yaml:"max_time_reduction"`

	// Elite behavior: approach until ShootingRange, hold position and
	// fire for ShootingDurationMs, then approach again
	ShootingRange      float64 `yaml:"shooting_range"`
	ShotCooldownMs     int     `yaml:"shot_cooldown_ms"`
	ShootingDurationMs int     `yaml:"shooting_duration_ms"`
	ProjectileSpeed    float64 `yaml:"projectile_speed"`

	// Walker beam cycle: Approaching until TriggerRange, Aiming for
	// AimingDurationMs (telegraph, no damage), then Firing for the
	// remainder of LaserTotalDurationMs with a damage tick every
	// LaserDamageTickMs while the player intersects the beam
	TriggerRange         float64 `yaml:"trigger_range"`
	AimingDurationMs     int     `yaml:"aiming_duration_ms"`
	LaserTotalDurationMs int     `yaml:"laser_total_duration_ms"`
	LaserDamageTickMs    int     `yaml:"laser_damage_tick_ms"`
	LaserRange           float64 `yaml:"laser_range"`
	LaserWidth           float64 `yaml:"laser_width"`

	// FormationSize is how many wingmates spawn per scheduler request
	FormationSize int `yaml:"formation_size"`
	// FormationSpacing is the gap between wingmates in the V
	FormationSpacing float64 `yaml:"formation_spacing"`
}

// DefaultBasic returns the basic hover-mech population tuning
func DefaultBasic() PopulationConfig {
	return PopulationConfig{
		MaxActive:           120,
		BaseSpawnIntervalMs: 2000,
		MinSpawnIntervalMs:  150,
		MinPlayerLevel:      1,
		SpawnPadding:        60,
		BaseHealth:          30,
		BaseDamage:          8,
		BaseSpeed:           55,
		HitboxRadius:        14,
		KnockbackForce:      40,
		KnockbackDurationMs: 180,
		OffscreenGraceMs:    50,
		Drops: DropConfig{
			ExperienceOrbCount: 1,
			RelicChance:        0.01,
			HealthChance:       0.02,
		},
		Subtypes: map[string]SubtypeConfig{
			"hover":   {HealthMult: 1.0, SpeedMult: 1.0, HitboxScale: 1.0, UnlockLevel: 1},
			"crawler": {HealthMult: 1.6, SpeedMult: 0.8, HitboxScale: 1.2, UnlockLevel: 3},
			"blade":   {HealthMult: 0.7, SpeedMult: 1.5, HitboxScale: 0.8, UnlockLevel: 5},
		},
		MinReductionFactor: 1.0, // Literal tuned value; disables the level term
		ReductionPerLevel:  0.5,
		ReductionPerMinute: 0.08,
		MaxTimeReduction:   0.6,
	}
}

// DefaultElite returns the stationary-shooting AT unit tuning
func DefaultElite() PopulationConfig {
	return PopulationConfig{
		MaxActive:           12,
		BaseSpawnIntervalMs: 9000,
		MinSpawnIntervalMs:  3000,
		MinPlayerLevel:      7,
		SpawnPadding:        80,
		BaseHealth:          220,
		BaseDamage:          15,
		BaseSpeed:           35,
		HitboxRadius:        22,
		KnockbackForce:      15,
		KnockbackDurationMs: 120,
		OffscreenGraceMs:    2000,
		Drops: DropConfig{
			ExperienceOrbCount: 3,
			RelicChance:        0.15,
			HealthChance:       0.10,
		},
		Subtypes: map[string]SubtypeConfig{
			"at":     {HealthMult: 1.0, SpeedMult: 1.0, HitboxScale: 1.0, UnlockLevel: 7},
			"at-mk2": {HealthMult: 1.8, SpeedMult: 0.9, HitboxScale: 1.15, UnlockLevel: 12},
		},
		ShootingRange:      260,
		ShotCooldownMs:     1100,
		ShootingDurationMs: 3500,
		ProjectileSpeed:    180,
	}
}

// DefaultFormation returns the T-fighter wing tuning
func DefaultFormation() PopulationConfig {
	return PopulationConfig{
		MaxActive:           45,
		BaseSpawnIntervalMs: 7000,
		MinSpawnIntervalMs:  2500,
		MinPlayerLevel:      4,
		SpawnPadding:        70,
		BaseHealth:          18,
		BaseDamage:          6,
		BaseSpeed:           95,
		HitboxRadius:        12,
		KnockbackForce:      25,
		KnockbackDurationMs: 140,
		OffscreenGraceMs:    50,
		Drops: DropConfig{
			ExperienceOrbCount: 1,
			RelicChance:        0.02,
			HealthChance:       0.02,
		},
		Subtypes: map[string]SubtypeConfig{
			"tfighter": {HealthMult: 1.0, SpeedMult: 1.0, HitboxScale: 1.0, UnlockLevel: 4},
		},
		FormationSize:    5,
		FormationSpacing: 26,
	}
}

// DefaultWalker returns the laser walker tuning
func DefaultWalker() PopulationConfig {
	return PopulationConfig{
		MaxActive:           8,
		BaseSpawnIntervalMs: 14000,
		MinSpawnIntervalMs:  5000,
		MinPlayerLevel:      10,
		SpawnPadding:        90,
		BaseHealth:          400,
		BaseDamage:          4, // Per beam damage tick
		BaseSpeed:           28,
		HitboxRadius:        26,
		KnockbackForce:      0, // Too heavy to displace
		KnockbackDurationMs: 0,
		OffscreenGraceMs:    1500,
		Drops: DropConfig{
			ExperienceOrbCount: 5,
			RelicChance:        0.25,
			HealthChance:       0.15,
		},
		Subtypes: map[string]SubtypeConfig{
			"steppercannon": {HealthMult: 1.0, SpeedMult: 1.0, HitboxScale: 1.0, UnlockLevel: 10},
		},
		TriggerRange:         340,
		AimingDurationMs:     1200,
		LaserTotalDurationMs: 3200,
		LaserDamageTickMs:    250,
		LaserRange:           520,
		LaserWidth:           18,
	}
}
