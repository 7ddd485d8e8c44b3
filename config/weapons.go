package config

// WeaponsConfig aggregates the per-weapon tuning blocks
type WeaponsConfig struct {
	Projectile ProjectileConfig `yaml:"projectile"`
	Melee      MeleeConfig      `yaml:"melee"`
	Drone      DroneConfig      `yaml:"drone"`
	Beam       BeamConfig       `yaml:"beam"`
	Strike     StrikeConfig     `yaml:"strike"`
	Push       PushConfig       `yaml:"push"`
}

// ProjectileConfig tunes the auto-aim cannon
type ProjectileConfig struct {
	BaseDamage float64 `yaml:"base_damage"`
	CooldownMs int     `yaml:"cooldown_ms"`

	// Speed is projectile travel speed in world units per second
	Speed float64 `yaml:"speed"`

	// BaseCount projectiles per volley; upgrades add more
	BaseCount int `yaml:"base_count"`

	// SpreadRadians fans extra projectiles around the aim direction
	SpreadRadians float64 `yaml:"spread_radians"`

	// LifetimeMs culls projectiles that never hit
	LifetimeMs int `yaml:"lifetime_ms"`

	Knockback float64 `yaml:"knockback"`
}

// MeleeConfig tunes the melee sweep
type MeleeConfig struct {
	BaseDamage float64 `yaml:"base_damage"`
	CooldownMs int     `yaml:"cooldown_ms"`

	// Range is the sweep reach from the player
	Range float64 `yaml:"range"`

	// ArcRadians is the angular width of the sweep, centered on facing
	ArcRadians float64 `yaml:"arc_radians"`

	// SweepDurationMs is how long one swing stays live; enemies hit during
	// a swing enter its exclusion set until the swing ends
	SweepDurationMs int `yaml:"sweep_duration_ms"`

	Knockback float64 `yaml:"knockback"`
}

// DroneConfig tunes the orbiting drones
type DroneConfig struct {
	BaseDamage float64 `yaml:"base_damage"`

	// BaseCount drones orbit at evenly spaced angles
	BaseCount int `yaml:"base_count"`

	OrbitRadius float64 `yaml:"orbit_radius"`

	// AngularSpeed in radians per second
	AngularSpeed float64 `yaml:"angular_speed"`

	// HitRadius is each drone's contact radius
	HitRadius float64 `yaml:"hit_radius"`

	Knockback float64 `yaml:"knockback"`
}

// BeamConfig tunes the beam laser
type BeamConfig struct {
	BaseDamage float64 `yaml:"base_damage"`
	CooldownMs int     `yaml:"cooldown_ms"`

	// DurationMs is how long a fired beam persists
	DurationMs int `yaml:"duration_ms"`

	// TickIntervalMs is the damage sub-interval; per-enemy re-hits are
	// additionally blocked for half of it
	TickIntervalMs int `yaml:"tick_interval_ms"`

	// Length caps the beam segment; beyond-target overshoot uses this too
	Length float64 `yaml:"length"`

	// Knockback applied on each damage tick
	Knockback float64 `yaml:"knockback"`
}

// StrikeConfig tunes the airstrike
type StrikeConfig struct {
	BaseDamage float64 `yaml:"base_damage"`
	IntervalMs int     `yaml:"interval_ms"`

	// Radius is the flat impact circle (boundary inclusive)
	Radius float64 `yaml:"radius"`

	// TravelMsPerUnit converts target distance to shell flight time
	TravelMsPerUnit float64 `yaml:"travel_ms_per_unit"`

	Knockback float64 `yaml:"knockback"`
}

// PushConfig tunes the radial force push
type PushConfig struct {
	BaseDamage float64 `yaml:"base_damage"`
	CooldownMs int     `yaml:"cooldown_ms"`
	Radius     float64 `yaml:"radius"`
	Knockback  float64 `yaml:"knockback"`
}

// DefaultWeapons returns the shipped weapon tuning
func DefaultWeapons() WeaponsConfig {
	return WeaponsConfig{
		Projectile: ProjectileConfig{
			BaseDamage:    12,
			CooldownMs:    900,
			Speed:         320,
			BaseCount:     1,
			SpreadRadians: 0.18,
			LifetimeMs:    1800,
			Knockback:     20,
		},
		Melee: MeleeConfig{
			BaseDamage:      18,
			CooldownMs:      1400,
			Range:           70,
			ArcRadians:      2.4,
			SweepDurationMs: 250,
			Knockback:       55,
		},
		Drone: DroneConfig{
			BaseDamage:   10,
			BaseCount:    2,
			OrbitRadius:  85,
			AngularSpeed: 2.6,
			HitRadius:    16,
			Knockback:    15,
		},
		Beam: BeamConfig{
			BaseDamage:     6,
			CooldownMs:     5000,
			DurationMs:     1600,
			TickIntervalMs: 200,
			Length:         900,
			Knockback:      8,
		},
		Strike: StrikeConfig{
			BaseDamage:      45,
			IntervalMs:      4500,
			Radius:          90,
			TravelMsPerUnit: 1.2,
			Knockback:       35,
		},
		Push: PushConfig{
			BaseDamage: 5,
			CooldownMs: 6000,
			Radius:     140,
			Knockback:  120,
		},
	}
}
