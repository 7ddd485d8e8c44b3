package config

// WaveConfig drives the basic population's wave/lull cycle.
// Durations decay geometrically per cycle and floor-clamp, so late runs
// alternate short, dense waves with brief breathers.
type WaveConfig struct {
	// StartDelayMs before the first Wave phase begins. Until then the
	// basic population spawns at its plain unmodulated interval.
	StartDelayMs int `yaml:"start_delay_ms"`

	BaseWaveDurationMs int `yaml:"base_wave_duration_ms"`
	MinWaveDurationMs  int `yaml:"min_wave_duration_ms"`

	BaseLullDurationMs int `yaml:"base_lull_duration_ms"`
	MinLullDurationMs  int `yaml:"min_lull_duration_ms"`

	// IntensityScaling multiplies both durations once per completed cycle:
	// duration(N) = max(min, base * IntensityScaling^(N-1))
	IntensityScaling float64 `yaml:"intensity_scaling"`

	// LullSpawnMultiplier scales the spawn rate during Lull: the interval
	// is divided by it, so 0.33 spawns a third as often as the Wave phase
	LullSpawnMultiplier float64 `yaml:"lull_spawn_multiplier"`

	// BurstBatches burst spawn batches are spaced evenly through each Wave
	BurstBatches int `yaml:"burst_batches"`

	// BurstBaseCount enemies per batch, plus waveNumber/2, capped at
	// BurstMaxCount
	BurstBaseCount int `yaml:"burst_base_count"`
	BurstMaxCount  int `yaml:"burst_max_count"`

	// BurstClusterRadius is the spatial spread of one batch
	BurstClusterRadius float64 `yaml:"burst_cluster_radius"`

	// BurstStaggerMs separates individual spawns within a batch
	BurstStaggerMs int `yaml:"burst_stagger_ms"`
}

// DefaultWaves returns the shipped wave cycle tuning
func DefaultWaves() WaveConfig {
	return WaveConfig{
		StartDelayMs:        15000,
		BaseWaveDurationMs:  30000,
		MinWaveDurationMs:   12000,
		BaseLullDurationMs:  10000,
		MinLullDurationMs:   4000,
		IntensityScaling:    0.9,
		LullSpawnMultiplier: 0.33,
		BurstBatches:        3,
		BurstBaseCount:      4,
		BurstMaxCount:       10,
		BurstClusterRadius:  40,
		BurstStaggerMs:      80,
	}
}
