package systems

import (
	"math"
	"sort"
	"time"

	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// WavePhase is the basic population's spawn intensity phase
type WavePhase uint8

const (
	// PhasePre runs from construction until the wave start delay passes;
	// spawning continues at the plain computed interval
	PhasePre WavePhase = iota
	PhaseWave
	PhaseLull
)

// SpawnRequest asks the owning population for one enemy
type SpawnRequest struct {
	Position vmath.Vec2
	Subtype  string
}

type pendingSpawn struct {
	dueAt time.Time
	pos   vmath.Vec2
}

type subtypeEntry struct {
	name        string
	unlockLevel int
}

// SpawnScheduler decides when and where the next enemy of one population
// appears. The wave/lull cycle only exists for the population constructed
// with a non-nil WaveConfig; the others use the level-gated interval alone.
//
// The scheduler never touches the pool: it emits requests and the owning
// population decides whether capacity allows the spawn. A skipped spawn is
// not retried early; the next scheduled tick tries again.
type SpawnScheduler struct {
	pop   config.PopulationConfig
	waves *config.WaveConfig // nil for non-wave populations
	rng   *vmath.FastRand

	subtypes []subtypeEntry // Sorted for deterministic rolls

	initialized     bool
	nextSpawnAt     time.Time
	currentInterval time.Duration

	// Recompute triggers
	lastLevel  int
	lastMinute int

	// Wave cycle state
	phase       WavePhase
	waveNumber  int
	phaseEndsAt time.Time
	waveStartAt time.Time
	burstTimes  []time.Time

	pending []pendingSpawn // Staggered burst spawns not yet due
}

// NewSpawnScheduler creates a scheduler. waves must be non-nil only for
// the wave-cycling basic population.
func NewSpawnScheduler(pop config.PopulationConfig, waves *config.WaveConfig, rng *vmath.FastRand) *SpawnScheduler {
	s := &SpawnScheduler{
		pop:        pop,
		waves:      waves,
		rng:        rng,
		phase:      PhasePre,
		waveNumber: 1,
		lastLevel:  -1,
		lastMinute: -1,
	}
	for name, sub := range pop.Subtypes {
		s.subtypes = append(s.subtypes, subtypeEntry{name: name, unlockLevel: sub.UnlockLevel})
	}
	sort.Slice(s.subtypes, func(i, j int) bool {
		return s.subtypes[i].name < s.subtypes[j].name
	})
	return s
}

// WaveNumber returns the current wave cycle count (starts at 1)
func (s *SpawnScheduler) WaveNumber() int {
	return s.waveNumber
}

// Phase returns the current wave phase
func (s *SpawnScheduler) Phase() WavePhase {
	return s.phase
}

// Interval returns the current spawn interval
func (s *SpawnScheduler) Interval() time.Duration {
	return s.currentInterval
}

// OnLevelUp forces an interval recompute at the next Update
func (s *SpawnScheduler) OnLevelUp() {
	s.lastLevel = -1
}

// Update advances the scheduler to now and emits any due spawn requests.
// view is the camera's visible rect, recomputed fresh by the caller so
// placement tracks camera movement.
func (s *SpawnScheduler) Update(now time.Time, elapsed time.Duration, level int, view vmath.Rect, emit func(SpawnRequest)) {
	if !s.initialized {
		s.initialize(now, elapsed, level)
	}

	s.advanceWaveCycle(now, elapsed, level)

	// Recompute on level-up and on minute boundaries. Minute detection
	// compares floor(elapsed/1m) across ticks instead of running a
	// dedicated timer, so it cannot drift.
	minute := int(elapsed / time.Minute)
	if level != s.lastLevel || minute != s.lastMinute {
		s.lastLevel = level
		s.lastMinute = minute
		s.currentInterval = s.computeInterval(level, elapsed)
	}

	s.emitDueBurstSpawns(now, level, view, emit)

	for !now.Before(s.nextSpawnAt) {
		if s.canSpawn(level) {
			emit(SpawnRequest{
				Position: s.spawnPosition(view),
				Subtype:  s.rollSubtype(level),
			})
		}
		// Advance even when gated or skipped: below the level gate the
		// scheduler keeps ticking so the first eligible tick spawns
		s.nextSpawnAt = s.nextSpawnAt.Add(s.currentInterval)
	}
}

func (s *SpawnScheduler) initialize(now time.Time, elapsed time.Duration, level int) {
	s.initialized = true
	s.lastLevel = level
	s.lastMinute = int(elapsed / time.Minute)
	s.currentInterval = s.computeInterval(level, elapsed)
	s.nextSpawnAt = now.Add(s.currentInterval)
	if s.waves != nil {
		s.phaseEndsAt = now.Add(time.Duration(s.waves.StartDelayMs) * time.Millisecond)
	}
}

func (s *SpawnScheduler) canSpawn(level int) bool {
	return level >= s.pop.MinPlayerLevel
}

// computeInterval applies the population's scaling formula and clamps to
// the configured floor, preventing a degenerate spawn storm
func (s *SpawnScheduler) computeInterval(level int, elapsed time.Duration) time.Duration {
	base := float64(s.pop.BaseSpawnIntervalMs)

	var interval float64
	if s.waves != nil {
		levelFactor := math.Max(s.pop.MinReductionFactor, 1-float64(level-1)*s.pop.ReductionPerLevel)

		minutes := float64(int(elapsed / time.Minute))
		timeFactor := math.Max(0.1, 1-math.Min(minutes*s.pop.ReductionPerMinute, s.pop.MaxTimeReduction))

		phaseFactor := 1.0
		if s.phase == PhaseLull {
			phaseFactor = 1 / s.waves.LullSpawnMultiplier
		}

		interval = base * levelFactor * timeFactor * phaseFactor
	} else {
		// Level-scaled only: no time decay, no wave cycle
		interval = base * math.Max(0.3, 1-float64(level-1)*0.25)
	}

	if floor := float64(s.pop.MinSpawnIntervalMs); interval < floor {
		interval = floor
	}
	return time.Duration(interval) * time.Millisecond
}

// waveDuration returns max(min, base * scaling^(n-1)) in game time
func (s *SpawnScheduler) waveDuration(n int) time.Duration {
	return decayedDuration(s.waves.BaseWaveDurationMs, s.waves.MinWaveDurationMs, s.waves.IntensityScaling, n)
}

// lullDuration uses the same decay-with-floor formula over the lull constants
func (s *SpawnScheduler) lullDuration(n int) time.Duration {
	return decayedDuration(s.waves.BaseLullDurationMs, s.waves.MinLullDurationMs, s.waves.IntensityScaling, n)
}

func decayedDuration(baseMs, minMs int, scaling float64, n int) time.Duration {
	d := float64(baseMs) * math.Pow(scaling, float64(n-1))
	if floor := float64(minMs); d < floor {
		d = floor
	}
	return time.Duration(d) * time.Millisecond
}

func (s *SpawnScheduler) advanceWaveCycle(now time.Time, elapsed time.Duration, level int) {
	if s.waves == nil {
		return
	}

	switch s.phase {
	case PhasePre:
		if !now.Before(s.phaseEndsAt) {
			s.enterWave(now, elapsed, level)
		}
	case PhaseWave:
		if !now.Before(s.phaseEndsAt) {
			// Wave -> Lull: slow down, schedule the next wave, count
			// the completed cycle
			lull := s.lullDuration(s.waveNumber)
			s.waveNumber++
			s.phase = PhaseLull
			s.phaseEndsAt = now.Add(lull)
			s.burstTimes = s.burstTimes[:0]
			s.currentInterval = s.computeInterval(level, elapsed)
		}
	case PhaseLull:
		if !now.Before(s.phaseEndsAt) {
			s.enterWave(now, elapsed, level)
		}
	}
}

func (s *SpawnScheduler) enterWave(now time.Time, elapsed time.Duration, level int) {
	s.phase = PhaseWave
	s.waveStartAt = now
	dur := s.waveDuration(s.waveNumber)
	s.phaseEndsAt = now.Add(dur)
	s.currentInterval = s.computeInterval(level, elapsed)

	// Burst batches spaced evenly through the wave
	s.burstTimes = s.burstTimes[:0]
	n := s.waves.BurstBatches
	for i := 1; i <= n; i++ {
		s.burstTimes = append(s.burstTimes, now.Add(dur*time.Duration(i)/time.Duration(n+1)))
	}
}

func (s *SpawnScheduler) emitDueBurstSpawns(now time.Time, level int, view vmath.Rect, emit func(SpawnRequest)) {
	// Fire due batches: each expands into staggered individual spawns
	for len(s.burstTimes) > 0 && !now.Before(s.burstTimes[0]) {
		s.burstTimes = s.burstTimes[1:]
		s.queueBurst(now, view)
	}

	// Emit individual burst spawns as their stagger comes due
	kept := s.pending[:0]
	for _, p := range s.pending {
		if now.Before(p.dueAt) {
			kept = append(kept, p)
			continue
		}
		if s.canSpawn(level) {
			emit(SpawnRequest{Position: p.pos, Subtype: s.rollSubtype(level)})
		}
	}
	s.pending = kept
}

// queueBurst clusters one batch around a fresh edge position resolved at
// fire time, so the cluster lands just outside the current viewport
func (s *SpawnScheduler) queueBurst(now time.Time, view vmath.Rect) {
	count := s.waves.BurstBaseCount + s.waveNumber/2
	if count > s.waves.BurstMaxCount {
		count = s.waves.BurstMaxCount
	}

	center := s.spawnPosition(view)
	stagger := time.Duration(s.waves.BurstStaggerMs) * time.Millisecond
	for i := 0; i < count; i++ {
		offset := vmath.Vec2{
			X: s.rng.Range(-s.waves.BurstClusterRadius, s.waves.BurstClusterRadius),
			Y: s.rng.Range(-s.waves.BurstClusterRadius, s.waves.BurstClusterRadius),
		}
		s.pending = append(s.pending, pendingSpawn{
			dueAt: now.Add(time.Duration(i) * stagger),
			pos:   center.Add(offset),
		})
	}
}

// spawnPosition picks one of four edge zones just outside the viewport,
// randomized along the perpendicular axis. Zones are derived from the
// passed rect on every call so they track the camera.
func (s *SpawnScheduler) spawnPosition(view vmath.Rect) vmath.Vec2 {
	pad := s.pop.SpawnPadding
	switch s.rng.Intn(4) {
	case 0: // Left edge
		return vmath.Vec2{X: view.X - pad, Y: s.rng.Range(view.Y-pad, view.Y+view.Height+pad)}
	case 1: // Right edge
		return vmath.Vec2{X: view.X + view.Width + pad, Y: s.rng.Range(view.Y-pad, view.Y+view.Height+pad)}
	case 2: // Top edge
		return vmath.Vec2{X: s.rng.Range(view.X-pad, view.X+view.Width+pad), Y: view.Y - pad}
	default: // Bottom edge
		return vmath.Vec2{X: s.rng.Range(view.X-pad, view.X+view.Width+pad), Y: view.Y + view.Height + pad}
	}
}

// rollSubtype picks uniformly among subtypes unlocked at the given level
func (s *SpawnScheduler) rollSubtype(level int) string {
	unlocked := make([]string, 0, len(s.subtypes))
	for _, sub := range s.subtypes {
		if level >= sub.unlockLevel {
			unlocked = append(unlocked, sub.name)
		}
	}
	if len(unlocked) == 0 {
		if len(s.subtypes) > 0 {
			return s.subtypes[0].name
		}
		return ""
	}
	return unlocked[s.rng.Intn(len(unlocked))]
}
