package systems

import (
	"math"
	"testing"
	"time"

	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

func testView() vmath.Rect {
	return vmath.Rect{X: 0, Y: 0, Width: 960, Height: 540}
}

func newBasicScheduler() *SpawnScheduler {
	waves := config.DefaultWaves()
	return NewSpawnScheduler(config.DefaultBasic(), &waves, vmath.NewFastRand(1))
}

func TestComputeIntervalBaseCase(t *testing.T) {
	s := newBasicScheduler()
	s.phase = PhaseWave

	got := s.computeInterval(1, 0)
	if got != 2000*time.Millisecond {
		t.Errorf("level 1, elapsed 0: interval = %v, want 2s", got)
	}
}

func TestComputeIntervalLevelFactorFloor(t *testing.T) {
	// With min_reduction_factor shipped at 1.0, max(1, 1-2*0.5) = 1,
	// so level 3 leaves the interval unchanged
	s := newBasicScheduler()
	s.phase = PhaseWave

	got := s.computeInterval(3, 0)
	if got != 2000*time.Millisecond {
		t.Errorf("level 3: interval = %v, want 2s", got)
	}
}

func TestComputeIntervalMonotonicInLevel(t *testing.T) {
	cfg := config.DefaultBasic()
	cfg.MinReductionFactor = 0.2
	waves := config.DefaultWaves()
	s := NewSpawnScheduler(cfg, &waves, vmath.NewFastRand(1))
	s.phase = PhaseWave

	prev := s.computeInterval(1, 0)
	for level := 2; level <= 30; level++ {
		cur := s.computeInterval(level, 0)
		if cur > prev {
			t.Fatalf("interval increased from %v to %v at level %d", prev, cur, level)
		}
		prev = cur
	}
}

func TestComputeIntervalMonotonicInTime(t *testing.T) {
	s := newBasicScheduler()
	s.phase = PhaseWave

	prev := s.computeInterval(1, 0)
	for minutes := 1; minutes <= 60; minutes++ {
		cur := s.computeInterval(1, time.Duration(minutes)*time.Minute)
		if cur > prev {
			t.Fatalf("interval increased from %v to %v at minute %d", prev, cur, minutes)
		}
		prev = cur
	}
}

func TestComputeIntervalFloorClamp(t *testing.T) {
	cfg := config.DefaultBasic()
	cfg.MinReductionFactor = 0.0
	cfg.ReductionPerLevel = 0.9
	waves := config.DefaultWaves()
	s := NewSpawnScheduler(cfg, &waves, vmath.NewFastRand(1))
	s.phase = PhaseWave

	got := s.computeInterval(200, 4*time.Hour)
	if got < time.Duration(cfg.MinSpawnIntervalMs)*time.Millisecond {
		t.Errorf("interval %v below floor %dms", got, cfg.MinSpawnIntervalMs)
	}
}

func TestComputeIntervalLullStretch(t *testing.T) {
	s := newBasicScheduler()

	s.phase = PhaseWave
	wave := s.computeInterval(1, 0)
	s.phase = PhaseLull
	lull := s.computeInterval(1, 0)

	want := time.Duration(float64(wave) / config.DefaultWaves().LullSpawnMultiplier)
	if diff := lull - want; diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("lull interval = %v, want ~%v (wave %v)", lull, want, wave)
	}
}

func TestNonWaveIntervalLevelScaling(t *testing.T) {
	cfg := config.DefaultElite()
	s := NewSpawnScheduler(cfg, nil, vmath.NewFastRand(1))

	// max(3000, 9000 * max(0.3, 1 - (level-1)*0.25))
	cases := []struct {
		level int
		want  time.Duration
	}{
		{1, 9000 * time.Millisecond},
		{2, 6750 * time.Millisecond},
		{3, 4500 * time.Millisecond},
		{4, 3000 * time.Millisecond}, // 2250 clamped to floor
		{20, 3000 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := s.computeInterval(tc.level, 0); got != tc.want {
			t.Errorf("level %d: interval = %v, want %v", tc.level, got, tc.want)
		}
	}
}

func TestLevelGateSuppressesSpawnsButKeepsTicking(t *testing.T) {
	cfg := config.DefaultElite() // min_player_level 7
	s := NewSpawnScheduler(cfg, nil, vmath.NewFastRand(1))

	now := time.Unix(0, 0)
	var spawns []SpawnRequest
	emit := func(r SpawnRequest) { spawns = append(spawns, r) }

	// Run a minute below the gate
	for i := 0; i < 60; i++ {
		now = now.Add(time.Second)
		s.Update(now, time.Duration(i)*time.Second, 6, testView(), emit)
	}
	if len(spawns) != 0 {
		t.Fatalf("got %d spawns below min player level", len(spawns))
	}

	// The very next due tick at level 7 spawns without a warm-up delay
	for i := 0; i < 20 && len(spawns) == 0; i++ {
		now = now.Add(time.Second)
		s.Update(now, time.Minute+time.Duration(i)*time.Second, 7, testView(), emit)
	}
	if len(spawns) == 0 {
		t.Fatal("no spawn after crossing min player level")
	}
}

func TestWaveDurationFormula(t *testing.T) {
	waves := config.DefaultWaves()
	s := NewSpawnScheduler(config.DefaultBasic(), &waves, vmath.NewFastRand(1))

	for n := 1; n <= 20; n++ {
		want := math.Max(
			float64(waves.MinWaveDurationMs),
			float64(waves.BaseWaveDurationMs)*math.Pow(waves.IntensityScaling, float64(n-1)),
		)
		got := s.waveDuration(n)
		if got != time.Duration(want)*time.Millisecond {
			t.Errorf("waveDuration(%d) = %v, want %vms", n, got, want)
		}
	}
}

func TestWaveCycleTransitions(t *testing.T) {
	waves := config.DefaultWaves()
	s := NewSpawnScheduler(config.DefaultBasic(), &waves, vmath.NewFastRand(1))

	start := time.Unix(0, 0)
	emit := func(SpawnRequest) {}
	step := 100 * time.Millisecond

	now := start
	var elapsed time.Duration
	tick := func() {
		now = now.Add(step)
		elapsed += step
		s.Update(now, elapsed, 1, testView(), emit)
	}

	tick()
	if s.Phase() != PhasePre {
		t.Fatalf("phase = %v before start delay, want PhasePre", s.Phase())
	}

	// Cross the start delay
	for elapsed <= time.Duration(waves.StartDelayMs)*time.Millisecond {
		tick()
	}
	if s.Phase() != PhaseWave {
		t.Fatalf("phase = %v after start delay, want PhaseWave", s.Phase())
	}
	if s.WaveNumber() != 1 {
		t.Fatalf("waveNumber = %d at first wave, want 1", s.WaveNumber())
	}

	// Ride out wave 1 into the lull
	for s.Phase() == PhaseWave {
		tick()
	}
	if s.Phase() != PhaseLull {
		t.Fatalf("phase = %v after wave, want PhaseLull", s.Phase())
	}
	if s.WaveNumber() != 2 {
		t.Fatalf("waveNumber = %d after first cycle, want 2", s.WaveNumber())
	}

	// And back into wave 2
	for s.Phase() == PhaseLull {
		tick()
	}
	if s.Phase() != PhaseWave {
		t.Fatalf("phase = %v after lull, want PhaseWave", s.Phase())
	}
}

func TestBurstSpawnsclusteredAndCapped(t *testing.T) {
	waves := config.DefaultWaves()
	waves.StartDelayMs = 0
	cfg := config.DefaultBasic()
	cfg.BaseSpawnIntervalMs = 1 << 30 // keep continuous spawns out of the count
	cfg.MinSpawnIntervalMs = 1 << 30
	s := NewSpawnScheduler(cfg, &waves, vmath.NewFastRand(7))
	s.waveNumber = 20 // burst count would be 4 + 10 without the cap

	var spawns []SpawnRequest
	emit := func(r SpawnRequest) { spawns = append(spawns, r) }

	now := time.Unix(0, 0)
	var elapsed time.Duration
	waveLen := s.waveDuration(20)
	for elapsed < waveLen {
		now = now.Add(50 * time.Millisecond)
		elapsed += 50 * time.Millisecond
		s.Update(now, elapsed, 1, testView(), emit)
	}

	want := waves.BurstBatches * waves.BurstMaxCount
	if len(spawns) != want {
		t.Fatalf("got %d burst spawns, want %d (capped)", len(spawns), want)
	}
}

func TestSpawnPositionOutsideView(t *testing.T) {
	s := newBasicScheduler()
	view := testView()

	for i := 0; i < 500; i++ {
		p := s.spawnPosition(view)
		if view.Contains(p) {
			t.Fatalf("spawn position %+v inside view %+v", p, view)
		}
	}
}

func TestRollSubtypeRespectsUnlockLevels(t *testing.T) {
	cfg := config.DefaultBasic()
	s := NewSpawnScheduler(cfg, nil, vmath.NewFastRand(3))

	lockedAtOne := make(map[string]int)
	for name, sub := range cfg.Subtypes {
		if sub.UnlockLevel > 1 {
			lockedAtOne[name] = sub.UnlockLevel
		}
	}
	if len(lockedAtOne) == 0 {
		t.Skip("all basic subtypes unlocked at level 1")
	}

	for i := 0; i < 1000; i++ {
		if got := s.rollSubtype(1); lockedAtOne[got] != 0 {
			t.Fatalf("rolled locked subtype %q at level 1", got)
		}
	}
}
