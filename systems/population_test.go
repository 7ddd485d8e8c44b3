package systems

import (
	"testing"
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// testWorld bundles controllable time with a resource set
type testWorld struct {
	res   *engine.Resources
	mock  *engine.MockTimeProvider
	start time.Time
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	start := time.Unix(1000, 0)
	mock := engine.NewMockTimeProvider(start)
	clock := engine.NewPausableClockWith(mock)
	res := engine.NewResources(config.Default(), clock, 42)
	w := &testWorld{res: res, mock: mock, start: start}
	w.refreshTime(0)
	return w
}

// advance moves game time forward and refreshes the tick snapshot
func (w *testWorld) advance(d time.Duration) {
	w.mock.Advance(d)
	w.refreshTime(d)
}

func (w *testWorld) refreshTime(delta time.Duration) {
	now := w.res.Clock.Now()
	w.res.Time.Update(now, w.mock.Now(), delta, w.res.Clock.Elapsed(), w.res.Time.Frame+1)
}

// drain empties the event queue, returning events of the wanted type
func (w *testWorld) drain(want events.EventType) []events.GameEvent {
	var out []events.GameEvent
	for _, ev := range w.res.Queue.Consume() {
		if ev.Type == want {
			out = append(out, ev)
		}
	}
	return out
}

func TestDamageContractStaleHandleNoOp(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 10, Y: 10}, Subtype: "hover"})
	p.pool.Release(h)

	if killed := p.DamageEnemy(h, 999, 0, false, "test"); killed {
		t.Error("stale handle reported a kill")
	}
	if evs := w.drain(events.EventDamageNumber); len(evs) != 0 {
		t.Errorf("stale handle emitted %d damage numbers", len(evs))
	}
}

func TestDamageContractKillExactlyOnce(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 10, Y: 10}, Subtype: "hover"})
	e, _ := p.pool.Get(h)
	lethal := e.MaxHealth + 1

	if !p.DamageEnemy(h, lethal, 0, false, "blaster") {
		t.Fatal("lethal hit did not report a kill")
	}
	// The handle is stale now; a second lethal hit is a no-op
	if p.DamageEnemy(h, lethal, 0, false, "blaster") {
		t.Fatal("second hit on dead enemy reported a kill")
	}

	if kills := w.drain(events.EventEnemyKilled); len(kills) != 1 {
		t.Errorf("got %d kill events, want 1", len(kills))
	}
}

func TestDamageContractEmitsDamageNumberOnNonLethal(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 10, Y: 10}, Subtype: "hover"})
	p.DamageEnemy(h, 5, 0, true, "blaster")

	nums := w.drain(events.EventDamageNumber)
	if len(nums) != 1 {
		t.Fatalf("got %d damage numbers, want 1", len(nums))
	}
	payload := nums[0].Payload.(*events.DamageNumberPayload)
	if payload.Amount != 5 {
		t.Errorf("damage number amount = %v, want 5", payload.Amount)
	}
	if !payload.Critical {
		t.Error("critical flag not carried into the damage number")
	}
}

func TestDamageContractKillEmitsDrops(t *testing.T) {
	w := newTestWorld(t)
	cfg := w.res.Config
	cfg.Basic.Drops.RelicChance = 1.0
	cfg.Basic.Drops.HealthChance = 1.0
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 10, Y: 10}, Subtype: "hover"})
	p.DamageEnemy(h, 9999, 0, false, "blaster")

	counts := map[events.EventType]int{}
	for _, ev := range w.res.Queue.Consume() {
		counts[ev.Type]++
	}
	if counts[events.EventOrbDropRequest] != 1 {
		t.Errorf("got %d orb requests, want 1", counts[events.EventOrbDropRequest])
	}
	if counts[events.EventRelicDropped] != 1 {
		t.Errorf("got %d relic drops, want 1", counts[events.EventRelicDropped])
	}
	if counts[events.EventHealthDropped] != 1 {
		t.Errorf("got %d health drops, want 1", counts[events.EventHealthDropped])
	}
}

func TestDamageContractKnockbackOnSurvivor(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	pos := vmath.Vec2{X: 100, Y: 100}
	h := p.spawnOne(SpawnRequest{Position: pos, Subtype: "hover"})
	e, _ := p.pool.Get(h)
	e.Velocity = vmath.Vec2{X: 50, Y: 0}

	p.DamageEnemy(h, 1, 20, false, "blaster")

	if !e.Knockback.Active {
		t.Fatal("survivor has no active knockback")
	}
	// Direction is opposite current velocity, never toward the source
	if e.Knockback.Direction.X != -1 || e.Knockback.Direction.Y != 0 {
		t.Errorf("knockback direction %+v, want opposite velocity {-1 0}", e.Knockback.Direction)
	}

	// Step the knockback across its whole duration; displacement should
	// approach the weapon's shove distance
	for i := 0; i < 10; i++ {
		w.advance(time.Duration(w.res.Config.Basic.KnockbackDurationMs/10+1) * time.Millisecond)
		p.stepKnockback(e)
	}
	moved := e.Position.Sub(pos).Magnitude()
	if diff := moved - 20; diff < -0.01 || diff > 0.01 {
		t.Errorf("knockback displaced %v, want 20", moved)
	}
	if e.Knockback.Active {
		t.Error("knockback still active after full duration")
	}
}

func TestKnockbackCappedByPopulationForce(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 100}, Subtype: "hover"})
	e, _ := p.pool.Get(h)
	e.Velocity = vmath.Vec2{X: 50}

	p.DamageEnemy(h, 1, w.res.Config.Basic.KnockbackForce*3, false, "push")
	if e.Knockback.Distance != w.res.Config.Basic.KnockbackForce {
		t.Errorf("knockback distance = %v, want capped at %v",
			e.Knockback.Distance, w.res.Config.Basic.KnockbackForce)
	}
}

func TestZeroWeaponKnockbackSkipsShove(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 100}, Subtype: "hover"})
	e, _ := p.pool.Get(h)
	e.Velocity = vmath.Vec2{X: 50}

	p.DamageEnemy(h, 1, 0, false, "blaster")
	if e.Knockback.Active {
		t.Error("zero-knockback weapon displaced the enemy")
	}
}

func TestKnockbackSkipsStationaryEnemy(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 100}, Subtype: "hover"})
	p.DamageEnemy(h, 1, 20, false, "blaster")

	e, _ := p.pool.Get(h)
	if e.Knockback.Active {
		t.Error("enemy without a velocity got knocked back")
	}
}

func TestZeroForcePopulationSkipsKnockback(t *testing.T) {
	w := newTestWorld(t)
	p := NewWalkerPopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 5000, Y: 5000}) // Out of trigger range

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 10, Y: 10}, Subtype: "steppercannon"})
	e, _ := p.pool.Get(h)
	e.Velocity = vmath.Vec2{X: 10}

	p.DamageEnemy(h, 1, 55, false, "blaster")
	if e.Knockback.Active {
		t.Error("zero-force walker got knocked back")
	}
}

func TestPoolCapHoldsUnderSpawnStorm(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	for i := 0; i < p.cfg.MaxActive*3; i++ {
		p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: float64(i)}, Subtype: "hover"})
	}
	if got := p.pool.ActiveCount(); got != p.cfg.MaxActive {
		t.Errorf("active = %d, want capped at %d", got, p.cfg.MaxActive)
	}
}

func TestOffscreenCullAfterGrace(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	far := vmath.Vec2{X: 100000, Y: 100000}
	h := p.spawnOne(SpawnRequest{Position: far, Subtype: "hover"})
	e, _ := p.pool.Get(h)

	// Grace is 50ms for basic; two 30ms ticks cross it
	w.advance(30 * time.Millisecond)
	if p.cullOffscreen(h, e) {
		t.Fatal("culled before grace elapsed")
	}
	w.advance(30 * time.Millisecond)
	if !p.cullOffscreen(h, e) {
		t.Fatal("not culled after grace elapsed")
	}

	if evs := w.drain(events.EventEnemyDespawned); len(evs) != 1 {
		t.Errorf("got %d despawn events, want 1", len(evs))
	}
	// Despawn drops no loot
	if evs := w.drain(events.EventOrbDropRequest); len(evs) != 0 {
		t.Errorf("despawn emitted %d orb drops", len(evs))
	}
}

func TestOffscreenAccumulatorResetsWhenSeen(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 100000}, Subtype: "hover"})
	e, _ := p.pool.Get(h)

	w.advance(30 * time.Millisecond)
	p.cullOffscreen(h, e)
	if e.OffscreenMs == 0 {
		t.Fatal("accumulator did not grow off-screen")
	}

	e.Position = w.res.Camera.Center()
	p.cullOffscreen(h, e)
	if e.OffscreenMs != 0 {
		t.Errorf("accumulator = %v after coming on screen, want 0", e.OffscreenMs)
	}
}

func TestWalkerStateCycle(t *testing.T) {
	w := newTestWorld(t)
	cfg := w.res.Config.Walker
	p := NewWalkerPopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: 0})

	// Spawn just inside trigger range
	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: cfg.TriggerRange - 10}, Subtype: "steppercannon"})
	e, _ := p.pool.Get(h)

	w.advance(16 * time.Millisecond)
	p.Update()
	if e.State != components.StateAiming {
		t.Fatalf("state = %v inside trigger range, want Aiming", e.State)
	}
	if e.AimDirection.X >= 0 {
		t.Errorf("aim direction %+v not toward player", e.AimDirection)
	}

	// No damage during the telegraph
	w.advance(time.Duration(cfg.AimingDurationMs/2) * time.Millisecond)
	p.Update()
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 0 {
		t.Fatalf("aiming dealt %d damage events", len(evs))
	}
	if e.State != components.StateAiming {
		t.Fatalf("state = %v mid-telegraph, want Aiming", e.State)
	}

	// Cross into firing
	w.advance(time.Duration(cfg.AimingDurationMs/2+20) * time.Millisecond)
	p.Update()
	if e.State != components.StateFiring {
		t.Fatalf("state = %v after telegraph, want Firing", e.State)
	}
	// Player sits on the beam line, so the first firing tick damages
	w.advance(16 * time.Millisecond)
	p.Update()
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 1 {
		t.Fatalf("got %d beam damage events on first firing tick, want 1", len(evs))
	}

	// Damage ticks at the sub-interval, not every frame
	w.advance(time.Duration(cfg.LaserDamageTickMs/2) * time.Millisecond)
	p.Update()
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 0 {
		t.Fatalf("beam ticked at half interval: %d events", len(evs))
	}
	w.advance(time.Duration(cfg.LaserDamageTickMs/2+10) * time.Millisecond)
	p.Update()
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 1 {
		t.Fatalf("got %d beam damage events after full interval, want 1", len(evs))
	}

	// Firing window ends, back to approaching
	w.advance(time.Duration(cfg.LaserTotalDurationMs) * time.Millisecond)
	p.Update()
	if e.State != components.StateApproaching {
		t.Fatalf("state = %v after firing window, want Approaching", e.State)
	}
}

func TestWalkerBeamMissesOffAxisPlayer(t *testing.T) {
	w := newTestWorld(t)
	cfg := w.res.Config.Walker
	p := NewWalkerPopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: 0})

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: cfg.TriggerRange - 10}, Subtype: "steppercannon"})
	e, _ := p.pool.Get(h)

	w.advance(16 * time.Millisecond)
	p.Update() // Locks aim toward origin
	// Player dodges perpendicular, well past beam width
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: cfg.LaserWidth * 4})

	w.advance(time.Duration(cfg.AimingDurationMs+20) * time.Millisecond)
	p.Update()
	if e.State != components.StateFiring {
		t.Fatalf("state = %v, want Firing", e.State)
	}
	// Run a firing tick; the off-axis player stays unharmed
	w.advance(16 * time.Millisecond)
	p.Update()
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 0 {
		t.Errorf("dodged beam still dealt %d damage events", len(evs))
	}
}

func TestEliteApproachesThenHoldsAndShoots(t *testing.T) {
	w := newTestWorld(t)
	cfg := w.res.Config.Elite
	p := NewElitePopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: 0})

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: cfg.ShootingRange + 100}, Subtype: "at"})
	e, _ := p.pool.Get(h)
	startX := e.Position.X

	w.advance(100 * time.Millisecond)
	p.Update()
	if e.Position.X >= startX {
		t.Fatal("elite did not approach the player")
	}

	// Teleport inside range; next tick plants and fires
	e.Position = vmath.Vec2{X: cfg.ShootingRange - 50}
	w.advance(16 * time.Millisecond)
	p.Update()
	if e.State != components.StateStationaryShooting {
		t.Fatalf("state = %v inside range, want StationaryShooting", e.State)
	}

	w.advance(16 * time.Millisecond)
	p.Update()
	if p.shots.ActiveCount() == 0 {
		t.Fatal("stationary elite fired no shots")
	}

	// Position frozen while shooting
	heldX := e.Position.X
	w.advance(200 * time.Millisecond)
	p.Update()
	if e.Position.X != heldX {
		t.Error("elite moved while stationary shooting")
	}

	// Shooting window expires, back to approaching
	w.advance(time.Duration(cfg.ShootingDurationMs) * time.Millisecond)
	p.Update()
	if e.State != components.StateApproaching {
		t.Fatalf("state = %v after shooting window, want Approaching", e.State)
	}
}

func TestEliteFiresOnceAtEntry(t *testing.T) {
	w := newTestWorld(t)
	w.res.Config.Elite.ShotCooldownMs = 1 << 20 // Block any re-entry
	cfg := w.res.Config.Elite
	p := NewElitePopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: 0})

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: cfg.ShootingRange - 50}, Subtype: "at"})
	e, _ := p.pool.Get(h)

	w.advance(16 * time.Millisecond)
	p.Update()
	if e.State != components.StateStationaryShooting {
		t.Fatalf("state = %v, want StationaryShooting", e.State)
	}
	if p.shots.ActiveCount() != 1 {
		t.Fatalf("entry fired %d shots, want 1", p.shots.ActiveCount())
	}

	// The hold window fires nothing further
	hold := time.Duration(cfg.ShootingDurationMs) * time.Millisecond
	for elapsed := time.Duration(0); elapsed < hold; elapsed += 100 * time.Millisecond {
		w.advance(100 * time.Millisecond)
		p.Update()
	}
	p.releaseAllShots() // Drop in-flight shots so only new fire would count
	if e.State != components.StateApproaching {
		t.Fatalf("state = %v after hold window, want Approaching", e.State)
	}

	// Still in range, but the per-enemy cooldown gates re-entry
	w.advance(16 * time.Millisecond)
	p.Update()
	if e.State != components.StateApproaching {
		t.Error("elite re-entered shooting before its cooldown elapsed")
	}
	if p.shots.ActiveCount() != 0 {
		t.Errorf("cooldown window fired %d shots, want 0", p.shots.ActiveCount())
	}
}

func TestEliteShotHitsPlayer(t *testing.T) {
	w := newTestWorld(t)
	p := NewElitePopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: 0})

	p.fireAt(vmath.Vec2{X: 50, Y: 0}, vmath.Vec2{X: 0, Y: 0})
	if p.shots.ActiveCount() != 1 {
		t.Fatal("shot not spawned")
	}

	// Fly the shot into the player
	for i := 0; i < 60 && p.shots.ActiveCount() > 0; i++ {
		w.advance(16 * time.Millisecond)
		p.updateShots(w.res.Player.Position(), w.res.Time.Now, w.res.Time.Delta.Seconds())
	}
	if p.shots.ActiveCount() != 0 {
		t.Fatal("shot never connected")
	}
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 1 {
		t.Errorf("got %d player damage events, want 1", len(evs))
	}
}

func TestFormationWingSpawnsAndFliesStraight(t *testing.T) {
	w := newTestWorld(t)
	cfg := w.res.Config.Formation
	p := NewFormationPopulation(w.res)
	w.res.Player.SetPosition(vmath.Vec2{X: 0, Y: 0})

	// Inside the visible rect so the cull step leaves the wing alone
	p.spawnWing(SpawnRequest{Position: vmath.Vec2{X: 400, Y: 0}, Subtype: "tfighter"})
	if got := p.pool.ActiveCount(); got != cfg.FormationSize {
		t.Fatalf("wing size = %d, want %d", got, cfg.FormationSize)
	}

	// Every wingmate shares the heading toward the player at spawn time
	p.pool.ForEachActive(func(_ core.Handle, e *components.EnemyInstance) {
		if e.Heading.X >= 0 {
			t.Errorf("wingmate heading %+v not toward player", e.Heading)
		}
	})

	// Move the player; the wing must not home
	w.res.Player.SetPosition(vmath.Vec2{X: 500, Y: 5000})
	var before []vmath.Vec2
	p.pool.ForEachActive(func(_ core.Handle, e *components.EnemyInstance) {
		before = append(before, e.Position)
	})
	w.advance(100 * time.Millisecond)
	p.Update()
	i := 0
	p.pool.ForEachActive(func(_ core.Handle, e *components.EnemyInstance) {
		if e.Position.Y != before[i].Y {
			t.Errorf("wingmate %d drifted on Y: heading changed after spawn", i)
		}
		i++
	})
}

func TestContactDamageCooldown(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)
	playerPos := vmath.Vec2{X: 0, Y: 0}

	h := p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 1}, Subtype: "hover"})
	e, _ := p.pool.Get(h)

	p.contactAttack(e, playerPos)
	p.contactAttack(e, playerPos) // Inside cooldown, must not double-hit
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 1 {
		t.Fatalf("got %d contact damage events, want 1", len(evs))
	}

	w.advance(contactCooldown + 10*time.Millisecond)
	p.contactAttack(e, playerPos)
	if evs := w.drain(events.EventPlayerDamaged); len(evs) != 1 {
		t.Errorf("got %d contact damage events after cooldown, want 1", len(evs))
	}
}

func TestVisibleEnemiesFiltersByRect(t *testing.T) {
	w := newTestWorld(t)
	p := NewBasicPopulation(w.res)

	inside := w.res.Camera.Center()
	p.spawnOne(SpawnRequest{Position: inside, Subtype: "hover"})
	p.spawnOne(SpawnRequest{Position: vmath.Vec2{X: 100000}, Subtype: "hover"})

	refs := p.VisibleEnemies(w.res.Camera.QueryRect(), nil)
	if len(refs) != 1 {
		t.Fatalf("got %d visible enemies, want 1", len(refs))
	}
	if refs[0].Pop != Population(p) {
		t.Error("target ref does not point back at the population")
	}
}
