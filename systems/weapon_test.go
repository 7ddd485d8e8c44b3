package systems

import (
	"math"
	"testing"
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// noCrit disables the crit roll so damage assertions are exact
func noCrit(w *testWorld) {
	w.res.Config.Player.CritChance = 0
}

func TestUnlockAndActivateIdempotent(t *testing.T) {
	w := newTestWorld(t)
	wpn := NewMeleeWeapon(w.res, nil)

	wpn.UnlockAndActivate()
	wpn.applyUpgrade(&events.WeaponUpgradePayload{WeaponID: WeaponMelee, DamageMultiplier: 0.5})
	wpn.UnlockAndActivate() // Second unlock must not reset progression

	if got := wpn.State().DamageMultiplier; got != 1.5 {
		t.Errorf("damage multiplier = %v after re-unlock, want 1.5", got)
	}
	if got := wpn.State().Level; got != 2 {
		t.Errorf("level = %d after re-unlock, want 2", got)
	}
}

func TestUpgradeIgnoredWhileLocked(t *testing.T) {
	w := newTestWorld(t)
	wpn := NewMeleeWeapon(w.res, nil)

	wpn.HandleEvent(events.GameEvent{
		Type:    events.EventWeaponUpgrade,
		Payload: &events.WeaponUpgradePayload{WeaponID: WeaponMelee, DamageMultiplier: 1},
	})
	if wpn.State().Level != 0 {
		t.Error("locked weapon accepted an upgrade")
	}
}

func TestUnlockEventTargetsOneWeapon(t *testing.T) {
	w := newTestWorld(t)
	melee := NewMeleeWeapon(w.res, nil)
	drone := NewDroneWeapon(w.res, nil)

	ev := events.GameEvent{
		Type:    events.EventWeaponUnlock,
		Payload: &events.WeaponUnlockPayload{WeaponID: WeaponDrone},
	}
	melee.HandleEvent(ev)
	drone.HandleEvent(ev)

	if melee.IsActive() {
		t.Error("melee unlocked by a drone unlock event")
	}
	if !drone.IsActive() {
		t.Error("drone not unlocked by its own event")
	}
}

func TestSpeedUpgradeShortensCooldown(t *testing.T) {
	state := components.WeaponState{Unlocked: true, SpeedMultiplier: 2}
	if got := state.EffectiveCooldown(1000 * time.Millisecond); got != 500*time.Millisecond {
		t.Errorf("effective cooldown = %v, want 500ms", got)
	}
}

func TestLockedWeaponNeverFires(t *testing.T) {
	w := newTestWorld(t)
	pop := NewBasicPopulation(w.res)
	wpn := NewProjectileWeapon(w.res, []Population{pop})
	// No Init, no unlock

	pop.spawnOne(SpawnRequest{Position: w.res.Camera.Center().Add(vmath.Vec2{X: 50}), Subtype: "hover"})
	for i := 0; i < 10; i++ {
		w.advance(100 * time.Millisecond)
		wpn.Update()
	}
	if wpn.pool.ActiveCount() != 0 {
		t.Error("locked projectile weapon spawned shots")
	}
}

func TestProjectileVolleyHitsNearestEnemy(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	pop := NewBasicPopulation(w.res)
	wpn := NewProjectileWeapon(w.res, []Population{pop})
	wpn.Init()

	near := w.res.Player.Position().Add(vmath.Vec2{X: 60})
	far := w.res.Player.Position().Add(vmath.Vec2{X: 300})
	hNear := pop.spawnOne(SpawnRequest{Position: near, Subtype: "hover"})
	pop.spawnOne(SpawnRequest{Position: far, Subtype: "hover"})

	// First update fires; following updates fly the shot into the target
	for i := 0; i < 40; i++ {
		w.advance(16 * time.Millisecond)
		wpn.Update()
	}

	e, ok := pop.pool.Get(hNear)
	if !ok {
		t.Fatal("near enemy vanished")
	}
	want := e.MaxHealth - w.res.Config.Weapons.Projectile.BaseDamage
	if e.Health != want {
		t.Errorf("near enemy health = %v, want %v", e.Health, want)
	}
}

func TestMeleeSweepHitsArcOnce(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	pop := NewBasicPopulation(w.res)
	wpn := NewMeleeWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()

	w.res.Player.SetFacing(vmath.Vec2{X: 1})
	center := w.res.Player.Position()
	inFront := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: 40}), Subtype: "hover"})
	behind := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: -40}), Subtype: "hover"})
	outOfRange := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: 200}), Subtype: "hover"})

	// Run the whole sweep window; the in-front enemy must be hit exactly
	// once despite many ticks inside the arc
	for i := 0; i < 10; i++ {
		w.advance(40 * time.Millisecond)
		wpn.Update()
	}

	base := w.res.Config.Weapons.Melee.BaseDamage
	eFront, _ := pop.pool.Get(inFront)
	if got := eFront.MaxHealth - eFront.Health; got != base {
		t.Errorf("front enemy took %v damage, want exactly %v", got, base)
	}
	eBehind, _ := pop.pool.Get(behind)
	if eBehind.Health != eBehind.MaxHealth {
		t.Error("enemy behind the facing got hit")
	}
	eFar, _ := pop.pool.Get(outOfRange)
	if eFar.Health != eFar.MaxHealth {
		t.Error("out-of-range enemy got hit")
	}
}

func TestMeleeNewSwingRehits(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	w.res.Config.Basic.BaseHealth = 1000 // Survive both swings
	pop := NewBasicPopulation(w.res)
	wpn := NewMeleeWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()
	w.res.Player.SetFacing(vmath.Vec2{X: 1})

	h := pop.spawnOne(SpawnRequest{Position: w.res.Player.Position().Add(vmath.Vec2{X: 40}), Subtype: "hover"})

	// Two full cooldown cycles
	cycle := msToDuration(w.res.Config.Weapons.Melee.CooldownMs)
	for i := 0; i < 2; i++ {
		w.advance(16 * time.Millisecond)
		wpn.Update()
		w.advance(cycle)
		wpn.Update() // Closes the old swing
		w.advance(16 * time.Millisecond)
		wpn.Update()
	}

	e, _ := pop.pool.Get(h)
	base := w.res.Config.Weapons.Melee.BaseDamage
	if got := e.MaxHealth - e.Health; got < 2*base {
		t.Errorf("enemy took %v over two swings, want at least %v", got, 2*base)
	}
}

func TestDroneHitsOncePerRevolution(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	w.res.Config.Basic.BaseHealth = 1000 // Survive every pass
	pop := NewBasicPopulation(w.res)
	wpn := NewDroneWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()
	cfg := w.res.Config.Weapons.Drone

	// Park an enemy directly on the orbit ring so drones sweep through it
	h := pop.spawnOne(SpawnRequest{
		Position: w.res.Player.Position().Add(vmath.Vec2{X: cfg.OrbitRadius}),
		Subtype:  "hover",
	})

	// Simulate just over one full revolution
	revTicks := int(2*math.Pi/cfg.AngularSpeed/0.016) + 5
	for i := 0; i < revTicks; i++ {
		w.advance(16 * time.Millisecond)
		wpn.Update()
	}

	e, _ := pop.pool.Get(h)
	hits := (e.MaxHealth - e.Health) / cfg.BaseDamage
	// Each of the two drones passes the enemy once per revolution; a
	// little slack for the partial extra revolution
	if hits < 2 || hits > float64(cfg.BaseCount+2) {
		t.Errorf("enemy hit %v times over one revolution with %d drones", hits, cfg.BaseCount)
	}
}

func TestBeamDamagesOnSubInterval(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	pop := NewBasicPopulation(w.res)
	wpn := NewBeamWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()
	cfg := w.res.Config.Weapons.Beam

	h := pop.spawnOne(SpawnRequest{Position: w.res.Player.Position().Add(vmath.Vec2{X: 120}), Subtype: "hover"})

	// Fire and hold through two tick intervals
	w.advance(16 * time.Millisecond)
	wpn.Update() // Fires, first pass immediate
	e, _ := pop.pool.Get(h)
	afterFirst := e.MaxHealth - e.Health
	if afterFirst != cfg.BaseDamage {
		t.Fatalf("first beam pass dealt %v, want %v", afterFirst, cfg.BaseDamage)
	}

	// Inside the tick interval nothing happens
	w.advance(msToDuration(cfg.TickIntervalMs) / 4)
	wpn.Update()
	if got := e.MaxHealth - e.Health; got != afterFirst {
		t.Errorf("beam dealt damage inside the tick interval: %v", got)
	}

	w.advance(msToDuration(cfg.TickIntervalMs))
	wpn.Update()
	if got := e.MaxHealth - e.Health; got != 2*cfg.BaseDamage {
		t.Errorf("after second interval dealt %v total, want %v", got, 2*cfg.BaseDamage)
	}
}

func TestBeamFallsBackToFacing(t *testing.T) {
	w := newTestWorld(t)
	pop := NewBasicPopulation(w.res)
	wpn := NewBeamWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()
	w.res.Player.SetFacing(vmath.Vec2{X: 0, Y: -1})

	w.advance(16 * time.Millisecond)
	wpn.Update()

	start, end, _, active := wpn.Segment()
	if !active {
		t.Fatal("beam did not fire without targets")
	}
	dir := end.Sub(start).Normalize()
	if dir.Y >= 0 || math.Abs(dir.X) > 0.001 {
		t.Errorf("fallback beam direction %+v, want facing (0,-1)", dir)
	}
}

func TestStrikeCircleBoundaryInclusive(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	w.res.Config.Basic.BaseHealth = 1000 // Survive the blast for the check
	pop := NewBasicPopulation(w.res)
	wpn := NewStrikeWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()
	cfg := w.res.Config.Weapons.Strike

	center := w.res.Player.Position()
	onBoundary := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: cfg.Radius}), Subtype: "hover"})
	outside := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: cfg.Radius + 1}), Subtype: "hover"})

	// Detonate a shell exactly at the player position
	_, shell := wpn.shells.Acquire()
	shell.Target = center
	shell.ArriveAt = w.res.Time.Now
	wpn.resolveArrivals(w.res.Time.Now)

	eOn, _ := pop.pool.Get(onBoundary)
	if eOn.Health == eOn.MaxHealth {
		t.Error("enemy exactly on the radius boundary not hit")
	}
	eOut, _ := pop.pool.Get(outside)
	if eOut.Health != eOut.MaxHealth {
		t.Error("enemy outside the radius got hit")
	}
}

func TestStrikeFallsBackToPlayerPosition(t *testing.T) {
	w := newTestWorld(t)
	pop := NewBasicPopulation(w.res)
	wpn := NewStrikeWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()

	wpn.launch() // Empty arena
	var got vmath.Vec2
	count := 0
	wpn.PendingShells(func(target vmath.Vec2, _ time.Duration) {
		got = target
		count++
	})
	if count != 1 {
		t.Fatalf("launched %d shells, want 1", count)
	}
	if got != w.res.Player.Position() {
		t.Errorf("fallback target = %+v, want player position %+v", got, w.res.Player.Position())
	}
}

func TestPushDamagesAndShovesRadius(t *testing.T) {
	w := newTestWorld(t)
	noCrit(w)
	pop := NewBasicPopulation(w.res)
	wpn := NewPushWeapon(w.res, []Population{pop})
	wpn.Init()
	wpn.UnlockAndActivate()
	cfg := w.res.Config.Weapons.Push

	center := w.res.Player.Position()
	inside := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: cfg.Radius / 2}), Subtype: "hover"})
	outside := pop.spawnOne(SpawnRequest{Position: center.Add(vmath.Vec2{X: cfg.Radius * 2}), Subtype: "hover"})

	w.advance(16 * time.Millisecond)
	wpn.Update()

	eIn, _ := pop.pool.Get(inside)
	if eIn.Health == eIn.MaxHealth {
		t.Fatal("enemy inside push radius not damaged")
	}
	if !eIn.Knockback.Active {
		t.Error("push survivor has no knockback")
	}
	if eIn.Knockback.Direction.X <= 0 {
		t.Errorf("knockback direction %+v not away from player", eIn.Knockback.Direction)
	}
	eOut, _ := pop.pool.Get(outside)
	if eOut.Health != eOut.MaxHealth {
		t.Error("enemy outside push radius damaged")
	}
}

func TestWeaponSkipsNilPopulation(t *testing.T) {
	w := newTestWorld(t)
	pop := NewBasicPopulation(w.res)
	wpn := NewProjectileWeapon(w.res, []Population{nil, pop, nil})
	wpn.Init()

	pop.spawnOne(SpawnRequest{Position: w.res.Player.Position().Add(vmath.Vec2{X: 50}), Subtype: "hover"})
	w.advance(16 * time.Millisecond)
	wpn.Update() // Must not panic on nil entries
	if wpn.pool.ActiveCount() == 0 {
		t.Error("weapon did not fire with one wired population")
	}
}
