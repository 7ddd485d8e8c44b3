package systems

import (
	"sync/atomic"
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// populationCore is the shared machinery behind every enemy population:
// pool + scheduler ownership, spawn bookkeeping, knockback, off-screen
// culling, and the damage/death/drop contract. Kind-specific systems
// embed it and supply only their movement/AI step.
type populationCore struct {
	res   *engine.Resources
	cfg   config.PopulationConfig
	kind  components.EnemyKind
	pool  *engine.Pool[components.EnemyInstance]
	sched *SpawnScheduler

	// self is the embedding system, so target refs point at the full
	// Population implementation rather than the bare core
	self Population

	statActive *atomic.Int64
	statKilled *atomic.Int64
}

func newPopulationCore(res *engine.Resources, cfg config.PopulationConfig, kind components.EnemyKind, waves *config.WaveConfig) populationCore {
	return populationCore{
		res:        res,
		cfg:        cfg,
		kind:       kind,
		pool:       engine.NewPool(cfg.MaxActive, components.ResetEnemy),
		sched:      NewSpawnScheduler(cfg, waves, res.RNG),
		statActive: res.Status.Ints.Get("enemies." + kind.String() + ".active"),
		statKilled: res.Status.Ints.Get("enemies." + kind.String() + ".killed"),
	}
}

func (pc *populationCore) Kind() components.EnemyKind {
	return pc.kind
}

// Scheduler exposes spawn pacing state for HUD display
func (pc *populationCore) Scheduler() *SpawnScheduler {
	return pc.sched
}

// bind points target refs at the embedding system
func (pc *populationCore) bind(self Population) {
	pc.self = self
}

// reset releases every slot for a fresh run
func (pc *populationCore) reset() {
	handles := make([]core.Handle, 0, pc.pool.ActiveCount())
	pc.pool.ForEachActive(func(h core.Handle, _ *components.EnemyInstance) {
		handles = append(handles, h)
	})
	for _, h := range handles {
		pc.pool.Release(h)
	}
	pc.sched = NewSpawnScheduler(pc.cfg, pc.sched.waves, pc.res.RNG)
	pc.statActive.Store(0)
}

// runScheduler ticks the spawn scheduler with a fresh query rect and
// activates requested enemies. Pool exhaustion drops the request; the
// next scheduled tick retries.
func (pc *populationCore) runScheduler(activate func(SpawnRequest)) {
	t := pc.res.Time
	view := pc.res.Camera.QueryRect()
	pc.sched.Update(t.Now, t.Elapsed, pc.res.Player.Level(), view, activate)
	pc.statActive.Store(int64(pc.pool.ActiveCount()))
}

// spawnOne is the default activation: one enemy at the requested spot.
// Returns NilHandle when the pool is full.
func (pc *populationCore) spawnOne(req SpawnRequest) core.Handle {
	h, e := pc.pool.Acquire()
	if e == nil {
		return core.NilHandle
	}
	pc.initEnemy(e, req.Position, req.Subtype)
	return h
}

func (pc *populationCore) initEnemy(e *components.EnemyInstance, pos vmath.Vec2, subtype string) {
	sub := pc.cfg.Subtypes[subtype]
	if sub.HealthMult == 0 {
		sub = config.SubtypeConfig{HealthMult: 1, SpeedMult: 1, HitboxScale: 1}
	}
	e.Kind = pc.kind
	e.Subtype = subtype
	e.Position = pos
	e.Health = pc.cfg.BaseHealth * sub.HealthMult
	e.MaxHealth = e.Health
	e.HitboxRadius = pc.cfg.HitboxRadius * sub.HitboxScale
	e.SpeedMult = sub.SpeedMult
	e.State = components.StateApproaching
	e.LastStateChange = pc.res.Time.Now
}

// speed returns the enemy's effective speed in units per second
func (pc *populationCore) speed(e *components.EnemyInstance) float64 {
	return pc.cfg.BaseSpeed * e.SpeedMult
}

// stepKnockback advances an active knockback displacement, eased so the
// shove starts fast and settles. Movement AI skips a knocked-back enemy
// for the duration.
func (pc *populationCore) stepKnockback(e *components.EnemyInstance) bool {
	kb := &e.Knockback
	if !kb.Active {
		return false
	}
	elapsed := pc.res.Time.Now.Sub(kb.StartedAt)
	if elapsed >= kb.Duration {
		remaining := kb.Distance * (1 - kb.Progress)
		e.Position = e.Position.Add(kb.Direction.Scale(remaining))
		*kb = components.KnockbackState{}
		return false
	}
	t := float64(elapsed) / float64(kb.Duration)
	eased := vmath.EaseOutQuad(t)
	step := kb.Distance * (eased - kb.Progress)
	kb.Progress = eased
	e.Position = e.Position.Add(kb.Direction.Scale(step))
	return true
}

// cullOffscreen accumulates fully-offscreen time against the visible rect
// (not the buffered query rect) and despawns past the grace period.
// Returns true when the enemy was released.
func (pc *populationCore) cullOffscreen(h core.Handle, e *components.EnemyInstance) bool {
	visible := pc.res.Camera.ViewRect()
	if visible.Contains(e.Position) {
		e.OffscreenMs = 0
		return false
	}
	e.OffscreenMs += float64(pc.res.Time.Delta) / float64(time.Millisecond)
	if e.OffscreenMs < float64(pc.cfg.OffscreenGraceMs) {
		return false
	}
	pc.res.PushEvent(events.EventEnemyDespawned, &events.EnemyDespawnedPayload{
		Position: e.Position,
		Kind:     pc.kind.String(),
	})
	pc.pool.Release(h)
	return true
}

// VisibleEnemies implements the weapon-facing query
func (pc *populationCore) VisibleEnemies(rect vmath.Rect, out []TargetRef) []TargetRef {
	pc.pool.ForEachActive(func(h core.Handle, e *components.EnemyInstance) {
		if rect.Contains(e.Position) {
			out = append(out, TargetRef{
				Pop:    pc.self,
				Handle: h,
				Pos:    e.Position,
				Hitbox: e.Hitbox(),
			})
		}
	})
	return out
}

// DamageEnemy applies the shared damage contract:
//  1. inactive or stale handle: no-op, returns false
//  2. health is reduced before the death check and may go negative
//  3. a damage number event fires whether or not the hit kills
//  4. lethal hit: roll drops, emit kill event, release the slot
//  5. non-lethal hit with knockback > 0: shove opposite current velocity
func (pc *populationCore) DamageEnemy(h core.Handle, damage, knockback float64, crit bool, weaponID string) bool {
	e, ok := pc.pool.Get(h)
	if !ok {
		return false
	}

	e.Health -= damage
	pc.res.RecordWeaponDamage(weaponID, damage)
	pc.res.PushEvent(events.EventDamageNumber, &events.DamageNumberPayload{
		Position: e.Position,
		Amount:   damage,
		Critical: crit,
	})

	if e.Health <= 0 {
		pc.handleDeath(h, e, weaponID)
		return true
	}

	pc.applyKnockback(e, knockback)
	return false
}

func (pc *populationCore) handleDeath(h core.Handle, e *components.EnemyInstance, weaponID string) {
	pos := e.Position
	subtype := e.Subtype

	roll := RollDrops(pc.res.RNG, pc.cfg.Drops)
	if roll.OrbCount > 0 {
		pc.res.PushEvent(events.EventOrbDropRequest, &events.OrbDropPayload{
			Position: pos,
			Count:    roll.OrbCount,
			XPEach:   pc.res.Config.Collection.OrbXP,
		})
	}
	if roll.Relic {
		pc.res.PushEvent(events.EventRelicDropped, &events.PickupDropPayload{Position: pos})
	}
	if roll.Health {
		pc.res.PushEvent(events.EventHealthDropped, &events.PickupDropPayload{Position: pos})
	}

	pc.res.PushEvent(events.EventEnemyKilled, &events.EnemyKilledPayload{
		Position: pos,
		Kind:     pc.kind.String(),
		Subtype:  subtype,
		WeaponID: weaponID,
	})
	pc.res.RecordKill(pc.kind.String())
	pc.statKilled.Add(1)

	// Release clears the slot, which also cancels any in-flight knockback
	pc.pool.Release(h)
}

// applyKnockback starts or restarts a shove opposite the enemy's current
// velocity. The hitting weapon supplies the distance; the population's
// KnockbackForce caps it per kind, so a zero-force population (the
// walker) never moves. Enemies without a velocity are not displaced.
func (pc *populationCore) applyKnockback(e *components.EnemyInstance, knockback float64) {
	if knockback <= 0 || pc.cfg.KnockbackForce <= 0 {
		return
	}
	if e.Velocity.MagnitudeSq() == 0 {
		return
	}
	if knockback > pc.cfg.KnockbackForce {
		knockback = pc.cfg.KnockbackForce
	}
	e.Knockback = components.KnockbackState{
		Active:    true,
		Direction: e.Velocity.Normalize().Scale(-1),
		Distance:  knockback,
		StartedAt: pc.res.Time.Now,
		Duration:  time.Duration(pc.cfg.KnockbackDurationMs) * time.Millisecond,
	}
}
