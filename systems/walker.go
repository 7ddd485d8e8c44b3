package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// WalkerPopulation is the heavy laser unit with the timer-driven
// Approaching -> Aiming -> Firing cycle. Transitions run on absolute game
// time, not tick counts, so frame rate never stretches the telegraph.
type WalkerPopulation struct {
	populationCore
}

func NewWalkerPopulation(res *engine.Resources) *WalkerPopulation {
	p := &WalkerPopulation{
		populationCore: newPopulationCore(res, res.Config.Walker, components.KindWalker, nil),
	}
	p.bind(p)
	return p
}

func (p *WalkerPopulation) Name() string { return "population.walker" }

func (p *WalkerPopulation) Priority() int { return PriorityWalker }

func (p *WalkerPopulation) Init() { p.reset() }

func (p *WalkerPopulation) Destroy() { p.reset() }

func (p *WalkerPopulation) Update() {
	p.runScheduler(func(req SpawnRequest) { p.spawnOne(req) })

	playerPos := p.res.Player.Position()
	now := p.res.Time.Now
	dt := p.res.Time.Delta.Seconds()

	p.pool.ForEachActive(func(h core.Handle, e *components.EnemyInstance) {
		if p.cullOffscreen(h, e) {
			return
		}
		// KnockbackForce is zero for walkers; stepKnockback kept for
		// config overrides that re-enable it
		if p.stepKnockback(e) {
			return
		}

		switch e.State {
		case components.StateApproaching:
			p.stepApproach(e, playerPos, now, dt)
		case components.StateAiming:
			p.stepAiming(e, now)
		case components.StateFiring:
			p.stepFiring(e, playerPos, now)
		}
	})
}

func (p *WalkerPopulation) stepApproach(e *components.EnemyInstance, playerPos vmath.Vec2, now time.Time, dt float64) {
	dir := playerPos.Sub(e.Position)
	if dir.MagnitudeSq() <= p.cfg.TriggerRange*p.cfg.TriggerRange {
		// Telegraph starts: beam direction locks here so the player can
		// dodge out of the shown line
		e.State = components.StateAiming
		e.LastStateChange = now
		e.Velocity = vmath.Vec2{}
		if dir.MagnitudeSq() > 0 {
			e.AimDirection = dir.Normalize()
		} else {
			e.AimDirection = vmath.Vec2{X: 1}
		}
		return
	}
	if dir.MagnitudeSq() > 0 {
		e.Velocity = dir.Normalize().Scale(p.speed(e))
	}
	e.Position = e.Position.Add(e.Velocity.Scale(dt))
}

func (p *WalkerPopulation) stepAiming(e *components.EnemyInstance, now time.Time) {
	aim := time.Duration(p.cfg.AimingDurationMs) * time.Millisecond
	if now.Sub(e.LastStateChange) >= aim {
		e.State = components.StateFiring
		e.LastStateChange = now
		e.LastBeamTickAt = time.Time{} // First tick applies immediately
	}
}

func (p *WalkerPopulation) stepFiring(e *components.EnemyInstance, playerPos vmath.Vec2, now time.Time) {
	firing := time.Duration(p.cfg.LaserTotalDurationMs-p.cfg.AimingDurationMs) * time.Millisecond
	if now.Sub(e.LastStateChange) >= firing {
		e.State = components.StateApproaching
		e.LastStateChange = now
		return
	}

	tick := time.Duration(p.cfg.LaserDamageTickMs) * time.Millisecond
	if !e.LastBeamTickAt.IsZero() && now.Sub(e.LastBeamTickAt) < tick {
		return
	}
	e.LastBeamTickAt = now

	if p.beamHitsPlayer(e, playerPos) {
		p.res.PushEvent(events.EventPlayerDamaged, &events.PlayerDamagedPayload{
			Amount: p.cfg.BaseDamage,
			Source: p.kind.String(),
		})
	}
}

// beamHitsPlayer tests the player hull against the locked beam segment
func (p *WalkerPopulation) beamHitsPlayer(e *components.EnemyInstance, playerPos vmath.Vec2) bool {
	end := e.Position.Add(e.AimDirection.Scale(p.cfg.LaserRange))
	dist := vmath.SegmentDistanceToPoint(e.Position, end, playerPos)
	return dist <= p.cfg.LaserWidth/2+playerContactRadius
}

// BeamSegment reports an active beam for rendering; firing is false
// outside the Firing state
func (p *WalkerPopulation) BeamSegment(h core.Handle) (start, end vmath.Vec2, firing bool) {
	e, ok := p.pool.Get(h)
	if !ok || e.State != components.StateFiring {
		return vmath.Vec2{}, vmath.Vec2{}, false
	}
	return e.Position, e.Position.Add(e.AimDirection.Scale(p.cfg.LaserRange)), true
}
