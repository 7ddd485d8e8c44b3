package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// offscreenReaimChance is how often an off-screen homing enemy recomputes
// its steering; visible enemies re-aim every tick
const offscreenReaimChance = 0.1

// playerContactRadius approximates the player hull for contact damage
const playerContactRadius = 12.0

// contactCooldown spaces repeated contact hits from one enemy
const contactCooldown = 700 * time.Millisecond

// BasicPopulation is the high-count homing swarm. It is the only
// population driven by the wave/lull cycle.
type BasicPopulation struct {
	populationCore
}

func NewBasicPopulation(res *engine.Resources) *BasicPopulation {
	p := &BasicPopulation{
		populationCore: newPopulationCore(res, res.Config.Basic, components.KindBasic, &res.Config.Waves),
	}
	p.bind(p)
	return p
}

func (p *BasicPopulation) Name() string { return "population.basic" }

func (p *BasicPopulation) Priority() int { return PriorityBasic }

func (p *BasicPopulation) Init() { p.reset() }

func (p *BasicPopulation) Destroy() { p.reset() }

func (p *BasicPopulation) Update() {
	p.runScheduler(func(req SpawnRequest) { p.spawnOne(req) })

	playerPos := p.res.Player.Position()
	view := p.res.Camera.ViewRect()
	dt := p.res.Time.Delta.Seconds()

	p.pool.ForEachActive(func(h core.Handle, e *components.EnemyInstance) {
		if p.cullOffscreen(h, e) {
			return
		}
		if p.stepKnockback(e) {
			return
		}

		// Visible enemies steer exactly every tick; off-screen ones
		// re-aim probabilistically to save the normalize
		if view.Contains(e.Position) || p.res.RNG.Chance(offscreenReaimChance) {
			dir := playerPos.Sub(e.Position)
			if dir.MagnitudeSq() > 0 {
				e.Velocity = dir.Normalize().Scale(p.speed(e))
			}
		}
		e.Position = e.Position.Add(e.Velocity.Scale(dt))

		p.contactAttack(e, playerPos)
	})
}

// contactAttack deals touch damage with a per-enemy cooldown. Damage goes
// through the event queue so the player hit handling stays centralized.
func (pc *populationCore) contactAttack(e *components.EnemyInstance, playerPos vmath.Vec2) {
	now := pc.res.Time.Now
	if now.Before(e.NextShotAt) {
		return
	}
	reach := e.HitboxRadius + playerContactRadius
	if vmath.DistanceSq(e.Position, playerPos) > reach*reach {
		return
	}
	e.NextShotAt = now.Add(contactCooldown)
	pc.res.PushEvent(events.EventPlayerDamaged, &events.PlayerDamagedPayload{
		Amount: pc.cfg.BaseDamage,
		Source: pc.kind.String(),
	})
}
