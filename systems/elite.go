package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// eliteShotPoolSize caps concurrent elite return fire
const eliteShotPoolSize = 64

// eliteShotLifetime expires shots that never connect
const eliteShotLifetime = 4 * time.Second

// ElitePopulation is the AT unit: approaches to shooting range, plants
// itself and fires one shot at entry, holds for the shooting duration,
// then closes distance again. Owns its own projectile pool for return
// fire.
type ElitePopulation struct {
	populationCore

	shots *engine.Pool[components.Projectile]
}

func NewElitePopulation(res *engine.Resources) *ElitePopulation {
	p := &ElitePopulation{
		populationCore: newPopulationCore(res, res.Config.Elite, components.KindElite, nil),
		shots:          engine.NewPool(eliteShotPoolSize, components.ResetProjectile),
	}
	p.bind(p)
	return p
}

func (p *ElitePopulation) Name() string { return "population.elite" }

func (p *ElitePopulation) Priority() int { return PriorityElite }

func (p *ElitePopulation) Init() {
	p.reset()
	p.releaseAllShots()
}

func (p *ElitePopulation) Destroy() {
	p.reset()
	p.releaseAllShots()
}

func (p *ElitePopulation) Update() {
	p.runScheduler(func(req SpawnRequest) { p.spawnOne(req) })

	playerPos := p.res.Player.Position()
	now := p.res.Time.Now
	dt := p.res.Time.Delta.Seconds()

	p.pool.ForEachActive(func(h core.Handle, e *components.EnemyInstance) {
		if p.cullOffscreen(h, e) {
			return
		}
		if p.stepKnockback(e) {
			return
		}

		switch e.State {
		case components.StateApproaching:
			dir := playerPos.Sub(e.Position)
			inRange := dir.MagnitudeSq() <= p.cfg.ShootingRange*p.cfg.ShootingRange
			// Entry needs both range and an elapsed per-enemy shot
			// cooldown; the single shot of the window fires at entry
			if inRange && !now.Before(e.NextShotAt) {
				e.State = components.StateStationaryShooting
				e.LastStateChange = now
				e.Velocity = vmath.Vec2{}
				e.NextShotAt = now.Add(time.Duration(p.cfg.ShotCooldownMs) * time.Millisecond)
				p.fireAt(e.Position, playerPos)
				return
			}
			if dir.MagnitudeSq() > 0 {
				e.Velocity = dir.Normalize().Scale(p.speed(e))
			}
			e.Position = e.Position.Add(e.Velocity.Scale(dt))

		case components.StateStationaryShooting:
			hold := time.Duration(p.cfg.ShootingDurationMs) * time.Millisecond
			if now.Sub(e.LastStateChange) >= hold {
				e.State = components.StateApproaching
				e.LastStateChange = now
			}
		}
	})

	p.updateShots(playerPos, now, dt)
}

// fireAt launches one return-fire projectile toward the player's current
// position. A full shot pool drops the shot silently.
func (p *ElitePopulation) fireAt(from, target vmath.Vec2) {
	dir := target.Sub(from)
	if dir.MagnitudeSq() == 0 {
		return
	}
	_, shot := p.shots.Acquire()
	if shot == nil {
		return
	}
	shot.Position = from
	shot.Velocity = dir.Normalize().Scale(p.cfg.ProjectileSpeed)
	shot.Damage = p.cfg.BaseDamage
	shot.HitRadius = 6
	shot.ExpireAt = p.res.Time.Now.Add(eliteShotLifetime)
}

func (p *ElitePopulation) updateShots(playerPos vmath.Vec2, now time.Time, dt float64) {
	p.shots.ForEachActive(func(h core.Handle, shot *components.Projectile) {
		if !now.Before(shot.ExpireAt) {
			p.shots.Release(h)
			return
		}
		shot.Position = shot.Position.Add(shot.Velocity.Scale(dt))

		reach := shot.HitRadius + playerContactRadius
		if vmath.DistanceSq(shot.Position, playerPos) <= reach*reach {
			p.res.PushEvent(events.EventPlayerDamaged, &events.PlayerDamagedPayload{
				Amount: shot.Damage,
				Source: p.kind.String(),
			})
			p.shots.Release(h)
		}
	})
}

func (p *ElitePopulation) releaseAllShots() {
	handles := make([]core.Handle, 0, p.shots.ActiveCount())
	p.shots.ForEachActive(func(h core.Handle, _ *components.Projectile) {
		handles = append(handles, h)
	})
	for _, h := range handles {
		p.shots.Release(h)
	}
}

// ActiveShots exposes the live return-fire projectiles for rendering
func (p *ElitePopulation) ActiveShots(fn func(pos vmath.Vec2)) {
	p.shots.ForEachActive(func(_ core.Handle, shot *components.Projectile) {
		fn(shot.Position)
	})
}
