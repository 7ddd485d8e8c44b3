package systems

import (
	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// FormationPopulation spawns T-fighter wings in a V. Each scheduler
// request expands to a full wing sharing one straight-line heading aimed
// at the player's position at spawn time; wings never home afterwards,
// they sweep across the arena and despawn off the far side.
type FormationPopulation struct {
	populationCore
}

func NewFormationPopulation(res *engine.Resources) *FormationPopulation {
	p := &FormationPopulation{
		populationCore: newPopulationCore(res, res.Config.Formation, components.KindFormation, nil),
	}
	p.bind(p)
	return p
}

func (p *FormationPopulation) Name() string { return "population.formation" }

func (p *FormationPopulation) Priority() int { return PriorityFormation }

func (p *FormationPopulation) Init() { p.reset() }

func (p *FormationPopulation) Destroy() { p.reset() }

func (p *FormationPopulation) Update() {
	p.runScheduler(p.spawnWing)

	playerPos := p.res.Player.Position()
	dt := p.res.Time.Delta.Seconds()

	p.pool.ForEachActive(func(h core.Handle, e *components.EnemyInstance) {
		if p.cullOffscreen(h, e) {
			return
		}
		if p.stepKnockback(e) {
			return
		}
		e.Position = e.Position.Add(e.Heading.Scale(p.speed(e) * dt))
		p.contactAttack(e, playerPos)
	})
}

// spawnWing places FormationSize fighters in a V behind the lead
// position. Pool exhaustion truncates the wing rather than dropping it.
func (p *FormationPopulation) spawnWing(req SpawnRequest) {
	heading := p.res.Player.Position().Sub(req.Position)
	if heading.MagnitudeSq() == 0 {
		heading = vmath.Vec2{X: 1}
	}
	heading = heading.Normalize()

	// Wing axes: back is opposite the heading, side is its perpendicular
	back := heading.Scale(-1)
	side := vmath.Vec2{X: -heading.Y, Y: heading.X}
	spacing := p.cfg.FormationSpacing

	for i := 0; i < p.cfg.FormationSize; i++ {
		// Slot 0 leads; slots alternate left/right, each rank one
		// spacing step further back
		rank := (i + 1) / 2
		offset := back.Scale(float64(rank) * spacing)
		if i%2 == 1 {
			offset = offset.Add(side.Scale(float64(rank) * spacing))
		} else if i > 0 {
			offset = offset.Sub(side.Scale(float64(rank) * spacing))
		}

		h := p.spawnOne(SpawnRequest{Position: req.Position.Add(offset), Subtype: req.Subtype})
		if h == core.NilHandle {
			return
		}
		if e, ok := p.pool.Get(h); ok {
			e.Heading = heading
		}
	}
}
