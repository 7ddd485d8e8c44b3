package systems

import (
	"math"
	"time"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// MeleeWeapon is the close-range arc sweep. A swing stays live for its
// sweep duration and hits everything entering the arc, but each enemy at
// most once per swing: hits go into the swing's exclusion set.
type MeleeWeapon struct {
	weaponBase

	swingActive bool
	swingEndsAt time.Time
	swingFacing vmath.Vec2
	hitThisSwing map[TargetKey]struct{}
}

func NewMeleeWeapon(res *engine.Resources, pops []Population) *MeleeWeapon {
	return &MeleeWeapon{
		weaponBase:   newWeaponBase(res, WeaponMelee, pops, 1),
		hitThisSwing: make(map[TargetKey]struct{}),
	}
}

func (w *MeleeWeapon) Name() string { return "weapon.melee" }

func (w *MeleeWeapon) Priority() int { return PriorityMelee }

func (w *MeleeWeapon) Init() {
	w.resetState()
	w.endSwing()
}

func (w *MeleeWeapon) Update() {
	if !w.IsActive() {
		return
	}
	cfg := w.res.Config.Weapons.Melee
	now := w.res.Time.Now
	w.tickCooldown(now)

	if w.swingActive {
		if now.Before(w.swingEndsAt) {
			w.sweep()
		} else {
			w.endSwing()
		}
		return
	}

	if w.ready(now) {
		w.swingActive = true
		w.swingEndsAt = now.Add(msToDuration(cfg.SweepDurationMs))
		w.swingFacing = w.res.Player.Facing()
		w.armCooldown(now, msToDuration(cfg.CooldownMs))
		w.sweep()
	}
}

// sweep hits every enemy inside the arc not yet in the exclusion set
func (w *MeleeWeapon) sweep() {
	cfg := w.res.Config.Weapons.Melee
	origin := w.res.Player.Position()
	facingAngle := w.swingFacing.Angle()
	halfArc := cfg.ArcRadians / 2

	for _, ref := range w.visible() {
		key := ref.Key()
		if _, done := w.hitThisSwing[key]; done {
			continue
		}
		to := ref.Pos.Sub(origin)
		if to.MagnitudeSq() > cfg.Range*cfg.Range {
			continue
		}
		if math.Abs(vmath.WrapAngle(to.Angle()-facingAngle)) > halfArc {
			continue
		}
		w.hitThisSwing[key] = struct{}{}
		w.hit(ref, cfg.BaseDamage, cfg.Knockback)
	}
}

// endSwing closes the swing and clears its exclusion set
func (w *MeleeWeapon) endSwing() {
	w.swingActive = false
	for k := range w.hitThisSwing {
		delete(w.hitThisSwing, k)
	}
}

// SwingArc reports the live swing for rendering
func (w *MeleeWeapon) SwingArc() (facing vmath.Vec2, active bool) {
	return w.swingFacing, w.swingActive
}
