package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// BeamWeapon fires a persistent line from the player through the nearest
// target, overshooting far past it. While live, a collision pass runs on
// the tick sub-interval (not every frame) against candidate hitboxes;
// each enemy additionally carries a half-interval re-hit cooldown so one
// pass cannot double-damage it.
type BeamWeapon struct {
	weaponBase

	active     bool
	start, end vmath.Vec2
	firedAt    time.Time
	expiresAt  time.Time
	nextTickAt time.Time

	lastHitAt map[TargetKey]time.Time
}

func NewBeamWeapon(res *engine.Resources, pops []Population) *BeamWeapon {
	return &BeamWeapon{
		weaponBase: newWeaponBase(res, WeaponBeam, pops, 1),
		lastHitAt:  make(map[TargetKey]time.Time),
	}
}

func (w *BeamWeapon) Name() string { return "weapon.beam" }

func (w *BeamWeapon) Priority() int { return PriorityBeam }

func (w *BeamWeapon) Init() {
	w.resetState()
	w.active = false
	clear(w.lastHitAt)
}

func (w *BeamWeapon) Update() {
	if !w.IsActive() {
		return
	}
	cfg := w.res.Config.Weapons.Beam
	now := w.res.Time.Now
	w.tickCooldown(now)

	if w.active {
		if now.Before(w.expiresAt) {
			if !now.Before(w.nextTickAt) {
				w.nextTickAt = now.Add(msToDuration(cfg.TickIntervalMs))
				w.damagePass(now)
			}
		} else {
			w.active = false
			clear(w.lastHitAt)
		}
		return
	}

	if w.ready(now) {
		w.fire(now)
		w.damagePass(now)
		w.nextTickAt = now.Add(msToDuration(cfg.TickIntervalMs))
		w.armCooldown(now, msToDuration(cfg.CooldownMs))
	}
}

// fire aims through the nearest enemy, or down the player's facing when
// nothing is targetable, and overshoots to the full beam length
func (w *BeamWeapon) fire(now time.Time) {
	cfg := w.res.Config.Weapons.Beam
	origin := w.res.Player.Position()

	dir := w.res.Player.Facing()
	if target, ok := w.nearest(); ok {
		to := target.Pos.Sub(origin)
		if to.MagnitudeSq() > 0 {
			dir = to.Normalize()
		}
	}
	if dir.MagnitudeSq() == 0 {
		dir = vmath.Vec2{X: 1}
	}

	w.active = true
	w.start = origin
	w.end = origin.Add(dir.Scale(cfg.Length))
	w.firedAt = now
	// Upgrade count extends how long the beam persists
	w.expiresAt = now.Add(msToDuration(cfg.DurationMs) * time.Duration(w.state.Count))
	clear(w.lastHitAt)
}

// damagePass runs line-vs-hitbox tests over every candidate
func (w *BeamWeapon) damagePass(now time.Time) {
	cfg := w.res.Config.Weapons.Beam
	rehit := msToDuration(cfg.TickIntervalMs) / 2

	for _, ref := range w.visible() {
		key := ref.Key()
		if last, seen := w.lastHitAt[key]; seen && now.Sub(last) < rehit {
			continue
		}
		if !vmath.LineIntersectsRect(w.start, w.end, ref.Hitbox) {
			continue
		}
		w.lastHitAt[key] = now
		w.hit(ref, cfg.BaseDamage, cfg.Knockback)
	}
}

// Segment reports the live beam with its fade progress in [0,1]
func (w *BeamWeapon) Segment() (start, end vmath.Vec2, fade float64, active bool) {
	if !w.active {
		return vmath.Vec2{}, vmath.Vec2{}, 0, false
	}
	total := w.expiresAt.Sub(w.firedAt)
	if total <= 0 {
		return w.start, w.end, 1, true
	}
	fade = float64(w.res.Time.Now.Sub(w.firedAt)) / float64(total)
	return w.start, w.end, vmath.Clamp(fade, 0, 1), true
}
