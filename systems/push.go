package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// pushFlashDuration is how long the shockwave ring stays visible
const pushFlashDuration = 300 * time.Millisecond

// PushWeapon is the radial shockwave: low damage, heavy knockback,
// everything within the radius in one burst. The knockback itself comes
// from the population damage contract; the weapon only supplies the
// shove origin at the player's position.
type PushWeapon struct {
	weaponBase

	lastFiredAt time.Time
}

func NewPushWeapon(res *engine.Resources, pops []Population) *PushWeapon {
	return &PushWeapon{
		weaponBase: newWeaponBase(res, WeaponPush, pops, 1),
	}
}

func (w *PushWeapon) Name() string { return "weapon.push" }

func (w *PushWeapon) Priority() int { return PriorityPush }

func (w *PushWeapon) Init() {
	w.resetState()
	w.lastFiredAt = time.Time{}
}

func (w *PushWeapon) Update() {
	if !w.IsActive() {
		return
	}
	cfg := w.res.Config.Weapons.Push
	now := w.res.Time.Now
	w.tickCooldown(now)
	if !w.ready(now) {
		return
	}

	origin := w.res.Player.Position()
	fired := false
	for _, ref := range w.visible() {
		if !vmath.CircleContainsPoint(origin, cfg.Radius, ref.Pos) {
			continue
		}
		fired = true
		w.hit(ref, cfg.BaseDamage, cfg.Knockback)
	}

	// An empty radius holds the charge; the wave only fires with
	// something to shove
	if fired {
		w.lastFiredAt = now
		w.armCooldown(now, msToDuration(cfg.CooldownMs))
	}
}

// Shockwave reports the expanding ring for rendering
func (w *PushWeapon) Shockwave() (origin vmath.Vec2, progress float64, active bool) {
	if w.lastFiredAt.IsZero() {
		return vmath.Vec2{}, 0, false
	}
	since := w.res.Time.Now.Sub(w.lastFiredAt)
	if since > pushFlashDuration {
		return vmath.Vec2{}, 0, false
	}
	return w.res.Player.Position(), float64(since) / float64(pushFlashDuration), true
}
