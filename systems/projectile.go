package systems

import (
	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// projectilePoolSize caps live player projectiles
const projectilePoolSize = 128

// ProjectileWeapon is the starting auto-aim cannon: on cooldown it fires
// a volley at the nearest enemy, fanning extra projectiles around the
// aim direction.
type ProjectileWeapon struct {
	weaponBase

	pool *engine.Pool[components.Projectile]
}

func NewProjectileWeapon(res *engine.Resources, pops []Population) *ProjectileWeapon {
	return &ProjectileWeapon{
		weaponBase: newWeaponBase(res, WeaponProjectile, pops, res.Config.Weapons.Projectile.BaseCount),
		pool:       engine.NewPool(projectilePoolSize, components.ResetProjectile),
	}
}

func (w *ProjectileWeapon) Name() string { return "weapon.projectile" }

func (w *ProjectileWeapon) Priority() int { return PriorityProjectile }

// Init arms the cannon: it is the weapon the player starts with
func (w *ProjectileWeapon) Init() {
	w.resetState()
	w.releaseAll()
	w.UnlockAndActivate()
}

func (w *ProjectileWeapon) Destroy() {
	w.releaseAll()
}

func (w *ProjectileWeapon) Update() {
	if !w.IsActive() {
		return
	}
	cfg := w.res.Config.Weapons.Projectile
	now := w.res.Time.Now
	w.tickCooldown(now)

	if w.ready(now) {
		if target, ok := w.nearest(); ok {
			w.fireVolley(target.Pos)
			w.armCooldown(now, msToDuration(cfg.CooldownMs))
		}
		// No target: stay ready, try again next tick
	}

	w.updateShots()
}

// fireVolley launches Count projectiles fanned around the target line
func (w *ProjectileWeapon) fireVolley(target vmath.Vec2) {
	cfg := w.res.Config.Weapons.Projectile
	origin := w.res.Player.Position()
	dir := target.Sub(origin)
	if dir.MagnitudeSq() == 0 {
		return
	}
	dir = dir.Normalize()

	count := w.state.Count
	for i := 0; i < count; i++ {
		// Center the fan: one shot flies straight, the rest alternate
		// around it
		offset := 0.0
		if count > 1 {
			offset = (float64(i) - float64(count-1)/2) * cfg.SpreadRadians
		}
		_, shot := w.pool.Acquire()
		if shot == nil {
			return
		}
		shot.Position = origin
		shot.Velocity = dir.Rotate(offset).Scale(cfg.Speed)
		shot.Damage = cfg.BaseDamage
		shot.Knockback = cfg.Knockback
		shot.HitRadius = 5
		shot.ExpireAt = w.res.Time.Now.Add(msToDuration(cfg.LifetimeMs))
	}
}

func (w *ProjectileWeapon) updateShots() {
	now := w.res.Time.Now
	dt := w.res.Time.Delta.Seconds()
	targets := w.visible()

	w.pool.ForEachActive(func(h core.Handle, shot *components.Projectile) {
		if !now.Before(shot.ExpireAt) {
			w.pool.Release(h)
			return
		}
		shot.Position = shot.Position.Add(shot.Velocity.Scale(dt))

		for _, ref := range targets {
			if ref.Hitbox.Expand(shot.HitRadius).Contains(shot.Position) {
				w.hit(ref, shot.Damage, shot.Knockback)
				w.pool.Release(h)
				return
			}
		}
	})
}

func (w *ProjectileWeapon) releaseAll() {
	handles := make([]core.Handle, 0, w.pool.ActiveCount())
	w.pool.ForEachActive(func(h core.Handle, _ *components.Projectile) {
		handles = append(handles, h)
	})
	for _, h := range handles {
		w.pool.Release(h)
	}
}

// ActiveShots exposes live projectiles for rendering
func (w *ProjectileWeapon) ActiveShots(fn func(pos vmath.Vec2)) {
	w.pool.ForEachActive(func(_ core.Handle, shot *components.Projectile) {
		fn(shot.Position)
	})
}
