package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
)

// Weapon IDs used in events, upgrades, and telemetry
const (
	WeaponProjectile = "projectile"
	WeaponMelee      = "melee"
	WeaponDrone      = "drone"
	WeaponBeam       = "beam"
	WeaponStrike     = "strike"
	WeaponPush       = "push"
)

// weaponBase is the shared half of every weapon system: progression
// state, unlock/upgrade event handling, cooldown tracking, and the
// damage roll. Concrete weapons embed it and add their fire/hit logic.
type weaponBase struct {
	res       *engine.Resources
	id        string
	state     components.WeaponState
	pops      []Population
	baseCount int

	nextFireAt time.Time
	scratch    []TargetRef
}

func newWeaponBase(res *engine.Resources, id string, pops []Population, baseCount int) weaponBase {
	return weaponBase{res: res, id: id, pops: pops, baseCount: baseCount}
}

func (w *weaponBase) WeaponID() string { return w.id }

// IsActive reports whether the weapon participates in the tick
func (w *weaponBase) IsActive() bool { return w.state.Unlocked }

// State exposes the progression snapshot for UI
func (w *weaponBase) State() components.WeaponState { return w.state }

// UnlockAndActivate arms the weapon at level 1. Idempotent: a second
// unlock (relic duplicate, replayed event) changes nothing.
func (w *weaponBase) UnlockAndActivate() {
	if w.state.Unlocked {
		return
	}
	w.state = components.WeaponState{
		Unlocked:         true,
		Level:            1,
		DamageMultiplier: 1,
		SpeedMultiplier:  1,
		Count:            w.baseCount,
	}
}

// resetState disarms the weapon for a new run
func (w *weaponBase) resetState() {
	w.state = components.WeaponState{}
	w.nextFireAt = time.Time{}
}

func (w *weaponBase) EventTypes() []events.EventType {
	return []events.EventType{events.EventWeaponUnlock, events.EventWeaponUpgrade}
}

func (w *weaponBase) HandleEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventWeaponUnlock:
		if p, ok := ev.Payload.(*events.WeaponUnlockPayload); ok && p.WeaponID == w.id {
			w.UnlockAndActivate()
		}
	case events.EventWeaponUpgrade:
		if p, ok := ev.Payload.(*events.WeaponUpgradePayload); ok && p.WeaponID == w.id {
			w.applyUpgrade(p)
		}
	}
}

func (w *weaponBase) applyUpgrade(p *events.WeaponUpgradePayload) {
	if !w.state.Unlocked {
		return
	}
	w.state.Level++
	w.state.DamageMultiplier += p.DamageMultiplier
	w.state.SpeedMultiplier += p.SpeedMultiplier
	w.state.Count += p.CountDelta
}

// ready reports whether the cooldown allows a shot this tick
func (w *weaponBase) ready(now time.Time) bool {
	return w.state.Unlocked && !now.Before(w.nextFireAt)
}

// armCooldown schedules the next shot, speed-scaled
func (w *weaponBase) armCooldown(now time.Time, base time.Duration) {
	w.nextFireAt = now.Add(w.state.EffectiveCooldown(base))
	w.state.CooldownRemaining = w.nextFireAt.Sub(now)
}

// tickCooldown keeps the UI-visible remaining time in sync
func (w *weaponBase) tickCooldown(now time.Time) {
	remaining := w.nextFireAt.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	w.state.CooldownRemaining = remaining
}

// hit rolls damage and applies it to one target through its population.
// knockback is this weapon's shove distance. Returns whether the hit
// killed.
func (w *weaponBase) hit(ref TargetRef, baseDamage, knockback float64) bool {
	dmg, crit := RollDamage(w.res.RNG, baseDamage*w.state.DamageMultiplier, w.res.Config.Player)
	killed := ref.Pop.DamageEnemy(ref.Handle, dmg, knockback, crit, w.id)
	w.res.PushEvent(events.EventWeaponHit, &events.WeaponHitPayload{
		Position: ref.Pos,
		Critical: crit,
	})
	return killed
}

// nearest finds the closest enemy to the player inside the targeting rect
func (w *weaponBase) nearest() (TargetRef, bool) {
	return NearestEnemy(w.pops, w.res.Player.Position(), w.res.Camera.QueryRect(), w.scratch)
}

// visible collects every targetable enemy inside the targeting rect
func (w *weaponBase) visible() []TargetRef {
	w.scratch = CollectVisible(w.pops, w.res.Camera.QueryRect(), w.scratch[:0])
	return w.scratch
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
