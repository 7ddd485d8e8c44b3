package systems

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// strikePoolSize caps in-flight airstrike shells
const strikePoolSize = 16

// StrikeWeapon drops shells on a fixed interval. Each shot picks a
// random visible enemy's position (falling back to the player when the
// arena is empty), clamps it inside the camera, and flies for a time
// proportional to distance. Impact is a flat-radius circle query across
// every population, boundary inclusive.
type StrikeWeapon struct {
	weaponBase

	shells *engine.Pool[components.StrikeShell]
}

func NewStrikeWeapon(res *engine.Resources, pops []Population) *StrikeWeapon {
	return &StrikeWeapon{
		weaponBase: newWeaponBase(res, WeaponStrike, pops, 1),
		shells:     engine.NewPool(strikePoolSize, components.ResetStrikeShell),
	}
}

func (w *StrikeWeapon) Name() string { return "weapon.strike" }

func (w *StrikeWeapon) Priority() int { return PriorityStrike }

func (w *StrikeWeapon) Init() {
	w.resetState()
	w.releaseAll()
}

func (w *StrikeWeapon) Destroy() {
	w.releaseAll()
}

func (w *StrikeWeapon) Update() {
	if !w.IsActive() {
		return
	}
	cfg := w.res.Config.Weapons.Strike
	now := w.res.Time.Now
	w.tickCooldown(now)

	if w.ready(now) {
		// Count upgrades drop extra shells per volley
		for i := 0; i < w.state.Count; i++ {
			w.launch()
		}
		w.armCooldown(now, msToDuration(cfg.IntervalMs))
	}

	w.resolveArrivals(now)
}

// launch picks the target and schedules the shell's arrival
func (w *StrikeWeapon) launch() {
	cfg := w.res.Config.Weapons.Strike

	target := w.res.Player.Position() // Fallback: empty arena
	if targets := w.visible(); len(targets) > 0 {
		target = targets[w.res.RNG.Intn(len(targets))].Pos
	}
	target = w.res.Camera.ViewRect().ClampPoint(target)

	_, shell := w.shells.Acquire()
	if shell == nil {
		return
	}
	dist := vmath.Distance(w.res.Player.Position(), target)
	shell.Target = target
	shell.ArriveAt = w.res.Time.Now.Add(msToDuration(int(dist * cfg.TravelMsPerUnit)))
}

// resolveArrivals detonates every shell whose flight time elapsed
func (w *StrikeWeapon) resolveArrivals(now time.Time) {
	cfg := w.res.Config.Weapons.Strike

	w.shells.ForEachActive(func(h core.Handle, shell *components.StrikeShell) {
		if now.Before(shell.ArriveAt) {
			return
		}
		center := shell.Target
		w.shells.Release(h)

		for _, ref := range w.visible() {
			if !vmath.CircleContainsPoint(center, cfg.Radius, ref.Pos) {
				continue
			}
			w.hit(ref, cfg.BaseDamage, cfg.Knockback)
		}
		w.res.PushEvent(events.EventWeaponHit, &events.WeaponHitPayload{Position: center})
	})
}

func (w *StrikeWeapon) releaseAll() {
	handles := make([]core.Handle, 0, w.shells.ActiveCount())
	w.shells.ForEachActive(func(h core.Handle, _ *components.StrikeShell) {
		handles = append(handles, h)
	})
	for _, h := range handles {
		w.shells.Release(h)
	}
}

// PendingShells reports in-flight shells for the falling-marker visuals
func (w *StrikeWeapon) PendingShells(fn func(target vmath.Vec2, remaining time.Duration)) {
	now := w.res.Time.Now
	w.shells.ForEachActive(func(_ core.Handle, shell *components.StrikeShell) {
		remaining := shell.ArriveAt.Sub(now)
		if remaining < 0 {
			remaining = 0
		}
		fn(shell.Target, remaining)
	})
}
