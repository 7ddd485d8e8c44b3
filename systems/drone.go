package systems

import (
	"math"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// DroneWeapon orbits drones around the player at evenly spaced angles.
// Each drone damages an enemy on contact at most once per revolution:
// the enemy enters the drone's exclusion set, which clears when the
// orbit angle wraps past its hit angle again.
type DroneWeapon struct {
	weaponBase

	angle float64 // Shared orbit phase, radians

	// accum tracks orbit travel since each drone last hit each enemy; a
	// full revolution re-arms that pair. Sets are per drone, so two
	// drones passing the same enemy each land their own hit.
	accum map[droneHitKey]float64
}

type droneHitKey struct {
	drone  int
	target TargetKey
}

func NewDroneWeapon(res *engine.Resources, pops []Population) *DroneWeapon {
	return &DroneWeapon{
		weaponBase: newWeaponBase(res, WeaponDrone, pops, res.Config.Weapons.Drone.BaseCount),
		accum:      make(map[droneHitKey]float64),
	}
}

func (w *DroneWeapon) Name() string { return "weapon.drone" }

func (w *DroneWeapon) Priority() int { return PriorityDrone }

func (w *DroneWeapon) Init() {
	w.resetState()
	w.angle = 0
	clear(w.accum)
}

func (w *DroneWeapon) Update() {
	if !w.IsActive() {
		return
	}
	cfg := w.res.Config.Weapons.Drone
	dt := w.res.Time.Delta.Seconds()
	step := cfg.AngularSpeed * dt
	w.angle = math.Mod(w.angle+step, 2*math.Pi)

	// Advance per-enemy revolution accumulators; a full turn re-arms
	for key := range w.accum {
		w.accum[key] += step
		if w.accum[key] >= 2*math.Pi {
			delete(w.accum, key)
		}
	}

	targets := w.visible()
	for i := 0; i < w.state.Count; i++ {
		pos := w.dronePosition(i)
		for _, ref := range targets {
			key := droneHitKey{drone: i, target: ref.Key()}
			if _, excluded := w.accum[key]; excluded {
				continue
			}
			reach := cfg.HitRadius + ref.Hitbox.Width/2
			if vmath.DistanceSq(pos, ref.Pos) > reach*reach {
				continue
			}
			if !w.hit(ref, cfg.BaseDamage, cfg.Knockback) {
				// Survivors are excluded until the orbit wraps; kills
				// free the slot so a reused handle starts clean
				w.accum[key] = 0
			}
		}
	}
}

// dronePosition places drone i on the shared orbit, evenly phased
func (w *DroneWeapon) dronePosition(i int) vmath.Vec2 {
	phase := w.angle + 2*math.Pi*float64(i)/float64(w.state.Count)
	return w.res.Player.Position().Add(vmath.FromAngle(phase).Scale(w.res.Config.Weapons.Drone.OrbitRadius))
}

// Drones reports current drone positions for rendering
func (w *DroneWeapon) Drones(fn func(pos vmath.Vec2)) {
	if !w.IsActive() {
		return
	}
	for i := 0; i < w.state.Count; i++ {
		fn(w.dronePosition(i))
	}
}
