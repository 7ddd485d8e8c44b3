package components

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// Projectile is one pooled projectile slot, used both for the player's
// auto-aim cannon and elite return fire
type Projectile struct {
	Position vmath.Vec2
	Velocity vmath.Vec2

	Damage    float64
	Knockback float64

	// HitRadius is the contact distance to a target's hitbox center
	HitRadius float64

	ExpireAt time.Time
}

// ResetProjectile clears a slot on release
func ResetProjectile(p *Projectile) {
	*p = Projectile{}
}

// StrikeShell is one in-flight airstrike shell; impact resolves on arrival
type StrikeShell struct {
	Target   vmath.Vec2
	ArriveAt time.Time
}

// ResetStrikeShell clears a slot on release
func ResetStrikeShell(s *StrikeShell) {
	*s = StrikeShell{}
}
