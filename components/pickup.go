package components

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// PickupKind distinguishes the collectible types
type PickupKind uint8

const (
	PickupOrb PickupKind = iota
	PickupRelic
	PickupHealth
)

// Pickup is one pooled collectible on the ground
type Pickup struct {
	Kind     PickupKind
	Position vmath.Vec2
	XP       int // Orbs only
	ExpireAt time.Time
}

// ResetPickup clears a slot on release
func ResetPickup(p *Pickup) {
	*p = Pickup{}
}
