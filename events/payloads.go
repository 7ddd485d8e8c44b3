package events

import "github.com/philkrause/mech-survivor-sub000/vmath"

// EnemyKilledPayload describes a kill for visuals, audio, and telemetry
type EnemyKilledPayload struct {
	Position vmath.Vec2
	Kind     string // Population tag: basic, elite, formation, walker
	Subtype  string
	WeaponID string // Weapon that landed the lethal hit, "" if unknown
}

// EnemyDespawnedPayload describes an off-screen release (not a kill)
type EnemyDespawnedPayload struct {
	Position vmath.Vec2
	Kind     string
}

// DamageNumberPayload carries one floating damage number
type DamageNumberPayload struct {
	Position vmath.Vec2
	Amount   float64
	Critical bool
}

// WeaponHitPayload carries impact visuals data
type WeaponHitPayload struct {
	Position vmath.Vec2
	Critical bool
}

// OrbDropPayload requests experience orb spawns around a death position
type OrbDropPayload struct {
	Position vmath.Vec2
	Count    int
	XPEach   int
}

// PickupDropPayload places a relic or health pickup
type PickupDropPayload struct {
	Position vmath.Vec2
}

// PlayerDamagedPayload carries damage applied to the player
type PlayerDamagedPayload struct {
	Amount float64
	Source string // Population tag of the attacker
}

// LevelUpPayload carries the new player level
type LevelUpPayload struct {
	Level int
}

// WeaponUnlockPayload names the weapon to activate
type WeaponUnlockPayload struct {
	WeaponID string
}

// WeaponUpgradePayload adjusts one weapon's state.
// Multipliers are deltas applied on top of the current state; Count adds
// projectiles/drones or extends duration depending on the weapon.
type WeaponUpgradePayload struct {
	WeaponID         string
	DamageMultiplier float64
	SpeedMultiplier  float64
	CountDelta       int
}
