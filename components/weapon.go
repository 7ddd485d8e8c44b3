package components

import "time"

// WeaponState is one weapon's mutable progression state. Mutated only by
// the upgrade flow (via events); the owning weapon system reads it every
// tick and manages CooldownRemaining itself.
type WeaponState struct {
	Unlocked bool
	Level    int // Upgrade count, starts at 1 on unlock

	CooldownRemaining time.Duration

	// DamageMultiplier scales the weapon's base damage
	DamageMultiplier float64

	// SpeedMultiplier divides the base cooldown: higher is faster
	SpeedMultiplier float64

	// Count is weapon-specific: projectile volley size, drone count,
	// or extra beam/strike duration steps
	Count int
}

// EffectiveCooldown applies the speed multiplier as an interval divisor
func (ws *WeaponState) EffectiveCooldown(base time.Duration) time.Duration {
	if ws.SpeedMultiplier <= 0 {
		return base
	}
	return time.Duration(float64(base) / ws.SpeedMultiplier)
}
