package systems

import (
	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// RollDamage applies the player's crit roll to a base amount
func RollDamage(rng *vmath.FastRand, base float64, player config.PlayerConfig) (damage float64, crit bool) {
	if rng.Chance(player.CritChance) {
		return base * player.CritMultiplier, true
	}
	return base, false
}

// DropRoll is the outcome of one death's drop table
type DropRoll struct {
	OrbCount int
	Relic    bool
	Health   bool
}

// RollDrops resolves a population's drop table. Orbs are guaranteed;
// relic and health are independent rolls.
func RollDrops(rng *vmath.FastRand, drops config.DropConfig) DropRoll {
	return DropRoll{
		OrbCount: drops.ExperienceOrbCount,
		Relic:    rng.Chance(drops.RelicChance),
		Health:   rng.Chance(drops.HealthChance),
	}
}
