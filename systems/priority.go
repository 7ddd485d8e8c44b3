package systems

// System priorities: lowest runs first within a tick.
// Populations run strictly before weapons so a fresh spawn is targetable
// the same tick, and a kill is released before next tick's spawn
// accounting.
const (
	PriorityPlayer = 10

	PriorityBasic     = 20
	PriorityFormation = 21
	PriorityElite     = 22
	PriorityWalker    = 23

	PriorityProjectile = 40
	PriorityMelee      = 41
	PriorityDrone      = 42
	PriorityBeam       = 43
	PriorityStrike     = 44
	PriorityPush       = 45

	PriorityCollection = 60
)
