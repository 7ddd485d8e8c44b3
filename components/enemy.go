package components

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// EnemyKind tags the owning population
type EnemyKind uint8

const (
	KindBasic EnemyKind = iota
	KindElite
	KindFormation
	KindWalker
)

// String returns the population tag used in events and telemetry
func (k EnemyKind) String() string {
	switch k {
	case KindBasic:
		return "basic"
	case KindElite:
		return "elite"
	case KindFormation:
		return "formation"
	case KindWalker:
		return "walker"
	}
	return "unknown"
}

// BehaviorState is the kind-specific finite state of one enemy.
// Basic and formation enemies stay in StateApproaching for their whole
// life; elite and walker cycle through their shooting/laser states.
type BehaviorState uint8

const (
	StateApproaching BehaviorState = iota

	// StateStationaryShooting: elite only. Velocity zeroed, one shot
	// fired on entry.
	StateStationaryShooting

	// StateAiming: walker only. Telegraphed, deals no damage.
	StateAiming

	// StateFiring: walker only. Beam live, damage ticks apply.
	StateFiring
)

// KnockbackState tracks an in-flight eased displacement.
// Cleared when the enemy dies or the duration elapses — a dead enemy must
// not keep sliding.
type KnockbackState struct {
	Active    bool
	Direction vmath.Vec2 // Unit vector, opposite velocity at impact time
	Distance  float64    // Total displacement over the full duration
	StartedAt time.Time
	Duration  time.Duration
	Progress  float64 // Eased progress already applied, in [0,1]
}

// EnemyInstance is one pooled enemy slot. Plain data: the owning
// population system mutates it; weapons only reach it through the
// population's damage call.
type EnemyInstance struct {
	Kind    EnemyKind
	Subtype string

	Position vmath.Vec2
	Velocity vmath.Vec2

	Health       float64
	MaxHealth    float64
	HitboxRadius float64
	SpeedMult    float64

	State           BehaviorState
	LastStateChange time.Time

	// OffscreenMs accumulates continuous time fully outside the visible
	// rect; reset to zero the moment the enemy is seen again
	OffscreenMs float64

	Knockback KnockbackState

	// NextShotAt gates the elite per-enemy shot cooldown
	NextShotAt time.Time

	// AimDirection is the walker's locked beam direction from aim start
	AimDirection vmath.Vec2

	// LastBeamTickAt spaces the walker's player damage sub-interval
	LastBeamTickAt time.Time

	// Heading is the formation wing's shared straight-line course
	Heading vmath.Vec2
}

// ResetEnemy clears transient fields when a slot returns to its pool
func ResetEnemy(e *EnemyInstance) {
	*e = EnemyInstance{}
}

// Hitbox returns the enemy's collision rectangle centered on its position
func (e *EnemyInstance) Hitbox() vmath.Rect {
	r := e.HitboxRadius
	return vmath.Rect{
		X:      e.Position.X - r,
		Y:      e.Position.Y - r,
		Width:  2 * r,
		Height: 2 * r,
	}
}
