package events

// EventType represents the type of game event
type EventType int

const (
	// EventEnemyKilled signals an enemy death with drops already rolled
	// Trigger: population damage contract on lethal hit
	// Consumers: RenderSystem (death flash), AudioEngine, StatsRecorder
	// Payload: *EnemyKilledPayload
	EventEnemyKilled EventType = iota

	// EventEnemyDespawned signals an off-screen release back to the pool.
	// No drops, no visuals beyond removal | Payload: *EnemyDespawnedPayload
	EventEnemyDespawned

	// EventDamageNumber requests a floating damage number
	// Trigger: every damage application, lethal or not
	// Consumer: RenderSystem | Payload: *DamageNumberPayload
	EventDamageNumber

	// EventWeaponHit signals a weapon impact for hit visuals
	// Consumer: RenderSystem, AudioEngine | Payload: *WeaponHitPayload
	EventWeaponHit

	// EventOrbDropRequest asks the collection layer to spawn experience orbs
	// Trigger: enemy death drop roll
	// Consumer: CollectionSystem | Payload: *OrbDropPayload
	EventOrbDropRequest

	// EventRelicDropped signals a relic drop at a world position
	// Consumer: CollectionSystem | Payload: *PickupDropPayload
	EventRelicDropped

	// EventHealthDropped signals a health pickup drop
	// Consumer: CollectionSystem | Payload: *PickupDropPayload
	EventHealthDropped

	// EventPlayerDamaged signals damage applied to the player
	// Trigger: walker beam tick, elite projectile, contact damage
	// Consumers: PlayerSystem (health), RenderSystem (hit flash)
	// Payload: *PlayerDamagedPayload
	EventPlayerDamaged

	// EventLevelUp signals a player level increase
	// Trigger: CollectionSystem XP threshold crossing
	// Consumers: every SpawnScheduler (interval recompute), weapon unlock
	// schedule, AudioEngine | Payload: *LevelUpPayload
	EventLevelUp

	// EventWeaponUnlock requests idempotent activation of a weapon
	// Trigger: level-based unlock schedule, relic pickup
	// Consumer: the named weapon system | Payload: *WeaponUnlockPayload
	EventWeaponUnlock

	// EventWeaponUpgrade applies an upgrade to a weapon's state
	// Trigger: upgrade selection flow
	// Consumer: the named weapon system | Payload: *WeaponUpgradePayload
	EventWeaponUpgrade

	// EventGamePause freezes the pausable clock and all timers | Payload: nil
	EventGamePause

	// EventGameResume unfreezes game time | Payload: nil
	EventGameResume

	// EventGameReset reinitializes session state in every system | Payload: nil
	EventGameReset

	// EventGameOver signals player health reaching zero | Payload: nil
	EventGameOver
)

// GameEvent is a single queued event
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}

// queue sizing; must be a power of two for mask indexing
const (
	QueueSize  = 1024
	bufferMask = QueueSize - 1
)
