package systems

import (
	"math"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// pickupContactRadius is the collect distance once magnetized
const pickupContactRadius = 10.0

// orbScatterRadius spreads multi-orb drops around the death position
const orbScatterRadius = 18.0

// relicUpgradeDamageStep is the damage bonus a relic grants
const relicUpgradeDamageStep = 0.15

// relicUpgradeSpeedStep is the fire-rate bonus a relic grants
const relicUpgradeSpeedStep = 0.1

// weaponIDs is the upgrade roll table for relic pickups
var weaponIDs = []string{
	WeaponProjectile, WeaponMelee, WeaponDrone,
	WeaponBeam, WeaponStrike, WeaponPush,
}

// CollectionSystem owns everything lying on the ground: experience orbs,
// relics, and health packs. It consumes the drop events the populations
// emit, magnetizes orbs toward the player, converts collected XP into
// level-ups, and drives the level-based weapon unlock schedule.
type CollectionSystem struct {
	res  *engine.Resources
	pool *engine.Pool[components.Pickup]
}

func NewCollectionSystem(res *engine.Resources) *CollectionSystem {
	return &CollectionSystem{
		res:  res,
		pool: engine.NewPool(res.Config.Collection.MaxPickups, components.ResetPickup),
	}
}

func (s *CollectionSystem) Name() string { return "collection" }

func (s *CollectionSystem) Priority() int { return PriorityCollection }

func (s *CollectionSystem) Init() {
	s.releaseAll()
}

func (s *CollectionSystem) Destroy() {
	s.releaseAll()
}

func (s *CollectionSystem) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventOrbDropRequest,
		events.EventRelicDropped,
		events.EventHealthDropped,
		events.EventGameReset,
	}
}

func (s *CollectionSystem) HandleEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventOrbDropRequest:
		if p, ok := ev.Payload.(*events.OrbDropPayload); ok {
			s.spawnOrbs(p)
		}
	case events.EventRelicDropped:
		if p, ok := ev.Payload.(*events.PickupDropPayload); ok {
			s.spawnPickup(components.PickupRelic, p.Position, 0)
		}
	case events.EventHealthDropped:
		if p, ok := ev.Payload.(*events.PickupDropPayload); ok {
			s.spawnPickup(components.PickupHealth, p.Position, 0)
		}
	case events.EventGameReset:
		s.releaseAll()
	}
}

func (s *CollectionSystem) Update() {
	playerPos := s.res.Player.Position()
	magnetSq := s.res.Config.Player.MagnetRadius * s.res.Config.Player.MagnetRadius
	drift := s.res.Config.Collection.OrbDriftSpeed
	now := s.res.Time.Now
	dt := s.res.Time.Delta.Seconds()

	s.pool.ForEachActive(func(h core.Handle, p *components.Pickup) {
		if !p.ExpireAt.IsZero() && !now.Before(p.ExpireAt) {
			s.pool.Release(h)
			return
		}

		distSq := vmath.DistanceSq(p.Position, playerPos)
		if distSq <= magnetSq {
			dir := playerPos.Sub(p.Position)
			if dir.MagnitudeSq() > 0 {
				p.Position = p.Position.Add(dir.Normalize().Scale(drift * dt))
			}
		}
		if distSq <= pickupContactRadius*pickupContactRadius {
			s.collect(p)
			s.pool.Release(h)
		}
	})
}

func (s *CollectionSystem) collect(p *components.Pickup) {
	switch p.Kind {
	case components.PickupOrb:
		if levels := s.res.Player.GainXP(p.XP); levels > 0 {
			s.onLevelUp()
		}
	case components.PickupHealth:
		s.res.Player.Heal(s.res.Config.Collection.HealthPickupAmount)
	case components.PickupRelic:
		s.applyRelic()
	}
}

// onLevelUp announces the new level and fires any unlocks it crossed.
// Multi-level jumps emit every unlock on the way up.
func (s *CollectionSystem) onLevelUp() {
	level := s.res.Player.Level()
	s.res.PushEvent(events.EventLevelUp, &events.LevelUpPayload{Level: level})
	if s.res.Stats != nil {
		s.res.Stats.RecordLevel(level)
	}

	for unlockLevel, weaponID := range s.res.Config.Player.WeaponUnlockLevels {
		if unlockLevel <= level {
			s.res.PushEvent(events.EventWeaponUnlock, &events.WeaponUnlockPayload{
				WeaponID: weaponID,
			})
		}
	}
}

// applyRelic rolls a random weapon upgrade. Locked weapons drop the
// upgrade on the floor, which keeps relics meaningful without the
// collection layer tracking weapon states.
func (s *CollectionSystem) applyRelic() {
	id := weaponIDs[s.res.RNG.Intn(len(weaponIDs))]
	s.res.PushEvent(events.EventWeaponUpgrade, &events.WeaponUpgradePayload{
		WeaponID:         id,
		DamageMultiplier: relicUpgradeDamageStep,
		SpeedMultiplier:  relicUpgradeSpeedStep,
	})
}

func (s *CollectionSystem) spawnOrbs(p *events.OrbDropPayload) {
	for i := 0; i < p.Count; i++ {
		// Fan the orbs around the death position
		angle := 2 * math.Pi * float64(i) / float64(p.Count)
		offset := vmath.FromAngle(angle).Scale(s.res.RNG.Range(0, orbScatterRadius))
		s.spawnPickup(components.PickupOrb, p.Position.Add(offset), p.XPEach)
	}
}

// spawnPickup places one pickup; a full pool drops it silently
func (s *CollectionSystem) spawnPickup(kind components.PickupKind, pos vmath.Vec2, xp int) {
	_, p := s.pool.Acquire()
	if p == nil {
		return
	}
	p.Kind = kind
	p.Position = pos
	p.XP = xp
	if kind == components.PickupOrb {
		p.ExpireAt = s.res.Time.Now.Add(msToDuration(s.res.Config.Collection.OrbLifetimeMs))
	}
}

func (s *CollectionSystem) releaseAll() {
	handles := make([]core.Handle, 0, s.pool.ActiveCount())
	s.pool.ForEachActive(func(h core.Handle, _ *components.Pickup) {
		handles = append(handles, h)
	})
	for _, h := range handles {
		s.pool.Release(h)
	}
}

// Pickups exposes ground items for rendering
func (s *CollectionSystem) Pickups(fn func(kind components.PickupKind, pos vmath.Vec2)) {
	s.pool.ForEachActive(func(_ core.Handle, p *components.Pickup) {
		fn(p.Kind, p.Position)
	})
}
