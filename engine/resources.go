package engine

import (
	"time"

	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/status"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// TimeResource is the per-tick timing snapshot every system reads.
// Updated once by the scheduler before systems run; values are stable for
// the duration of the tick.
type TimeResource struct {
	Now      time.Time     // Game time (pause-adjusted)
	Real     time.Time     // Wall clock
	Delta    time.Duration // Fixed tick interval
	Elapsed  time.Duration // Game time since run start
	Frame    int64
}

// Update refreshes the snapshot at tick start
func (tr *TimeResource) Update(now, real time.Time, delta, elapsed time.Duration, frame int64) {
	tr.Now = now
	tr.Real = real
	tr.Delta = delta
	tr.Elapsed = elapsed
	tr.Frame = frame
}

// StatsRecorder is the optional telemetry collaborator. A nil recorder is
// valid; gameplay correctness never depends on it.
type StatsRecorder interface {
	RecordWeaponDamage(weaponID string, amount float64)
	RecordKill(populationID string)
	RecordLevel(level int)
}

// Resources is the shared dependency record injected into every system.
// Cross-component dependencies are declared here, not discovered at runtime.
type Resources struct {
	Clock  *PausableClock
	Time   *TimeResource
	Camera *Camera
	Player *PlayerState
	Config *config.Config
	Queue  *events.Queue
	Status *status.Registry
	RNG    *vmath.FastRand
	Stats  StatsRecorder // May be nil
}

// NewResources wires the standard resource set
func NewResources(cfg *config.Config, clock *PausableClock, seed uint64) *Resources {
	player := NewPlayerState(cfg.Player)
	return &Resources{
		Clock:  clock,
		Time:   &TimeResource{},
		Camera: NewCamera(cfg.Camera, player.Position()),
		Player: player,
		Config: cfg,
		Queue:  events.NewQueue(),
		Status: status.NewRegistry(),
		RNG:    vmath.NewFastRand(seed),
	}
}

// PushEvent emits a game event onto the shared queue
func (r *Resources) PushEvent(t events.EventType, payload any) {
	r.Queue.Push(events.GameEvent{
		Type:    t,
		Payload: payload,
		Frame:   r.Time.Frame,
	})
}

// RecordWeaponDamage forwards to the stats collaborator when present
func (r *Resources) RecordWeaponDamage(weaponID string, amount float64) {
	if r.Stats != nil {
		r.Stats.RecordWeaponDamage(weaponID, amount)
	}
}

// RecordKill forwards to the stats collaborator when present
func (r *Resources) RecordKill(populationID string) {
	if r.Stats != nil {
		r.Stats.RecordKill(populationID)
	}
}
