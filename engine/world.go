package engine

import (
	"sync"

	"github.com/philkrause/mech-survivor-sub000/events"
)

// World owns the system registry and the shared resource record
type World struct {
	mu       sync.RWMutex
	Resource *Resources

	systems     []System
	updateMutex sync.Mutex
}

// NewWorld creates a world around the given resources
func NewWorld(res *Resources) *World {
	return &World{
		Resource: res,
		systems:  make([]System, 0),
	}
}

// AddSystem registers a system and keeps the registry sorted by priority
func (w *World) AddSystem(system System) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.systems = append(w.systems, system)

	// Insertion sort, small N
	for i := len(w.systems) - 1; i > 0; i-- {
		if w.systems[i-1].Priority() <= w.systems[i].Priority() {
			break
		}
		w.systems[i-1], w.systems[i] = w.systems[i], w.systems[i-1]
	}
}

// Systems returns a copy of all registered systems.
// Used by the scheduler for event handler auto-registration.
func (w *World) Systems() []System {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// RunSafe executes fn while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// Update runs all systems sequentially in priority order
func (w *World) Update() {
	w.mu.RLock()
	systems := make([]System, len(w.systems))
	copy(systems, w.systems)
	w.mu.RUnlock()

	for _, system := range systems {
		system.Update()
	}
}

// InitAll reinitializes every system for a fresh run
func (w *World) InitAll() {
	for _, s := range w.Systems() {
		s.Init()
	}
}

// DestroyAll tears down systems that own releasable resources
func (w *World) DestroyAll() {
	for _, s := range w.Systems() {
		if d, ok := s.(Destroyer); ok {
			d.Destroy()
		}
	}
}

// PushEvent emits a game event through the shared resources
func (w *World) PushEvent(t events.EventType, payload any) {
	w.Resource.PushEvent(t, payload)
}
