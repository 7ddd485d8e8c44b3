package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides pausable game time with pause duration tracking.
// Everything gameplay-facing (spawn timers, weapon cooldowns, behavior
// phases) reads this clock, so pausing the game freezes all of them at once.
type PausableClock struct {
	mu sync.RWMutex

	// Base time tracking
	realStartTime time.Time // When clock was created (real time)
	gameStartTime time.Time // Game time epoch (adjusted for pauses)

	// Pause state
	isPaused        atomic.Bool
	pauseStartTime  time.Time     // When current pause started (real time)
	totalPausedTime time.Duration // Cumulative pause duration

	provider TimeProvider
}

// NewPausableClock creates a clock over the real monotonic time source
func NewPausableClock() *PausableClock {
	return NewPausableClockWith(NewMonotonicTimeProvider())
}

// NewPausableClockWith creates a clock over the given provider.
// Tests pass a MockTimeProvider here.
func NewPausableClockWith(provider TimeProvider) *PausableClock {
	now := provider.Now()
	return &PausableClock{
		realStartTime: now,
		gameStartTime: now,
		provider:      provider,
	}
}

// Now returns current game time (affected by pause)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		// During pause: frozen at the pause point
		return pc.gameStartTime.Add(pc.pauseStartTime.Sub(pc.realStartTime) - pc.totalPausedTime)
	}

	realElapsed := pc.provider.Now().Sub(pc.realStartTime)
	gameElapsed := realElapsed - pc.totalPausedTime
	return pc.gameStartTime.Add(gameElapsed)
}

// Elapsed returns game time since clock creation
func (pc *PausableClock) Elapsed() time.Duration {
	return pc.Now().Sub(pc.gameStartTime)
}

// RealTime returns wall clock time (unaffected by pause)
func (pc *PausableClock) RealTime() time.Time {
	return pc.provider.Now()
}

// Pause stops game time advancement
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		pc.pauseStartTime = pc.provider.Now()
	}
}

// Resume continues game time advancement
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		defer pc.mu.Unlock()

		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.provider.Now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
	}
}

// Restart rebases the clock epoch so Elapsed reads zero again.
// Used on session reset; any pause in progress is cleared.
func (pc *PausableClock) Restart() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	now := pc.provider.Now()
	pc.realStartTime = now
	pc.gameStartTime = now
	pc.totalPausedTime = 0
	pc.pauseStartTime = time.Time{}
	pc.isPaused.Store(false)
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPauseDuration returns cumulative pause time
func (pc *PausableClock) TotalPauseDuration() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.provider.Now().Sub(pc.pauseStartTime)
	}
	return total
}
