package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/events"
)

// ClockScheduler drives game logic on a fixed tick over the pausable clock.
// One tick: update the time snapshot, dispatch queued events, run all
// systems in priority order. Pause stops tick processing entirely, so no
// per-system pause checks are needed.
type ClockScheduler struct {
	world *World
	clock *PausableClock

	tickInterval     time.Duration
	nextTickDeadline time.Time

	tickCount atomic.Uint64
	frame     atomic.Int64
	mu        sync.RWMutex

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	eventRouter *events.Router

	statTicks *atomic.Int64
}

// NewClockScheduler creates a scheduler with the given tick interval
func NewClockScheduler(world *World, tickInterval time.Duration) *ClockScheduler {
	res := world.Resource
	cs := &ClockScheduler{
		world:        world,
		clock:        res.Clock,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		eventRouter:  events.NewRouter(res.Queue),
		statTicks:    res.Status.Ints.Get("engine.ticks"),
	}
	return cs
}

// RegisterEventHandler adds an event handler; call before Start
func (cs *ClockScheduler) RegisterEventHandler(handler events.Handler) {
	cs.eventRouter.Register(handler)
}

// RegisterSystemHandlers auto-registers every system implementing
// events.Handler; call after all AddSystem calls, before Start
func (cs *ClockScheduler) RegisterSystemHandlers() {
	for _, s := range cs.world.Systems() {
		if h, ok := s.(events.Handler); ok {
			cs.eventRouter.Register(h)
		}
	}
}

// Start begins the scheduler loop
func (cs *ClockScheduler) Start() {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(cs.schedulerLoop)
	}
}

// Stop halts the loop synchronously: when it returns, no further tick will
// run and no timers owned by the scheduler remain live
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		if cs.running.CompareAndSwap(true, false) {
			close(cs.stopChan)
			cs.wg.Wait()
		}
	})
}

// TickCount returns the number of processed ticks
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// Pause freezes game time; queued events stay queued until resume
func (cs *ClockScheduler) Pause() {
	cs.clock.Pause()
}

// Resume unfreezes game time and realigns the tick deadline so the paused
// span is not replayed as a burst of catch-up ticks
func (cs *ClockScheduler) Resume() {
	cs.clock.Resume()
	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.mu.Unlock()
}

func (cs *ClockScheduler) schedulerLoop() {
	defer cs.wg.Done()

	cs.mu.Lock()
	cs.nextTickDeadline = cs.clock.Now().Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Longer sleep while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			gameNow := cs.clock.Now()

			cs.mu.RLock()
			deadline := cs.nextTickDeadline
			cs.mu.RUnlock()

			if !gameNow.Before(deadline) {
				cs.processTick()

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

				// Cap catch-up: when far behind, realign instead of
				// replaying the backlog
				maxBehind := cs.tickInterval * 2
				if gameNow.Sub(cs.nextTickDeadline) > maxBehind {
					cs.nextTickDeadline = gameNow.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				cs.tickCount.Add(1)

				sleepDuration = deadline.Sub(cs.clock.Now())
				if sleepDuration < 0 {
					sleepDuration = 0
				}
			} else {
				sleepDuration = deadline.Sub(gameNow)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}

// processTick executes one clock cycle
func (cs *ClockScheduler) processTick() {
	cs.world.RunSafe(func() {
		res := cs.world.Resource
		frame := cs.frame.Add(1)
		res.Time.Update(
			cs.clock.Now(),
			cs.clock.RealTime(),
			cs.tickInterval,
			cs.clock.Elapsed(),
			frame,
		)

		// Events first, then systems: populations before weapons is
		// enforced by system priority inside Update
		cs.eventRouter.DispatchAll()
		cs.world.Update()
	})

	cs.statTicks.Store(int64(cs.tickCount.Load()))
}

// DispatchEventsImmediately processes pending events synchronously.
// Used at teardown so terminal state (game over) is observed.
func (cs *ClockScheduler) DispatchEventsImmediately() {
	cs.world.RunSafe(func() {
		cs.eventRouter.DispatchAll()
	})
}
