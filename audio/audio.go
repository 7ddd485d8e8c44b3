// Package audio plays short synthesized cues for game events through the
// speaker. Initialization failure is non-fatal: the engine degrades to
// silence and the game runs without sound.
package audio

import (
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
)

// PriorityAudio runs after render; it only drains events
const PriorityAudio = 95

const sampleRate = beep.SampleRate(44100)

// cue is one synthesized tone burst
type cue struct {
	freq     float64
	duration time.Duration
}

var (
	cueHit      = cue{freq: 880, duration: 40 * time.Millisecond}
	cueKill     = cue{freq: 660, duration: 60 * time.Millisecond}
	cueLevelUp  = cue{freq: 523, duration: 180 * time.Millisecond}
	cueHurt     = cue{freq: 220, duration: 90 * time.Millisecond}
	cueGameOver = cue{freq: 110, duration: 600 * time.Millisecond}
)

// Engine consumes gameplay events and schedules cues. All playback goes
// through the speaker's own mixer goroutine; the engine itself holds no
// playback state beyond the mute flag.
type Engine struct {
	res   *engine.Resources
	ready bool
	muted atomic.Bool

	// Rate limit: at most one hit cue per window, or storms of weapon
	// hits turn into noise
	lastHitCue time.Time
}

const hitCueWindow = 90 * time.Millisecond

// NewEngine initializes the speaker. On failure the returned engine is
// valid but silent, and the error is reported for logging.
func NewEngine(res *engine.Resources, muted bool) (*Engine, error) {
	e := &Engine{res: res}
	e.muted.Store(muted)

	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err != nil {
		return e, err
	}
	e.ready = true
	return e, nil
}

func (e *Engine) Name() string { return "audio" }

func (e *Engine) Priority() int { return PriorityAudio }

func (e *Engine) Init() {}

func (e *Engine) Update() {}

func (e *Engine) Destroy() {
	if e.ready {
		speaker.Clear()
	}
}

// ToggleMute flips the mute flag. Safe to call from the input goroutine.
func (e *Engine) ToggleMute() bool {
	for {
		old := e.muted.Load()
		if e.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (e *Engine) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventWeaponHit,
		events.EventEnemyKilled,
		events.EventLevelUp,
		events.EventPlayerDamaged,
		events.EventGameOver,
	}
}

func (e *Engine) HandleEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventWeaponHit:
		now := e.res.Time.Now
		if now.Sub(e.lastHitCue) < hitCueWindow {
			return
		}
		e.lastHitCue = now
		e.play(cueHit)
	case events.EventEnemyKilled:
		e.play(cueKill)
	case events.EventLevelUp:
		e.play(cueLevelUp)
	case events.EventPlayerDamaged:
		e.play(cueHurt)
	case events.EventGameOver:
		e.play(cueGameOver)
	}
}

func (e *Engine) play(c cue) {
	if !e.ready || e.muted.Load() {
		return
	}
	tone, err := generators.SineTone(sampleRate, c.freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(c.duration), tone))
}
