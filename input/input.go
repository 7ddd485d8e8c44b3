// Package input translates terminal key events into game intents. It runs
// on the main goroutine; only PlayerState.SetMoveInput crosses into the
// game goroutine, and that call is guarded on the player side.
package input

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// Intent discriminates the semantic actions a key event can produce
type Intent uint8

const (
	IntentNone Intent = iota
	IntentMove
	IntentPause
	IntentReset
	IntentMuteToggle
	IntentQuit
)

// keyHoldDuration is how long a movement key keeps the player moving
// after the last press. Terminals deliver autorepeat presses well inside
// this window, so held keys read as continuous motion.
const keyHoldDuration = 180 * time.Millisecond

type keyEntry struct {
	intent Intent
	dir    vmath.Vec2
}

// moveRunes follows vi conventions with diagonal extensions
var moveRunes = map[rune]vmath.Vec2{
	'h': {X: -1},
	'l': {X: 1},
	'k': {Y: -1},
	'j': {Y: 1},
	'y': {X: -1, Y: -1},
	'u': {X: 1, Y: -1},
	'b': {X: -1, Y: 1},
	'n': {X: 1, Y: 1},
}

var specialKeys = map[tcell.Key]keyEntry{
	tcell.KeyLeft:   {intent: IntentMove, dir: vmath.Vec2{X: -1}},
	tcell.KeyRight:  {intent: IntentMove, dir: vmath.Vec2{X: 1}},
	tcell.KeyUp:     {intent: IntentMove, dir: vmath.Vec2{Y: -1}},
	tcell.KeyDown:   {intent: IntentMove, dir: vmath.Vec2{Y: 1}},
	tcell.KeyEscape: {intent: IntentPause},
	tcell.KeyCtrlC:  {intent: IntentQuit},
}

var actionRunes = map[rune]Intent{
	' ': IntentPause,
	'p': IntentPause,
	'r': IntentReset,
	'm': IntentMuteToggle,
	'q': IntentQuit,
}

// Controller owns input-side state: the current movement vector and its
// hold deadline. Pause and quit decisions are delegated to the hooks so
// the controller stays free of scheduler wiring.
type Controller struct {
	res *engine.Resources

	// OnPauseToggle and OnQuit are set by the composition root
	OnPauseToggle func()
	OnQuit        func()
	OnMuteToggle  func()

	dir       vmath.Vec2
	holdUntil time.Time
}

func NewController(res *engine.Resources) *Controller {
	return &Controller{res: res}
}

// Handle processes one terminal event. Returns false when the game
// should exit.
func (c *Controller) Handle(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}

	intent, dir := c.classify(key)
	switch intent {
	case IntentMove:
		c.dir = dir
		c.holdUntil = time.Now().Add(keyHoldDuration)
		c.res.Player.SetMoveInput(c.dir)
	case IntentPause:
		if c.OnPauseToggle != nil {
			c.OnPauseToggle()
		}
	case IntentReset:
		c.res.PushEvent(events.EventGameReset, nil)
	case IntentMuteToggle:
		if c.OnMuteToggle != nil {
			c.OnMuteToggle()
		}
	case IntentQuit:
		if c.OnQuit != nil {
			c.OnQuit()
		}
		return false
	}
	return true
}

func (c *Controller) classify(key *tcell.EventKey) (Intent, vmath.Vec2) {
	if entry, ok := specialKeys[key.Key()]; ok {
		return entry.intent, entry.dir
	}
	if key.Key() != tcell.KeyRune {
		return IntentNone, vmath.Vec2{}
	}
	r := key.Rune()
	if dir, ok := moveRunes[r]; ok {
		return IntentMove, dir
	}
	if intent, ok := actionRunes[r]; ok {
		return intent, vmath.Vec2{}
	}
	return IntentNone, vmath.Vec2{}
}

// Decay zeroes movement once the hold window passes. Called from the
// main loop ticker.
func (c *Controller) Decay() {
	if c.dir.MagnitudeSq() == 0 {
		return
	}
	if time.Now().After(c.holdUntil) {
		c.dir = vmath.Vec2{}
		c.res.Player.SetMoveInput(c.dir)
	}
}
