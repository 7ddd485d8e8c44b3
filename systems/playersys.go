package systems

import (
	"sync/atomic"

	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/status"
)

// PlayerSystem moves the player from buffered input, keeps the camera on
// them, and owns player health: damage events land here, and hitting
// zero raises game over exactly once per run.
type PlayerSystem struct {
	res      *engine.Resources
	gameOver bool

	statLevel  *atomic.Int64
	statHealth *status.AtomicFloat
}

func NewPlayerSystem(res *engine.Resources) *PlayerSystem {
	return &PlayerSystem{
		res:        res,
		statLevel:  res.Status.Ints.Get("player.level"),
		statHealth: res.Status.Floats.Get("player.health"),
	}
}

func (s *PlayerSystem) Name() string { return "player" }

func (s *PlayerSystem) Priority() int { return PriorityPlayer }

func (s *PlayerSystem) Init() {
	s.res.Player.Reset()
	s.res.Camera.Follow(s.res.Player.Position())
	s.gameOver = false
}

func (s *PlayerSystem) Update() {
	if s.gameOver {
		return
	}
	p := s.res.Player
	dt := s.res.Time.Delta.Seconds()

	input := p.MoveInput()
	if input.MagnitudeSq() > 0 {
		p.SetPosition(p.Position().Add(input.Scale(s.res.Config.Player.MoveSpeed * dt)))
		p.SetFacing(input)
	}
	s.res.Camera.Follow(p.Position())

	s.statLevel.Store(int64(p.Level()))
	s.statHealth.Set(p.Health())
}

func (s *PlayerSystem) EventTypes() []events.EventType {
	return []events.EventType{events.EventPlayerDamaged, events.EventGameReset}
}

func (s *PlayerSystem) HandleEvent(ev events.GameEvent) {
	switch ev.Type {
	case events.EventPlayerDamaged:
		if s.gameOver {
			return
		}
		p, ok := ev.Payload.(*events.PlayerDamagedPayload)
		if !ok {
			return
		}
		if s.res.Player.ApplyDamage(p.Amount) {
			s.gameOver = true
			s.res.PushEvent(events.EventGameOver, nil)
		}
	case events.EventGameReset:
		s.Init()
	}
}
