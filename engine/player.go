package engine

import (
	"sync"

	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// PlayerState is the player collaborator surface the core reads every tick.
// Movement input arrives from the input goroutine, so the input vector is
// guarded; everything else is mutated only on the game goroutine.
type PlayerState struct {
	cfg config.PlayerConfig

	mu        sync.Mutex
	moveInput vmath.Vec2 // Set by the input layer, consumed by PlayerSystem

	position vmath.Vec2
	facing   vmath.Vec2

	level    int
	xp       int
	xpToNext int

	health    float64
	maxHealth float64
}

// NewPlayerState creates the player at the world origin, level 1
func NewPlayerState(cfg config.PlayerConfig) *PlayerState {
	return &PlayerState{
		cfg:       cfg,
		facing:    vmath.Vec2{X: 1},
		level:     1,
		xpToNext:  cfg.BaseXPToLevel,
		health:    cfg.MaxHealth,
		maxHealth: cfg.MaxHealth,
	}
}

// SetMoveInput stores the desired movement direction. Called from the
// input goroutine; magnitude is clamped to 1.
func (p *PlayerState) SetMoveInput(v vmath.Vec2) {
	v = v.ClampMagnitude(1)
	p.mu.Lock()
	p.moveInput = v
	p.mu.Unlock()
}

// MoveInput returns the current input direction
func (p *PlayerState) MoveInput() vmath.Vec2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.moveInput
}

// Position returns the player's world position
func (p *PlayerState) Position() vmath.Vec2 {
	return p.position
}

// SetPosition moves the player. Game goroutine only.
func (p *PlayerState) SetPosition(v vmath.Vec2) {
	p.position = v
}

// Facing returns the last non-zero movement direction (unit vector)
func (p *PlayerState) Facing() vmath.Vec2 {
	return p.facing
}

// SetFacing updates the facing direction; zero vectors are ignored
func (p *PlayerState) SetFacing(v vmath.Vec2) {
	if v.MagnitudeSq() > 0 {
		p.facing = v.Normalize()
	}
}

// Level returns the current player level
func (p *PlayerState) Level() int {
	return p.level
}

// Health returns current player health
func (p *PlayerState) Health() float64 {
	return p.health
}

// MaxHealth returns the health cap
func (p *PlayerState) MaxHealth() float64 {
	return p.maxHealth
}

// ApplyDamage reduces health and reports whether the player died
func (p *PlayerState) ApplyDamage(amount float64) bool {
	p.health -= amount
	return p.health <= 0
}

// Heal restores health up to the cap
func (p *PlayerState) Heal(amount float64) {
	p.health += amount
	if p.health > p.maxHealth {
		p.health = p.maxHealth
	}
}

// GainXP adds experience and returns the number of levels gained.
// Each level requirement grows geometrically by the configured factor.
func (p *PlayerState) GainXP(amount int) int {
	p.xp += amount
	levels := 0
	for p.xp >= p.xpToNext {
		p.xp -= p.xpToNext
		p.level++
		levels++
		p.xpToNext = int(float64(p.xpToNext) * p.cfg.XPGrowth)
		if p.xpToNext < 1 {
			p.xpToNext = 1
		}
	}
	return levels
}

// XPProgress returns current XP and the requirement for the next level
func (p *PlayerState) XPProgress() (current, required int) {
	return p.xp, p.xpToNext
}

// Reset returns the player to a fresh run at the world origin
func (p *PlayerState) Reset() {
	p.mu.Lock()
	p.moveInput = vmath.Vec2{}
	p.mu.Unlock()
	p.position = vmath.Vec2{}
	p.facing = vmath.Vec2{X: 1}
	p.level = 1
	p.xp = 0
	p.xpToNext = p.cfg.BaseXPToLevel
	p.health = p.cfg.MaxHealth
	p.maxHealth = p.cfg.MaxHealth
}
