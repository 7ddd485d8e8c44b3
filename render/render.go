// Package render draws the world to a tcell terminal screen. It is a
// read-only consumer: it walks the populations and weapon overlays each
// tick and keeps its own short-lived visual state (damage numbers, death
// flashes) fed by the event queue.
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/systems"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// PriorityRender runs after every gameplay system so the frame shows
// post-collection state
const PriorityRender = 90

const (
	hudRows            = 2
	damageNumberTTL    = 700 * time.Millisecond
	deathFlashTTL      = 250 * time.Millisecond
	playerHitFlashTTL  = 200 * time.Millisecond
	maxFloatingNumbers = 64
)

// Scene bundles the systems the renderer reads overlays from. Nil fields
// are skipped, so a headless or partial wiring still renders.
type Scene struct {
	Populations []systems.Population
	Walker      *systems.WalkerPopulation
	Elite       *systems.ElitePopulation
	Projectile  *systems.ProjectileWeapon
	Melee       *systems.MeleeWeapon
	Drone       *systems.DroneWeapon
	Beam        *systems.BeamWeapon
	Strike      *systems.StrikeWeapon
	Push        *systems.PushWeapon
	Collection  *systems.CollectionSystem

	// Waves drives the HUD phase readout; the basic population owns the
	// wave cycle
	Waves *systems.SpawnScheduler
}

type floatingNumber struct {
	pos      vmath.Vec2
	text     string
	style    tcell.Style
	expireAt time.Time
}

type deathFlash struct {
	pos      vmath.Vec2
	expireAt time.Time
}

// RenderSystem presents one frame per tick
type RenderSystem struct {
	res    *engine.Resources
	screen tcell.Screen
	scene  Scene

	numbers     []floatingNumber
	flashes     []deathFlash
	hitFlashEnd time.Time
	paused      bool
	gameOver    bool

	scratch []systems.TargetRef
}

func NewRenderSystem(res *engine.Resources, screen tcell.Screen, scene Scene) *RenderSystem {
	return &RenderSystem{
		res:     res,
		screen:  screen,
		scene:   scene,
		scratch: make([]systems.TargetRef, 0, 256),
	}
}

func (r *RenderSystem) Name() string { return "render" }

func (r *RenderSystem) Priority() int { return PriorityRender }

func (r *RenderSystem) Init() {
	r.numbers = r.numbers[:0]
	r.flashes = r.flashes[:0]
	r.hitFlashEnd = time.Time{}
	r.paused = false
	r.gameOver = false
}

func (r *RenderSystem) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventDamageNumber,
		events.EventEnemyKilled,
		events.EventPlayerDamaged,
		events.EventGamePause,
		events.EventGameResume,
		events.EventGameOver,
		events.EventGameReset,
	}
}

func (r *RenderSystem) HandleEvent(ev events.GameEvent) {
	now := r.res.Time.Now
	switch ev.Type {
	case events.EventDamageNumber:
		p, ok := ev.Payload.(events.DamageNumberPayload)
		if !ok {
			return
		}
		style := damageStyle
		if p.Critical {
			style = critStyle
		}
		r.pushNumber(floatingNumber{
			pos:      p.Position,
			text:     fmt.Sprintf("%d", int(math.Round(p.Amount))),
			style:    style,
			expireAt: now.Add(damageNumberTTL),
		})
	case events.EventEnemyKilled:
		p, ok := ev.Payload.(events.EnemyKilledPayload)
		if !ok {
			return
		}
		r.flashes = append(r.flashes, deathFlash{pos: p.Position, expireAt: now.Add(deathFlashTTL)})
	case events.EventPlayerDamaged:
		r.hitFlashEnd = now.Add(playerHitFlashTTL)
	case events.EventGamePause:
		r.paused = true
	case events.EventGameResume:
		r.paused = false
	case events.EventGameOver:
		r.gameOver = true
	case events.EventGameReset:
		r.Init()
	}
}

func (r *RenderSystem) pushNumber(n floatingNumber) {
	if len(r.numbers) >= maxFloatingNumbers {
		copy(r.numbers, r.numbers[1:])
		r.numbers = r.numbers[:len(r.numbers)-1]
	}
	r.numbers = append(r.numbers, n)
}

func (r *RenderSystem) Update() {
	r.screen.Clear()

	w, h := r.screen.Size()
	fieldH := h - hudRows
	if w < 4 || fieldH < 4 {
		r.screen.Show()
		return
	}

	view := r.res.Camera.ViewRect()
	proj := projection{view: view, cols: w, rows: fieldH}

	r.drawPickups(proj)
	r.drawWalkerBeams(proj)
	r.drawEnemies(proj)
	r.drawEnemyShots(proj)
	r.drawBeam(proj)
	r.drawMelee(proj)
	r.drawShots(proj)
	r.drawDrones(proj)
	r.drawStrikes(proj)
	r.drawShockwave(proj)
	r.drawPlayer(proj)
	r.drawFlashes(proj)
	r.drawNumbers(proj)
	r.drawHUD(w, h)

	if r.gameOver {
		r.drawCenteredText(w, fieldH/2, " GAME OVER - r to restart, q to quit ", critStyle)
	} else if r.paused {
		r.drawCenteredText(w, fieldH/2, " PAUSED ", hudStyle)
	}

	r.screen.Show()
}

// projection maps world coordinates inside the camera view onto the
// terminal cell grid
type projection struct {
	view vmath.Rect
	cols int
	rows int
}

func (p projection) cell(v vmath.Vec2) (int, int, bool) {
	fx := (v.X - p.view.X) / p.view.Width
	fy := (v.Y - p.view.Y) / p.view.Height
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return 0, 0, false
	}
	return int(fx * float64(p.cols)), int(fy * float64(p.rows)), true
}

func (r *RenderSystem) put(proj projection, pos vmath.Vec2, ch rune, style tcell.Style) {
	if x, y, ok := proj.cell(pos); ok {
		r.screen.SetContent(x, y, ch, nil, style)
	}
}

func (r *RenderSystem) drawEnemies(proj projection) {
	r.scratch = systems.CollectVisible(r.scene.Populations, proj.view, r.scratch[:0])
	for _, ref := range r.scratch {
		kind := ref.Pop.Kind()
		glyph, ok := enemyGlyphs[kind]
		if !ok {
			glyph = '?'
		}
		r.put(proj, ref.Pos, glyph, enemyStyles[kind])
	}
}

func (r *RenderSystem) drawWalkerBeams(proj projection) {
	if r.scene.Walker == nil {
		return
	}
	r.scratch = r.scene.Walker.VisibleEnemies(proj.view, r.scratch[:0])
	for _, ref := range r.scratch {
		start, end, firing := r.scene.Walker.BeamSegment(ref.Handle)
		if firing {
			r.drawLine(proj, start, end, '#', walkerBeamStyle)
		}
	}
}

func (r *RenderSystem) drawEnemyShots(proj projection) {
	if r.scene.Elite == nil {
		return
	}
	r.scene.Elite.ActiveShots(func(pos vmath.Vec2) {
		r.put(proj, pos, '.', enemyShotStyle)
	})
}

func (r *RenderSystem) drawShots(proj projection) {
	if r.scene.Projectile == nil {
		return
	}
	r.scene.Projectile.ActiveShots(func(pos vmath.Vec2) {
		r.put(proj, pos, '-', shotStyle)
	})
}

func (r *RenderSystem) drawDrones(proj projection) {
	if r.scene.Drone == nil {
		return
	}
	r.scene.Drone.Drones(func(pos vmath.Vec2) {
		r.put(proj, pos, '%', shotStyle)
	})
}

func (r *RenderSystem) drawBeam(proj projection) {
	if r.scene.Beam == nil {
		return
	}
	start, end, fade, active := r.scene.Beam.Segment()
	if !active {
		return
	}
	ch := '='
	if fade < 0.3 {
		ch = '-'
	}
	r.drawLine(proj, start, end, ch, beamStyle)
}

func (r *RenderSystem) drawMelee(proj projection) {
	if r.scene.Melee == nil {
		return
	}
	facing, active := r.scene.Melee.SwingArc()
	if !active {
		return
	}
	cfg := r.res.Config.Weapons.Melee
	origin := r.res.Player.Position()
	base := math.Atan2(facing.Y, facing.X)
	steps := 7
	for i := 0; i <= steps; i++ {
		a := base - cfg.ArcRadians/2 + cfg.ArcRadians*float64(i)/float64(steps)
		pos := origin.Add(vmath.FromAngle(a).Scale(cfg.Range))
		r.put(proj, pos, '/', shotStyle)
	}
}

func (r *RenderSystem) drawStrikes(proj projection) {
	if r.scene.Strike == nil {
		return
	}
	r.scene.Strike.PendingShells(func(target vmath.Vec2, remaining time.Duration) {
		ch := 'x'
		if remaining < 300*time.Millisecond {
			ch = 'X'
		}
		r.put(proj, target, ch, strikeStyle)
	})
}

func (r *RenderSystem) drawShockwave(proj projection) {
	if r.scene.Push == nil {
		return
	}
	origin, progress, active := r.scene.Push.Shockwave()
	if !active {
		return
	}
	radius := r.res.Config.Weapons.Push.Radius * progress
	steps := 24
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		r.put(proj, origin.Add(vmath.FromAngle(a).Scale(radius)), '·', shotStyle)
	}
}

func (r *RenderSystem) drawPickups(proj projection) {
	if r.scene.Collection == nil {
		return
	}
	r.scene.Collection.Pickups(func(kind components.PickupKind, pos vmath.Vec2) {
		glyph, ok := pickupGlyphs[kind]
		if !ok {
			return
		}
		r.put(proj, pos, glyph, pickupStyles[kind])
	})
}

func (r *RenderSystem) drawPlayer(proj projection) {
	style := playerStyle
	if r.res.Time.Now.Before(r.hitFlashEnd) {
		style = critStyle
	}
	r.put(proj, r.res.Player.Position(), '@', style)
}

func (r *RenderSystem) drawFlashes(proj projection) {
	now := r.res.Time.Now
	kept := r.flashes[:0]
	for _, f := range r.flashes {
		if now.Before(f.expireAt) {
			r.put(proj, f.pos, '+', deathStyle)
			kept = append(kept, f)
		}
	}
	r.flashes = kept
}

func (r *RenderSystem) drawNumbers(proj projection) {
	now := r.res.Time.Now
	kept := r.numbers[:0]
	for _, n := range r.numbers {
		if !now.Before(n.expireAt) {
			continue
		}
		// Drift upward as the number ages
		age := damageNumberTTL - n.expireAt.Sub(now)
		rise := proj.view.Height / float64(proj.rows) * 2 * (float64(age) / float64(damageNumberTTL))
		if x, y, ok := proj.cell(vmath.Vec2{X: n.pos.X, Y: n.pos.Y - rise}); ok {
			r.drawText(x, y, n.text, n.style)
		}
		kept = append(kept, n)
	}
	r.numbers = kept
}

func (r *RenderSystem) drawHUD(w, h int) {
	player := r.res.Player
	cur, req := player.XPProgress()

	line1 := fmt.Sprintf(" HP %3.0f/%3.0f  LV %d  XP %d/%d  %s",
		player.Health(), player.MaxHealth(), player.Level(), cur, req,
		formatElapsed(r.res.Time.Elapsed))
	r.drawText(0, h-2, padTo(line1, w), hudStyle)

	active := int64(0)
	for _, kind := range []string{"basic", "elite", "formation", "walker"} {
		active += r.res.Status.Ints.Get("enemies." + kind + ".active").Load()
	}
	line2 := fmt.Sprintf(" %s  enemies %d", r.wavePhaseLabel(), active)
	r.drawText(0, h-1, padTo(line2, w), hudStyle)
}

func (r *RenderSystem) wavePhaseLabel() string {
	if r.scene.Waves == nil {
		return ""
	}
	switch r.scene.Waves.Phase() {
	case systems.PhaseWave:
		return fmt.Sprintf("WAVE %d", r.scene.Waves.WaveNumber())
	case systems.PhaseLull:
		return fmt.Sprintf("lull %d", r.scene.Waves.WaveNumber())
	default:
		return "incoming"
	}
}

func (r *RenderSystem) drawLine(proj projection, a, b vmath.Vec2, ch rune, style tcell.Style) {
	dist := vmath.Distance(a, b)
	if dist <= 0 {
		r.put(proj, a, ch, style)
		return
	}
	// Step at half-cell resolution in world units
	step := proj.view.Width / float64(proj.cols) / 2
	steps := int(dist/step) + 1
	dir := b.Sub(a).Scale(1 / dist)
	for i := 0; i <= steps; i++ {
		r.put(proj, a.Add(dir.Scale(dist*float64(i)/float64(steps))), ch, style)
	}
}

func (r *RenderSystem) drawText(x, y int, s string, style tcell.Style) {
	for i, ch := range s {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (r *RenderSystem) drawCenteredText(w, y int, s string, style tcell.Style) {
	x := (w - len(s)) / 2
	if x < 0 {
		x = 0
	}
	r.drawText(x, y, s, style)
}

func padTo(s string, w int) string {
	for len(s) < w {
		s += " "
	}
	return s
}

func formatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
