// Command mech-survivor runs the terminal survivors game: a fixed-tick
// core on a pausable clock, tcell presentation, and an optional sqlite
// run recorder.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/philkrause/mech-survivor-sub000/audio"
	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/engine"
	"github.com/philkrause/mech-survivor-sub000/events"
	"github.com/philkrause/mech-survivor-sub000/input"
	"github.com/philkrause/mech-survivor-sub000/render"
	"github.com/philkrause/mech-survivor-sub000/stats"
	"github.com/philkrause/mech-survivor-sub000/systems"
)

const tickInterval = 16 * time.Millisecond

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file overriding built-in defaults")
		seed       = flag.Uint64("seed", uint64(time.Now().UnixNano()), "RNG seed, defaults to wall clock")
		statsPath  = flag.String("stats", "", "sqlite file for run history, empty disables recording")
		mute       = flag.Bool("mute", false, "start with audio muted")
	)
	flag.Parse()

	if err := run(*configPath, *seed, *statsPath, *mute); err != nil {
		fmt.Fprintln(os.Stderr, "mech-survivor:", err)
		os.Exit(1)
	}
}

// resetHandler rewinds the whole session when a reset event arrives:
// clock epoch first, then every system's Init
type resetHandler struct {
	clock *engine.PausableClock
	world *engine.World
}

func (r *resetHandler) EventTypes() []events.EventType {
	return []events.EventType{events.EventGameReset}
}

func (r *resetHandler) HandleEvent(events.GameEvent) {
	r.clock.Restart()
	r.world.InitAll()
}

func run(configPath string, seed uint64, statsPath string, mute bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Panics from any core.Go goroutine land here; restore the terminal
	// before the stack trace hits stderr
	core.SetCrashHandler(func(r any) {
		screen.Fini()
		log.Printf("crash: %v", r)
	})

	clock := engine.NewPausableClock()
	res := engine.NewResources(cfg, clock, seed)

	var recorder *stats.Recorder
	if statsPath != "" {
		recorder, err = stats.Open(statsPath)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		defer recorder.Close()
		res.Stats = recorder
	}

	world := engine.NewWorld(res)

	basic := systems.NewBasicPopulation(res)
	formation := systems.NewFormationPopulation(res)
	elite := systems.NewElitePopulation(res)
	walker := systems.NewWalkerPopulation(res)
	pops := []systems.Population{basic, formation, elite, walker}

	projectile := systems.NewProjectileWeapon(res, pops)
	melee := systems.NewMeleeWeapon(res, pops)
	drone := systems.NewDroneWeapon(res, pops)
	beam := systems.NewBeamWeapon(res, pops)
	strike := systems.NewStrikeWeapon(res, pops)
	push := systems.NewPushWeapon(res, pops)

	collection := systems.NewCollectionSystem(res)

	renderer := render.NewRenderSystem(res, screen, render.Scene{
		Populations: pops,
		Walker:      walker,
		Elite:       elite,
		Projectile:  projectile,
		Melee:       melee,
		Drone:       drone,
		Beam:        beam,
		Strike:      strike,
		Push:        push,
		Collection:  collection,
		Waves:       basic.Scheduler(),
	})

	sound, err := audio.NewEngine(res, mute)
	if err != nil {
		// Non-fatal, the game runs silent
		log.Printf("audio init failed: %v", err)
	}

	for _, s := range []engine.System{
		systems.NewPlayerSystem(res),
		basic, formation, elite, walker,
		projectile, melee, drone, beam, strike, push,
		collection,
		renderer,
		sound,
	} {
		world.AddSystem(s)
	}

	sched := engine.NewClockScheduler(world, tickInterval)
	sched.RegisterSystemHandlers()
	sched.RegisterEventHandler(&resetHandler{clock: clock, world: world})

	world.InitAll()
	sched.Start()
	defer func() {
		sched.Stop()
		sched.DispatchEventsImmediately()
		world.DestroyAll()
		if recorder != nil {
			if _, err := recorder.FinishRun(clock.Elapsed()); err != nil {
				log.Printf("stats flush failed: %v", err)
			}
		}
	}()

	ctrl := input.NewController(res)
	quit := make(chan struct{})
	ctrl.OnQuit = func() { close(quit) }
	ctrl.OnMuteToggle = func() { sound.ToggleMute() }
	ctrl.OnPauseToggle = func() {
		if clock.IsPaused() {
			sched.Resume()
			res.PushEvent(events.EventGameResume, nil)
		} else {
			res.PushEvent(events.EventGamePause, nil)
			sched.DispatchEventsImmediately()
			sched.Pause()
			// One manual frame so the pause overlay is visible while
			// ticks are stopped
			world.RunSafe(renderer.Update)
		}
	}

	eventChan := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	ticker := time.NewTicker(tickInterval * 4)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return nil
		case ev := <-eventChan:
			if !ctrl.Handle(ev) {
				return nil
			}
		case <-ticker.C:
			ctrl.Decay()
		}
	}
}
