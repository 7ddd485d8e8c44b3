package engine

// System is one tick-driven unit of game logic. The world runs systems in
// ascending Priority order every tick, so ordering guarantees (populations
// before weapons) are expressed as priority constants, not call sites.
//
// Systems that also implement events.Handler are auto-registered with the
// event router when the scheduler starts.
type System interface {
	// Name identifies the system for metrics and event targeting
	Name() string

	// Priority orders Update calls within a tick: lowest first
	Priority() int

	// Init resets session state for a new run
	Init()

	// Update advances one fixed tick; timing comes from Resources.Time
	Update()
}

// Destroyer is implemented by systems owning ephemeral resources (pools,
// visual handles) that must be released synchronously on teardown
type Destroyer interface {
	Destroy()
}
