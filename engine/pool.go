package engine

import (
	"github.com/philkrause/mech-survivor-sub000/core"
)

type poolSlot[T any] struct {
	item       T
	active     bool
	generation uint16
}

// Pool is a fixed-capacity slot pool with generation-tagged handles.
// Capacity is set at construction and never grows; after the construction
// warm-up no allocation happens on the acquire/release path.
//
// Exhaustion is not an error: Acquire returns NilHandle and the caller
// treats the spawn as skipped.
type Pool[T any] struct {
	slots  []poolSlot[T]
	free   []int // Stack of inactive slot indices
	active int
	reset  func(*T) // Clears transient fields on release
}

// NewPool creates a pre-warmed pool of the given capacity.
// reset may be nil when T's zero value needs no scrubbing.
func NewPool[T any](capacity int, reset func(*T)) *Pool[T] {
	if capacity < 1 {
		capacity = 1
	}
	p := &Pool[T]{
		slots: make([]poolSlot[T], capacity),
		free:  make([]int, 0, capacity),
		reset: reset,
	}
	for i := range p.slots {
		p.slots[i].generation = 1
	}
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}

	// Warm up: cycle every slot once so first-use latency is uniform
	warm := make([]core.Handle, 0, capacity)
	for {
		h, _ := p.Acquire()
		if h == core.NilHandle {
			break
		}
		warm = append(warm, h)
	}
	for _, h := range warm {
		p.Release(h)
	}

	return p
}

// Acquire returns an inactive slot marked active, or (NilHandle, nil) when
// the pool is exhausted
func (p *Pool[T]) Acquire() (core.Handle, *T) {
	if len(p.free) == 0 {
		return core.NilHandle, nil
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	slot := &p.slots[idx]
	slot.active = true
	p.active++
	return core.MakeHandle(idx, slot.generation), &slot.item
}

// Release returns the slot to the pool. Idempotent: releasing an already
// inactive or stale handle is a no-op.
func (p *Pool[T]) Release(h core.Handle) {
	idx := h.Index()
	if idx < 0 || idx >= len(p.slots) {
		return
	}
	slot := &p.slots[idx]
	if !slot.active || slot.generation != h.Generation() {
		return
	}

	slot.active = false
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1 // Skip the nil-handle generation on wrap
	}
	if p.reset != nil {
		p.reset(&slot.item)
	}
	p.active--
	p.free = append(p.free, idx)
}

// Get resolves a handle to its item; stale or inactive handles miss
func (p *Pool[T]) Get(h core.Handle) (*T, bool) {
	idx := h.Index()
	if idx < 0 || idx >= len(p.slots) {
		return nil, false
	}
	slot := &p.slots[idx]
	if !slot.active || slot.generation != h.Generation() {
		return nil, false
	}
	return &slot.item, true
}

// ActiveCount returns the number of live slots
func (p *Pool[T]) ActiveCount() int {
	return p.active
}

// Capacity returns the fixed slot count
func (p *Pool[T]) Capacity() int {
	return len(p.slots)
}

// ForEachActive calls fn for every live slot.
// Releasing the current handle inside fn is safe; releasing other handles
// during iteration may skip entries.
func (p *Pool[T]) ForEachActive(fn func(h core.Handle, item *T)) {
	for i := range p.slots {
		slot := &p.slots[i]
		if slot.active {
			fn(core.MakeHandle(i, slot.generation), &slot.item)
		}
	}
}
