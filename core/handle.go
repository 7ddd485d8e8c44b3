package core

// Handle identifies a pool slot together with the generation of its current
// occupant. A handle taken from a live enemy stays valid until that enemy is
// released; after the slot is recycled the old handle no longer resolves.
// The zero value is never produced by a pool (generations start at 1).
type Handle uint32

// NilHandle is the invalid handle. Lookups with it always miss.
const NilHandle Handle = 0

// MakeHandle packs a slot index and generation into a Handle
func MakeHandle(index int, generation uint16) Handle {
	return Handle(uint32(index)<<16 | uint32(generation))
}

// Index returns the pool slot index
func (h Handle) Index() int {
	return int(uint32(h) >> 16)
}

// Generation returns the occupant generation tag
func (h Handle) Generation() uint16 {
	return uint16(h)
}
