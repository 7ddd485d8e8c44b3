package systems

import (
	"github.com/philkrause/mech-survivor-sub000/components"
	"github.com/philkrause/mech-survivor-sub000/core"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// Population is the read/damage surface a weapon sees. Weapons never
// mutate enemies directly; all writes go through DamageEnemy so the
// death and drop handling stays in one place.
type Population interface {
	Kind() components.EnemyKind

	// VisibleEnemies appends a ref for every active enemy inside rect.
	// Passing the previous call's slice reuses its backing array.
	VisibleEnemies(rect vmath.Rect, out []TargetRef) []TargetRef

	// DamageEnemy applies damage to one enemy. Stale or inactive handles
	// are a no-op. knockback is the hitting weapon's shove distance; crit
	// flows into the damage number. Returns true when this call killed
	// the enemy.
	DamageEnemy(h core.Handle, damage, knockback float64, crit bool, weaponID string) bool
}

// TargetRef is a per-tick snapshot of one targetable enemy
type TargetRef struct {
	Pop    Population
	Handle core.Handle
	Pos    vmath.Vec2
	Hitbox vmath.Rect
}

// TargetKey identifies an enemy across populations for exclusion sets.
// Handles alone collide between pools, so the kind disambiguates.
type TargetKey struct {
	Kind   components.EnemyKind
	Handle core.Handle
}

// Key returns the cross-population identity of the target
func (t TargetRef) Key() TargetKey {
	return TargetKey{Kind: t.Pop.Kind(), Handle: t.Handle}
}

// NearestEnemy scans every wired population for the closest enemy to
// from within query. Nil entries are skipped, not treated as errors,
// so partial wiring degrades to a smaller search.
func NearestEnemy(pops []Population, from vmath.Vec2, query vmath.Rect, scratch []TargetRef) (TargetRef, bool) {
	best := TargetRef{}
	bestDistSq := -1.0
	for _, pop := range pops {
		if pop == nil {
			continue
		}
		scratch = pop.VisibleEnemies(query, scratch[:0])
		for _, ref := range scratch {
			d := vmath.DistanceSq(from, ref.Pos)
			if bestDistSq < 0 || d < bestDistSq {
				best = ref
				bestDistSq = d
			}
		}
	}
	return best, bestDistSq >= 0
}

// CollectVisible appends refs from every wired population inside query
func CollectVisible(pops []Population, query vmath.Rect, out []TargetRef) []TargetRef {
	for _, pop := range pops {
		if pop == nil {
			continue
		}
		out = pop.VisibleEnemies(query, out)
	}
	return out
}
