package vmath

// Rect is an axis-aligned rectangle in world units
type Rect struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// Contains reports whether the point lies inside the rectangle (edges inclusive)
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the rectangle's midpoint
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Expand returns a rectangle grown by pad on every side
func (r Rect) Expand(pad float64) Rect {
	return Rect{r.X - pad, r.Y - pad, r.Width + 2*pad, r.Height + 2*pad}
}

// ClampPoint returns p moved to the nearest point inside the rectangle
func (r Rect) ClampPoint(p Vec2) Vec2 {
	return Vec2{
		X: Clamp(p.X, r.X, r.X+r.Width),
		Y: Clamp(p.Y, r.Y, r.Y+r.Height),
	}
}

// CircleContainsPoint reports whether p lies within radius of center.
// Boundary inclusive: distance == radius counts as a hit.
func CircleContainsPoint(center Vec2, radius float64, p Vec2) bool {
	return DistanceSq(center, p) <= radius*radius
}

// LineIntersectsRect reports whether the segment a-b crosses or touches rect.
// Uses the Liang-Barsky clipping parameterization.
func LineIntersectsRect(a, b Vec2, rect Rect) bool {
	if rect.Contains(a) || rect.Contains(b) {
		return true
	}

	dx := b.X - a.X
	dy := b.Y - a.Y

	t0, t1 := 0.0, 1.0
	// p/q pairs for the four clip edges
	edges := [4][2]float64{
		{-dx, a.X - rect.X},
		{dx, rect.X + rect.Width - a.X},
		{-dy, a.Y - rect.Y},
		{dy, rect.Y + rect.Height - a.Y},
	}

	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return false // Parallel and outside
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
	}

	return t0 <= t1
}

// SegmentDistanceToPoint returns the shortest distance from p to segment a-b
func SegmentDistanceToPoint(a, b, p Vec2) float64 {
	ab := b.Sub(a)
	lenSq := ab.MagnitudeSq()
	if lenSq == 0 {
		return Distance(a, p)
	}
	t := Clamp((p.Sub(a).X*ab.X+p.Sub(a).Y*ab.Y)/lenSq, 0, 1)
	closest := a.Add(ab.Scale(t))
	return Distance(closest, p)
}
