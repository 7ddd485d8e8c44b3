package engine

import (
	"github.com/philkrause/mech-survivor-sub000/config"
	"github.com/philkrause/mech-survivor-sub000/vmath"
)

// Camera is the viewport over the unbounded arena. It tracks the player;
// spawn placement and visibility queries always ask for rects fresh so
// they follow camera movement instead of caching stale bounds.
type Camera struct {
	cfg    config.CameraConfig
	center vmath.Vec2
}

// NewCamera creates a camera centered on the given point
func NewCamera(cfg config.CameraConfig, center vmath.Vec2) *Camera {
	return &Camera{cfg: cfg, center: center}
}

// Follow recenters the camera on the target
func (c *Camera) Follow(target vmath.Vec2) {
	c.center = target
}

// Center returns the current camera center
func (c *Camera) Center() vmath.Vec2 {
	return c.center
}

// ViewRect returns the exactly-visible world rectangle.
// Off-screen culling tests against this rect, not the buffered one.
func (c *Camera) ViewRect() vmath.Rect {
	return vmath.Rect{
		X:      c.center.X - c.cfg.ViewWidth/2,
		Y:      c.center.Y - c.cfg.ViewHeight/2,
		Width:  c.cfg.ViewWidth,
		Height: c.cfg.ViewHeight,
	}
}

// QueryRect returns the visible rect padded by the visibility buffer.
// Weapon targeting treats enemies inside it as visible.
func (c *Camera) QueryRect() vmath.Rect {
	return c.ViewRect().Expand(c.cfg.VisibilityBuffer)
}
