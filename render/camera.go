package render

import (
	"github.com/mindes-tools/vtsview/geom"
)

// Camera holds the view state that must survive across renders so
// playback does not jump the view every frame.
type Camera struct {
	Position geom.Vec
	Focal    geom.Vec
	Up       geom.Vec
}

// Reset frames the whole dataset: focal point at the bounds center,
// position pulled back along the view diagonal.
func (c *Camera) Reset(b geom.Bounds) {
	center := b.Center()
	d := b.MaxSpan()
	if d <= 0 {
		d = 1
	}
	c.Focal = center
	c.Position = center.Add(geom.Vec{1, 1, 1}.Normalize().Scale(2.5 * d))
	c.Up = geom.Vec{0, 0, 1}
}

// AlignAxis positions the camera looking down the given axis at the
// bounds center, three spans out.
func (c *Camera) AlignAxis(b geom.Bounds, axis Axis) {
	center := b.Center()
	d := b.MaxSpan()
	if d <= 0 {
		d = 1
	}
	var dir geom.Vec
	dir[axis] = 1
	c.Focal = center
	c.Position = center.Add(dir.Scale(3 * d))
	if axis == AxisZ {
		c.Up = geom.Vec{0, 1, 0}
	} else {
		c.Up = geom.Vec{0, 0, 1}
	}
}

// Save returns a copy of the camera state.
func (c *Camera) Save() Camera { return *c }

// Restore overwrites the camera with a previously saved state.
func (c *Camera) Restore(saved Camera) { *c = saved }
