package physics

import "github.com/go-gl/mathgl/mgl64"

// Capsule is a segment from Start to End swept by Radius. Only the two
// endpoints take part in collision tests.
type Capsule struct {
	Start  mgl64.Vec3
	End    mgl64.Vec3
	Radius float64
}

// Endpoints is a copy of a capsule's segment, used to roll back a move.
type Endpoints struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
}

// NewCapsule builds an upright capsule standing on feet: the lower endpoint
// sits one radius above the feet and the upper endpoint at full height.
func NewCapsule(feet mgl64.Vec3, height, radius float64) Capsule {
	if radius < 0 {
		radius = 0
	}
	return Capsule{
		Start:  feet.Add(mgl64.Vec3{0, radius, 0}),
		End:    feet.Add(mgl64.Vec3{0, height, 0}),
		Radius: radius,
	}
}

// Translate moves both endpoints by offset in place.
func (c *Capsule) Translate(offset mgl64.Vec3) {
	c.Start = c.Start.Add(offset)
	c.End = c.End.Add(offset)
}

func (c *Capsule) Endpoints() Endpoints {
	return Endpoints{Start: c.Start, End: c.End}
}

func (c *Capsule) Restore(e Endpoints) {
	c.Start = e.Start
	c.End = e.End
}

// Bounds is the smallest box containing both endpoints grown by the radius.
func (c Capsule) Bounds() AABB {
	box := AABB{
		Min: mgl64.Vec3{min(c.Start.X(), c.End.X()), min(c.Start.Y(), c.End.Y()), min(c.Start.Z(), c.End.Z())},
		Max: mgl64.Vec3{max(c.Start.X(), c.End.X()), max(c.Start.Y(), c.End.Y()), max(c.Start.Z(), c.End.Z())},
	}
	return box.Expand(c.Radius)
}
