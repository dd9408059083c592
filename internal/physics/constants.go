package physics

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultSpeed    = 4.0
	DefaultMaxDelta = 0.05

	PlayerHeight = 1.8
	PlayerRadius = 0.3

	// BroadphaseEpsilon pads index queries so boxes that merely touch the
	// query region are still returned.
	BroadphaseEpsilon = 1e-9
)

var WorldUp = mgl64.Vec3{0, 1, 0}
