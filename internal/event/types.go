package event

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	EventMotionSlid    = "motion.slid"
	EventMotionBlocked = "motion.blocked"
	EventWeaponShot    = "weapon.shot"
)

// MotionEvent is published when the resolver had to deflect or cancel a
// step. Normal and Obstacle describe the first contact of the tick.
type MotionEvent struct {
	Tick     uint64
	Eye      mgl64.Vec3
	Step     mgl64.Vec3
	Applied  mgl64.Vec3
	Normal   mgl64.Vec3
	Obstacle string
}

type ShotEvent struct {
	Tick     uint64
	Origin   mgl64.Vec3
	End      mgl64.Vec3
	Distance float64
	Target   string // empty on a miss
	Damage   int
}
