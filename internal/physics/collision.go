package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Contact describes the closest penetration found by QueryContact.
type Contact struct {
	// Normal is a signed unit vector along one world axis.
	Normal mgl64.Vec3
	// Point is the capsule endpoint that penetrated.
	Point mgl64.Vec3
	// Depth is the distance from the expanded obstacle's centre to Point.
	Depth    float64
	Obstacle *Obstacle
}

// QueryContact tests both capsule endpoints against every candidate
// obstacle expanded by the capsule radius and returns the contact whose
// endpoint lies closest to its obstacle's centre.
func QueryContact(set ObstacleSet, c Capsule) (Contact, bool) {
	if set == nil {
		return Contact{}, false
	}

	var (
		closest Contact
		found   bool
	)
	minDist := math.Inf(1)
	points := [2]mgl64.Vec3{c.Start, c.End}

	for _, obstacle := range set.Near(c.Bounds()) {
		box := obstacle.Bounds.Expand(c.Radius)
		center := box.Center()

		for _, p := range points {
			if !box.ContainsPoint(p) {
				continue
			}
			offset := p.Sub(center)
			dist := offset.LenSqr()
			if dist == 0 {
				continue
			}
			if dist < minDist {
				minDist = dist
				closest = Contact{
					Normal:   axisNormal(offset),
					Point:    p,
					Depth:    math.Sqrt(dist),
					Obstacle: obstacle,
				}
				found = true
			}
		}
	}

	return closest, found
}

// Overlaps reports whether any endpoint of c is inside an expanded obstacle.
func Overlaps(set ObstacleSet, c Capsule) bool {
	_, ok := QueryContact(set, c)
	return ok
}

// axisNormal picks the dominant axis of offset. Ties go to x, then y.
func axisNormal(offset mgl64.Vec3) mgl64.Vec3 {
	ax := math.Abs(offset.X())
	ay := math.Abs(offset.Y())
	az := math.Abs(offset.Z())

	switch {
	case ax >= ay && ax >= az:
		return mgl64.Vec3{sign(offset.X()), 0, 0}
	case ay >= az:
		return mgl64.Vec3{0, sign(offset.Y()), 0}
	default:
		return mgl64.Vec3{0, 0, sign(offset.Z())}
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
