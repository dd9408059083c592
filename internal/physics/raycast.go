package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type RayHit struct {
	Point    mgl64.Vec3
	Distance float64
	Obstacle *Obstacle
}

// RayCast returns the nearest obstacle hit by the ray within maxDist.
// A ray starting inside a box hits it at distance zero.
func RayCast(origin, dir mgl64.Vec3, maxDist float64, set ObstacleSet) (RayHit, bool) {
	if set == nil || maxDist <= 0 || dir.LenSqr() == 0 {
		return RayHit{}, false
	}
	dir = dir.Normalize()
	end := origin.Add(dir.Mul(maxDist))
	region := AABB{
		Min: mgl64.Vec3{min(origin.X(), end.X()), min(origin.Y(), end.Y()), min(origin.Z(), end.Z())},
		Max: mgl64.Vec3{max(origin.X(), end.X()), max(origin.Y(), end.Y()), max(origin.Z(), end.Z())},
	}

	var (
		best  RayHit
		found bool
	)
	for _, obstacle := range set.Near(region) {
		t, ok := rayBox(origin, dir, obstacle.Bounds)
		if !ok || t > maxDist {
			continue
		}
		if !found || t < best.Distance {
			best = RayHit{
				Point:    origin.Add(dir.Mul(t)),
				Distance: t,
				Obstacle: obstacle,
			}
			found = true
		}
	}
	return best, found
}

// rayBox is the slab test. dir must be normalised.
func rayBox(origin, dir mgl64.Vec3, box AABB) (float64, bool) {
	tMin := 0.0
	tMax := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o, d := origin[axis], dir[axis]
		lo, hi := box.Min[axis], box.Max[axis]
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
