package weapon

import (
	"fmt"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultDamage   = 10
	DefaultRange    = 100.0
	DefaultCooldown = 500 * time.Millisecond
)

// Shot is the outcome of a single hitscan trigger pull.
type Shot struct {
	Origin   mgl64.Vec3
	End      mgl64.Vec3
	Distance float64
	// Obstacle is nil when nothing was hit within range.
	Obstacle *physics.Obstacle
	Damage   int
}

func (s Shot) Hit() bool {
	return s.Obstacle != nil
}

type Weapon struct {
	Damage   int
	Range    float64
	Cooldown time.Duration

	mu       sync.Mutex
	lastShot time.Time
	fired    bool
}

func New(damage int, rng float64, cooldown time.Duration) *Weapon {
	return &Weapon{
		Damage:   damage,
		Range:    rng,
		Cooldown: cooldown,
	}
}

func NewDefault() *Weapon {
	return New(DefaultDamage, DefaultRange, DefaultCooldown)
}

// Ready reports whether a trigger pull at now would fire.
func (w *Weapon) Ready(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.readyLocked(now)
}

func (w *Weapon) readyLocked(now time.Time) bool {
	return !w.fired || now.Sub(w.lastShot) >= w.Cooldown
}

// Fire casts a ray from origin along dir against set. The cooldown starts
// only when a shot is actually taken.
func (w *Weapon) Fire(now time.Time, origin, dir mgl64.Vec3, set physics.ObstacleSet) (Shot, error) {
	if dir.LenSqr() == 0 {
		return Shot{}, ErrInvalidDirection
	}

	w.mu.Lock()
	if !w.readyLocked(now) {
		remaining := w.Cooldown - now.Sub(w.lastShot)
		w.mu.Unlock()
		return Shot{}, fmt.Errorf("%w: %v remaining", ErrCoolingDown, remaining)
	}
	w.lastShot = now
	w.fired = true
	w.mu.Unlock()

	dir = dir.Normalize()
	shot := Shot{
		Origin:   origin,
		End:      origin.Add(dir.Mul(w.Range)),
		Distance: w.Range,
		Damage:   w.Damage,
	}
	if hit, ok := physics.RayCast(origin, dir, w.Range, set); ok {
		shot.End = hit.Point
		shot.Distance = hit.Distance
		shot.Obstacle = hit.Obstacle
	}
	return shot, nil
}
