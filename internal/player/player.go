package player

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/weapon"
	"github.com/go-gl/mathgl/mgl64"
)

const maxPitch = 90.0

type Options struct {
	Height   float64
	Radius   float64
	Speed    float64
	MaxDelta float64
}

func DefaultOptions() Options {
	return Options{
		Height:   physics.PlayerHeight,
		Radius:   physics.PlayerRadius,
		Speed:    physics.DefaultSpeed,
		MaxDelta: physics.DefaultMaxDelta,
	}
}

// State is a copy of the player taken under its lock.
type State struct {
	Feet    mgl64.Vec3
	Eye     mgl64.Vec3
	Yaw     float64
	Pitch   float64
	Forward mgl64.Vec3
	Last    physics.Result
}

// Player is the controlled first-person entity. Step runs on the tick
// goroutine; the debug console reads and teleports it from its own.
type Player struct {
	mu       sync.Mutex
	opts     Options
	capsule  physics.Capsule
	resolver physics.Resolver
	yaw      float64
	pitch    float64
	weapon   *weapon.Weapon
	last     physics.Result
}

func New(feet mgl64.Vec3, opts Options, w *weapon.Weapon) *Player {
	if w == nil {
		w = weapon.NewDefault()
	}
	return &Player{
		opts:     opts,
		capsule:  physics.NewCapsule(feet, opts.Height, opts.Radius),
		resolver: physics.Resolver{Speed: opts.Speed, MaxDelta: opts.MaxDelta},
		weapon:   w,
	}
}

// Step resolves one tick of movement against set using the current look
// direction.
func (p *Player) Step(delta float64, intent physics.Intent, set physics.ObstacleSet) physics.Result {
	p.mu.Lock()
	in := physics.Input{
		Delta:  delta,
		Intent: intent,
		Facing: forward(p.yaw, p.pitch),
	}
	res := p.resolver.Resolve(&p.capsule, in, set)
	p.last = res
	eye := p.capsule.End
	p.mu.Unlock()

	switch res.Outcome {
	case physics.OutcomeSlid:
		slog.Debug("Player slid", logger.Vec("eye", eye), logger.Vec("normal", res.Contact.Normal), "obstacle", res.Contact.Obstacle.Name)
	case physics.OutcomeBlocked:
		slog.Debug("Player blocked", logger.Vec("eye", eye), logger.Vec("step", res.Step))
	}
	return res
}

// Fire shoots from the eye along the look direction.
func (p *Player) Fire(now time.Time, set physics.ObstacleSet) (weapon.Shot, error) {
	p.mu.Lock()
	eye := p.capsule.End
	dir := forward(p.yaw, p.pitch)
	p.mu.Unlock()

	return p.weapon.Fire(now, eye, dir, set)
}

// Look sets the absolute view angles in degrees. Pitch is clamped to
// straight up/down and yaw wraps into [0, 360).
func (p *Player) Look(yaw, pitch float64) {
	p.mu.Lock()
	p.yaw = wrapYaw(yaw)
	p.pitch = mgl64.Clamp(pitch, -maxPitch, maxPitch)
	p.mu.Unlock()
}

func (p *Player) Turn(dYaw, dPitch float64) {
	p.mu.Lock()
	p.yaw = wrapYaw(p.yaw + dYaw)
	p.pitch = mgl64.Clamp(p.pitch+dPitch, -maxPitch, maxPitch)
	p.mu.Unlock()
}

// LookAt points the view at target from the eye. Looking at the eye itself
// leaves the angles unchanged.
func (p *Player) LookAt(target mgl64.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()

	d := target.Sub(p.capsule.End)
	if d.LenSqr() == 0 {
		return
	}
	horiz := math.Hypot(d.X(), d.Z())
	p.pitch = mgl64.RadToDeg(math.Atan2(d.Y(), horiz))
	if horiz == 0 {
		p.pitch = math.Copysign(maxPitch, d.Y())
		return
	}
	p.yaw = wrapYaw(mgl64.RadToDeg(math.Atan2(-d.X(), -d.Z())))
}

// Teleport rebuilds the capsule standing on feet.
func (p *Player) Teleport(feet mgl64.Vec3) {
	p.mu.Lock()
	p.capsule = physics.NewCapsule(feet, p.opts.Height, p.opts.Radius)
	p.last = physics.Result{}
	p.mu.Unlock()
	slog.Info("Player teleported", logger.Vec("feet", feet))
}

// Eye is the camera position, the capsule's upper endpoint.
func (p *Player) Eye() mgl64.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capsule.End
}

func (p *Player) Forward() mgl64.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return forward(p.yaw, p.pitch)
}

func (p *Player) Capsule() physics.Capsule {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.capsule
}

func (p *Player) Weapon() *weapon.Weapon {
	return p.weapon
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Feet:    p.feetLocked(),
		Eye:     p.capsule.End,
		Yaw:     p.yaw,
		Pitch:   p.pitch,
		Forward: forward(p.yaw, p.pitch),
		Last:    p.last,
	}
}

func (p *Player) feetLocked() mgl64.Vec3 {
	return p.capsule.End.Sub(mgl64.Vec3{0, p.opts.Height, 0})
}

// forward converts view angles to a unit look vector. Yaw 0 looks down -Z
// and positive yaw turns toward -X. At a vertical pitch the horizontal part
// is exactly zero.
func forward(yaw, pitch float64) mgl64.Vec3 {
	if pitch >= maxPitch {
		return mgl64.Vec3{0, 1, 0}
	}
	if pitch <= -maxPitch {
		return mgl64.Vec3{0, -1, 0}
	}
	yawRad := mgl64.DegToRad(yaw)
	pitchRad := mgl64.DegToRad(pitch)
	cp := math.Cos(pitchRad)
	return mgl64.Vec3{
		-math.Sin(yawRad) * cp,
		math.Sin(pitchRad),
		-math.Cos(yawRad) * cp,
	}
}

func wrapYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 360)
	if yaw < 0 {
		yaw += 360
	}
	return yaw
}
