package physics

import "github.com/go-gl/mathgl/mgl64"

// Intent is the held state of the four movement keys.
type Intent struct {
	Forward bool
	Back    bool
	Left    bool
	Right   bool
}

// Axes returns forward-minus-back and right-minus-left.
func (i Intent) Axes() (forwardAmt, rightAmt float64) {
	if i.Forward {
		forwardAmt++
	}
	if i.Back {
		forwardAmt--
	}
	if i.Right {
		rightAmt++
	}
	if i.Left {
		rightAmt--
	}
	return forwardAmt, rightAmt
}

type Input struct {
	// Delta is the elapsed time in seconds.
	Delta  float64
	Intent Intent
	// Facing is the viewpoint's look direction; only its horizontal part
	// is used.
	Facing mgl64.Vec3
}

type Outcome int

const (
	OutcomeIdle Outcome = iota
	OutcomeMoved
	OutcomeSlid
	OutcomeBlocked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIdle:
		return "idle"
	case OutcomeMoved:
		return "moved"
	case OutcomeSlid:
		return "slid"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

type Result struct {
	Outcome Outcome
	// Step is the unobstructed displacement wanted this tick.
	Step mgl64.Vec3
	// Applied is the displacement actually committed to the capsule.
	Applied mgl64.Vec3
	// Contact is the contact hit by the direct step, nil if it was clear.
	Contact *Contact
}

type Resolver struct {
	Speed    float64
	MaxDelta float64
}

func NewResolver() *Resolver {
	return &Resolver{
		Speed:    DefaultSpeed,
		MaxDelta: DefaultMaxDelta,
	}
}

// Resolve moves c for one tick. A blocked direct step is retried once with
// the step projected onto the contact plane; if that overlaps too the
// capsule stays where it was.
func (r *Resolver) Resolve(c *Capsule, in Input, set ObstacleSet) Result {
	if c == nil {
		return Result{}
	}

	step, ok := r.desiredStep(in)
	if !ok {
		return Result{Outcome: OutcomeIdle}
	}

	before := c.Endpoints()
	c.Translate(step)
	contact, hit := QueryContact(set, *c)
	if !hit {
		return Result{Outcome: OutcomeMoved, Step: step, Applied: step}
	}

	c.Restore(before)
	result := Result{Outcome: OutcomeBlocked, Step: step, Contact: &contact}

	slide := Slide(step, contact.Normal)
	if slide.LenSqr() == 0 {
		return result
	}
	c.Translate(slide)
	if Overlaps(set, *c) {
		c.Restore(before)
		return result
	}

	result.Outcome = OutcomeSlid
	result.Applied = slide
	return result
}

func (r *Resolver) desiredStep(in Input) (mgl64.Vec3, bool) {
	forwardAmt, rightAmt := in.Intent.Axes()
	if forwardAmt == 0 && rightAmt == 0 {
		return mgl64.Vec3{}, false
	}

	forward, right := MovementBasis(in.Facing)
	dir := forward.Mul(forwardAmt).Add(right.Mul(rightAmt))
	if dir.LenSqr() == 0 {
		return mgl64.Vec3{}, false
	}

	delta := in.Delta
	if r.MaxDelta > 0 && delta > r.MaxDelta {
		delta = r.MaxDelta
	}
	return dir.Normalize().Mul(r.Speed * delta), true
}

// MovementBasis flattens facing onto the ground plane and returns unit
// forward and right vectors. Both are zero when facing is vertical, so a
// vertical view disables strafing as well as forward/back movement.
func MovementBasis(facing mgl64.Vec3) (forward, right mgl64.Vec3) {
	forward = mgl64.Vec3{facing.X(), 0, facing.Z()}
	if forward.LenSqr() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	forward = forward.Normalize()
	right = forward.Cross(WorldUp).Normalize()
	return forward, right
}

// Slide removes the component of step along normal.
func Slide(step, normal mgl64.Vec3) mgl64.Vec3 {
	return step.Sub(normal.Mul(step.Dot(normal)))
}
