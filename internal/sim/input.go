package sim

import "github.com/Versifine/stride/internal/physics"

// Input is what the world consumes from its controller each tick.
type Input struct {
	Intent physics.Intent
	// YawDelta and PitchDelta are degrees of look change since the last
	// poll.
	YawDelta   float64
	PitchDelta float64
	// Fire is a one-shot trigger pull.
	Fire bool
}

// InputSource is polled once per tick. Edge-triggered fields (look deltas,
// Fire) must be cleared by the source once returned.
type InputSource interface {
	Poll() Input
}

// HeldInput replays the same intent every tick. It is used for scripted
// headless runs.
type HeldInput struct {
	Intent physics.Intent
}

func (h HeldInput) Poll() Input {
	return Input{Intent: h.Intent}
}
