package sim

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickRate = 60
	DefaultMaxSteps = 5
)

// Loop turns irregular frame times into fixed simulation steps. Time that
// does not fit into MaxSteps steps is dropped rather than carried over, so a
// stalled host slows the simulation down instead of fast-forwarding it.
type Loop struct {
	Step     time.Duration
	MaxSteps int

	tick    func(dt time.Duration)
	now     func() time.Time
	acc     time.Duration
	dropped time.Duration
}

func NewLoop(step time.Duration, maxSteps int, tick func(dt time.Duration)) *Loop {
	if step <= 0 {
		step = time.Second / DefaultTickRate
	}
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Loop{
		Step:     step,
		MaxSteps: maxSteps,
		tick:     tick,
		now:      time.Now,
	}
}

// Advance feeds elapsed wall time into the accumulator and runs as many
// whole steps as it holds, up to MaxSteps. It returns the number of steps
// run.
func (l *Loop) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		l.acc += elapsed
	}

	steps := 0
	for l.acc >= l.Step && steps < l.MaxSteps {
		if l.tick != nil {
			l.tick(l.Step)
		}
		l.acc -= l.Step
		steps++
	}
	if steps == l.MaxSteps && l.acc >= l.Step {
		slog.Debug("Simulation fell behind, dropping time", "dropped", l.acc, "steps", steps)
		l.dropped += l.acc
		l.acc = 0
	}
	return steps
}

// Pending is the time waiting in the accumulator for the next step.
func (l *Loop) Pending() time.Duration {
	return l.acc
}

// Dropped is the total time discarded because a frame hit MaxSteps.
func (l *Loop) Dropped() time.Duration {
	return l.dropped
}

// Run calls Advance every frame with the measured time since the previous
// frame until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, frame time.Duration) error {
	if frame <= 0 {
		frame = l.Step
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	slog.Info("Simulation loop started", "step", l.Step, "frame", frame, "max_steps", l.MaxSteps)
	last := l.now()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Simulation loop stopped", "dropped", l.dropped)
			return nil
		case <-ticker.C:
			now := l.now()
			l.Advance(now.Sub(last))
			last = now
		}
	}
}
