package sim

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/player"
	"github.com/Versifine/stride/internal/weapon"
)

// World advances the player through the level one fixed step at a time.
// Tick must only be called from a single goroutine.
type World struct {
	player    *player.Player
	obstacles physics.ObstacleSet
	bus       *event.Bus

	mu    sync.Mutex
	input InputSource

	epoch   time.Time
	elapsed time.Duration
	ticks   atomic.Uint64
}

func NewWorld(p *player.Player, obstacles physics.ObstacleSet, bus *event.Bus, input InputSource) *World {
	if bus == nil {
		bus = event.NewBus()
	}
	return &World{
		player:    p,
		obstacles: obstacles,
		bus:       bus,
		input:     input,
		epoch:     time.Now(),
	}
}

func (w *World) SetInput(src InputSource) {
	w.mu.Lock()
	w.input = src
	w.mu.Unlock()
}

// Tick polls input, applies look changes, resolves exactly one movement
// step and handles a trigger pull. Events are published for slides, blocks
// and shots.
func (w *World) Tick(dt time.Duration) {
	tick := w.ticks.Add(1)
	w.elapsed += dt
	now := w.Now()

	w.mu.Lock()
	src := w.input
	w.mu.Unlock()

	var in Input
	if src != nil {
		in = src.Poll()
	}

	if in.YawDelta != 0 || in.PitchDelta != 0 {
		w.player.Turn(in.YawDelta, in.PitchDelta)
	}

	res := w.player.Step(dt.Seconds(), in.Intent, w.obstacles)
	w.publishMotion(tick, res)

	if in.Fire {
		w.fire(tick, now)
	}
}

// Now is simulation time: the world's creation time plus every tick's dt.
func (w *World) Now() time.Time {
	return w.epoch.Add(w.elapsed)
}

func (w *World) Ticks() uint64 {
	return w.ticks.Load()
}

func (w *World) Player() *player.Player {
	return w.player
}

func (w *World) Bus() *event.Bus {
	return w.bus
}

func (w *World) publishMotion(tick uint64, res physics.Result) {
	var name string
	switch res.Outcome {
	case physics.OutcomeSlid:
		name = event.EventMotionSlid
	case physics.OutcomeBlocked:
		name = event.EventMotionBlocked
	default:
		return
	}

	evt := event.MotionEvent{
		Tick:    tick,
		Eye:     w.player.Eye(),
		Step:    res.Step,
		Applied: res.Applied,
	}
	if res.Contact != nil {
		evt.Normal = res.Contact.Normal
		if res.Contact.Obstacle != nil {
			evt.Obstacle = res.Contact.Obstacle.Name
		}
	}
	w.bus.Publish(name, evt)
}

func (w *World) fire(tick uint64, now time.Time) {
	shot, err := w.player.Fire(now, w.obstacles)
	if err != nil {
		if errors.Is(err, weapon.ErrCoolingDown) {
			slog.Debug("Trigger ignored", "error", err)
			return
		}
		slog.Warn("Fire failed", "error", err)
		return
	}

	evt := event.ShotEvent{
		Tick:     tick,
		Origin:   shot.Origin,
		End:      shot.End,
		Distance: shot.Distance,
		Damage:   shot.Damage,
	}
	if shot.Obstacle != nil {
		evt.Target = shot.Obstacle.Name
	}
	slog.Debug("Shot fired", logger.Vec("end", shot.End), "target", evt.Target)
	w.bus.Publish(event.EventWeaponShot, evt)
}
