package sim

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Versifine/stride/internal/event"
	"github.com/Versifine/stride/internal/level"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/player"
	"github.com/Versifine/stride/internal/weapon"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedInput returns queued inputs in order, then zero input.
type scriptedInput struct {
	mu     sync.Mutex
	queue  []Input
	polled int
}

func (s *scriptedInput) Poll() Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polled++
	if len(s.queue) == 0 {
		return Input{}
	}
	in := s.queue[0]
	s.queue = s.queue[1:]
	return in
}

type recorder struct {
	mu     sync.Mutex
	motion map[string][]event.MotionEvent
	shots  []event.ShotEvent
}

func record(bus *event.Bus) *recorder {
	r := &recorder{motion: make(map[string][]event.MotionEvent)}
	for _, name := range []string{event.EventMotionSlid, event.EventMotionBlocked} {
		name := name
		bus.Subscribe(name, func(raw any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.motion[name] = append(r.motion[name], raw.(event.MotionEvent))
		})
	}
	bus.Subscribe(event.EventWeaponShot, func(raw any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.shots = append(r.shots, raw.(event.ShotEvent))
	})
	return r
}

// motionByTick and shotsByTick order events by the tick that produced them. Handlers run on
// their own goroutines, so arrival order is not publish order.
func motionByTick(evts []event.MotionEvent) []event.MotionEvent {
	out := append([]event.MotionEvent(nil), evts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

func shotsByTick(evts []event.ShotEvent) []event.ShotEvent {
	out := append([]event.ShotEvent(nil), evts...)
	sort.Slice(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return out
}

func newWorld(feet mgl64.Vec3, set physics.ObstacleSet, input InputSource) (*World, *recorder) {
	p := player.New(feet, player.DefaultOptions(), weapon.NewDefault())
	bus := event.NewBus()
	rec := record(bus)
	return NewWorld(p, set, bus, input), rec
}

func newArenaWorld(feet mgl64.Vec3, input InputSource) (*World, *recorder) {
	return newWorld(feet, level.NewIndex(level.Arena().Obstacles), input)
}

func TestWorld_TickMovesOncePerStep(t *testing.T) {
	w, rec := newArenaWorld(mgl64.Vec3{}, HeldInput{Intent: physics.Intent{Forward: true}})
	loop := NewLoop(time.Second/60, 5, w.Tick)

	steps := loop.Advance(time.Second / 60 * 3)
	w.Bus().Wait()

	require.Equal(t, 3, steps)
	assert.Equal(t, uint64(3), w.Ticks())
	wantZ := -3 * physics.DefaultSpeed * (time.Second / 60).Seconds()
	assert.InDelta(t, wantZ, w.Player().Eye().Z(), 1e-9)
	assert.Empty(t, rec.motion)
}

func TestWorld_TurnAppliedBeforeStep(t *testing.T) {
	src := &scriptedInput{queue: []Input{
		{YawDelta: 90, Intent: physics.Intent{Forward: true}},
	}}
	w, _ := newArenaWorld(mgl64.Vec3{}, src)

	w.Tick(50 * time.Millisecond)

	eye := w.Player().Eye()
	assert.InDelta(t, -0.2, eye.X(), 1e-9)
	assert.InDelta(t, 0, eye.Z(), 1e-9)
	assert.Equal(t, 1, src.polled)
}

func TestWorld_PublishesBlockedAgainstWall(t *testing.T) {
	w, rec := newArenaWorld(mgl64.Vec3{0, 0, -9}, HeldInput{Intent: physics.Intent{Forward: true}})

	for i := 0; i < 20; i++ {
		w.Tick(50 * time.Millisecond)
	}
	w.Bus().Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	blocked := motionByTick(rec.motion[event.EventMotionBlocked])
	require.NotEmpty(t, blocked)
	assert.Equal(t, "wall-north", blocked[0].Obstacle)
	assert.Equal(t, mgl64.Vec3{}, blocked[0].Applied)
	assert.Greater(t, w.Player().Eye().Z(), -10.05)
}

func TestWorld_PublishesSlideAlongWall(t *testing.T) {
	// A low block whose near face is just ahead; walking forward-right
	// slides along it.
	block := physics.Obstacles{
		{Name: "low-block", Bounds: physics.AABBFromCenter(mgl64.Vec3{0, 1.05, -5.5}, mgl64.Vec3{10, 2.1, 10})},
	}
	w, rec := newWorld(mgl64.Vec3{0, 0, -0.1}, block, HeldInput{Intent: physics.Intent{Forward: true, Right: true}})

	for i := 0; i < 10; i++ {
		w.Tick(50 * time.Millisecond)
	}
	w.Bus().Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	slid := motionByTick(rec.motion[event.EventMotionSlid])
	require.Len(t, slid, 10)
	for i, evt := range slid {
		assert.Equal(t, uint64(i+1), evt.Tick)
	}
	first := slid[0]
	assert.Equal(t, "low-block", first.Obstacle)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, first.Normal)
	assert.Zero(t, first.Applied.Z())
	assert.Greater(t, first.Applied.X(), 0.0)
	assert.InDelta(t, -0.1, w.Player().State().Feet.Z(), 1e-9)
}

func TestWorld_FireRespectsCooldownInSimTime(t *testing.T) {
	src := &scriptedInput{}
	for i := 0; i < 40; i++ {
		src.queue = append(src.queue, Input{Fire: true})
	}
	w, rec := newArenaWorld(mgl64.Vec3{}, src)

	// 40 ticks of 25ms: the trigger is held throughout, but only ticks 1
	// and 21 are 500ms apart.
	for i := 0; i < 40; i++ {
		w.Tick(25 * time.Millisecond)
	}
	w.Bus().Wait()

	rec.mu.Lock()
	defer rec.mu.Unlock()
	shots := shotsByTick(rec.shots)
	require.Len(t, shots, 2)
	first := shots[0]
	assert.Equal(t, uint64(1), first.Tick)
	assert.Equal(t, "wall-north", first.Target)
	assert.InDelta(t, 9.75, first.Distance, 1e-9)
	assert.Equal(t, weapon.DefaultDamage, first.Damage)
	assert.Equal(t, uint64(21), shots[1].Tick)
}

func TestWorld_NilInput(t *testing.T) {
	w, _ := newArenaWorld(mgl64.Vec3{1, 0, 1}, nil)
	w.Tick(time.Second / 60)
	assert.Equal(t, mgl64.Vec3{1, 1.8, 1}, w.Player().Eye())

	w.SetInput(HeldInput{Intent: physics.Intent{Back: true}})
	w.Tick(time.Second / 60)
	assert.Greater(t, w.Player().Eye().Z(), 1.0)
}
