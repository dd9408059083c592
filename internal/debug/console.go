package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/level"
	"github.com/Versifine/stride/internal/logger"
	"github.com/Versifine/stride/internal/physics"
	"github.com/Versifine/stride/internal/player"
	"github.com/Versifine/stride/internal/sim"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"
)

const (
	defaultStatusInterval = 100 * time.Millisecond
	defaultMovePulse      = 180 * time.Millisecond
	yawStep               = 5.0
	pitchStep             = 5.0
)

type ControlledPlayer interface {
	State() player.State
	Teleport(feet mgl64.Vec3)
	LookAt(target mgl64.Vec3)
}

// Console is a raw-mode keyboard controller for the simulation. It is the
// world's InputSource: key presses are turned into held movement pulses,
// look deltas and trigger pulls that the tick goroutine drains via Poll.
type Console struct {
	player         ControlledPlayer
	level          *level.Level
	in             io.Reader
	out            io.Writer
	now            func() time.Time
	statusInterval time.Duration
	movePulse      time.Duration

	mu            sync.Mutex
	intent        physics.Intent
	yawDelta      float64
	pitchDelta    float64
	fire          bool
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	commandMode   bool
	commandBuf    []rune
	statusWidth   int

	outMu sync.Mutex
}

var _ sim.InputSource = (*Console)(nil)

// NewConsole builds a console over in/out. Nil streams default to the
// process's stdin/stdout.
func NewConsole(p ControlledPlayer, lvl *level.Level, in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		player:         p,
		level:          lvl,
		in:             in,
		out:            out,
		now:            time.Now,
		statusInterval: defaultStatusInterval,
		movePulse:      defaultMovePulse,
	}
}

// Start reads keys until ctx is cancelled or input ends. The terminal is
// switched to raw mode only when reading from a real tty.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.player == nil {
		return fmt.Errorf("console player is nil")
	}

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("set terminal raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
			c.printf("\r\n")
		}()
	}

	c.printf("[debug] console started (W/A/S/D pulse, arrows look, Space fire, X clear, : command)\r\n")
	c.renderStatusLine()

	go c.statusLoop(ctx)

	reader := bufio.NewReader(c.in)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		c.handleKey(reader, b)
	}
}

// Poll hands the tick loop the current intent and drains one-shot input.
func (c *Console) Poll() sim.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyMovementPulseLocked(c.now())

	in := sim.Input{
		Intent:     c.intent,
		YawDelta:   c.yawDelta,
		PitchDelta: c.pitchDelta,
		Fire:       c.fire,
	}
	c.yawDelta = 0
	c.pitchDelta = 0
	c.fire = false
	return in
}

func (c *Console) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(c.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.renderStatusLine()
		}
	}
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.intent.Forward, &c.forwardUntil, &c.intent.Back, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.intent.Back, &c.backwardUntil, &c.intent.Forward, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.intent.Left, &c.leftUntil, &c.intent.Right, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.intent.Right, &c.rightUntil, &c.intent.Left, &c.leftUntil)
	case ' ':
		c.mu.Lock()
		c.fire = true
		c.mu.Unlock()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.adjustLook(yawStep, 0)
		case 'C': // right
			c.adjustLook(-yawStep, 0)
		case 'A': // up
			c.adjustLook(0, pitchStep)
		case 'B': // down
			c.adjustLook(0, -pitchStep)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	c.printf("\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		c.printf("\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		c.printf("\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s ", buf)
		c.printf("\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		c.printf("\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		st := c.player.State()
		c.printf("[debug] feet=%s eye=%s yaw=%.1f pitch=%.1f last=%s\r\n",
			logger.FormatVec(st.Feet), logger.FormatVec(st.Eye), st.Yaw, st.Pitch, st.Last.Outcome)
		if st.Last.Contact != nil {
			ct := st.Last.Contact
			c.printf("[debug] contact obstacle=%s normal=%s depth=%.3f\r\n",
				ct.Obstacle.Name, logger.FormatVec(ct.Normal), ct.Depth)
		}
	case "level":
		c.printLevel()
	case "tp":
		v, ok := parseVec(parts)
		if !ok {
			c.printf("[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		c.player.Teleport(v)
		c.printf("[debug] teleported to %s\r\n", logger.FormatVec(v))
	case "look":
		v, ok := parseVec(parts)
		if !ok {
			c.printf("[debug] usage: :look <x> <y> <z>\r\n")
			return
		}
		c.player.LookAt(v)
		c.printf("[debug] look at %s\r\n", logger.FormatVec(v))
	default:
		c.printf("[debug] unknown command: %s\r\n", parts[0])
	}
}

func parseVec(parts []string) (mgl64.Vec3, bool) {
	if len(parts) != 4 {
		return mgl64.Vec3{}, false
	}
	var v mgl64.Vec3
	for i := range v {
		f, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return mgl64.Vec3{}, false
		}
		v[i] = f
	}
	return v, true
}

func (c *Console) printLevel() {
	if c.level == nil {
		c.printf("[debug] no level loaded\r\n")
		return
	}
	c.printf("[debug] level %q spawn=%s obstacles=%d\r\n",
		c.level.Name, logger.FormatVec(c.level.Spawn), len(c.level.Obstacles))
	for _, o := range c.level.Obstacles {
		c.printf("  %-16s min=%s max=%s\r\n", o.Name, logger.FormatVec(o.Bounds.Min), logger.FormatVec(o.Bounds.Max))
	}
}

func (c *Console) printHelp() {
	c.printf("[debug] keys:\r\n")
	c.printf("  W/S/A/D: pulse movement (~180ms)\r\n")
	c.printf("  Space: fire\r\n")
	c.printf("  Arrow Left/Right: yaw +/-5\r\n")
	c.printf("  Arrow Up/Down: pitch +/-5\r\n")
	c.printf("  X: clear all input\r\n")
	c.printf("  : enter command mode\r\n")
	c.printf("[debug] commands:\r\n")
	c.printf("  :tp <x> <y> <z>\r\n")
	c.printf("  :look <x> <y> <z>\r\n")
	c.printf("  :state\r\n")
	c.printf("  :level\r\n")
	c.printf("  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	intent := c.intent
	width := c.statusWidth
	c.mu.Unlock()

	st := c.player.State()
	line := fmt.Sprintf(
		"[F:%s B:%s L:%s R:%s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f | %s]",
		boolLabel(intent.Forward),
		boolLabel(intent.Back),
		boolLabel(intent.Left),
		boolLabel(intent.Right),
		st.Yaw,
		st.Pitch,
		st.Eye.X(),
		st.Eye.Y(),
		st.Eye.Z(),
		st.Last.Outcome,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	c.printf("\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) adjustLook(dYaw, dPitch float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yawDelta += dYaw
	c.pitchDelta += dPitch
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// pulse holds a movement key for movePulse and releases its opposite.
func (c *Console) pulse(key *bool, until *time.Time, opposite *bool, oppositeUntil *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*key = true
	*until = c.now().Add(c.movePulse)
	*opposite = false
	*oppositeUntil = time.Time{}
}

func (c *Console) applyMovementPulseLocked(now time.Time) {
	release := func(key *bool, until *time.Time) {
		if !until.IsZero() && !now.Before(*until) {
			*key = false
			*until = time.Time{}
		}
	}
	release(&c.intent.Forward, &c.forwardUntil)
	release(&c.intent.Back, &c.backwardUntil)
	release(&c.intent.Left, &c.leftUntil)
	release(&c.intent.Right, &c.rightUntil)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.intent = physics.Intent{}
	c.yawDelta = 0
	c.pitchDelta = 0
	c.fire = false
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.mu.Unlock()
	slog.Debug("debug input cleared")
}
