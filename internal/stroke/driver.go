package stroke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"drawbot/internal/contour"
	"drawbot/pkg/geometry"
)

// Mode selects how a stroke is rendered with the pointer.
type Mode string

const (
	// ModeClick clicks at every point, producing a dotted outline.
	ModeClick Mode = "click"
	// ModeDrag presses at the first point, moves through the rest and releases.
	ModeDrag Mode = "drag"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeClick, ModeDrag:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown stroke mode %q (want %q or %q)", s, ModeClick, ModeDrag)
	}
}

// ErrStrokeCommand is matched by every backend failure during drawing.
var ErrStrokeCommand = errors.New("stroke command failed")

// CommandError identifies the backend call that aborted a drawing.
type CommandError struct {
	Stroke int // Index of the stroke being drawn
	Point  int // Index of the point within the stroke
	Op     string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%v: stroke %d point %d %s: %v", ErrStrokeCommand, e.Stroke, e.Point, e.Op, e.Err)
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrStrokeCommand, e.Err}
}

// Stroke is an ordered sequence of absolute device coordinates.
type Stroke struct {
	Points []geometry.PointInt
}

// Build translates sampled contours into strokes by adding origin to every point.
func Build(sampled []contour.Sampled, origin geometry.PointInt) []Stroke {
	strokes := make([]Stroke, len(sampled))
	for i, s := range sampled {
		strokes[i] = Stroke{Points: geometry.Translate(s.Points, origin)}
	}
	return strokes
}

// Options configures a Driver.
type Options struct {
	Mode  Mode
	Delay time.Duration // Pause after each completed backend command

	// Progress, if set, is called after each stroke completes.
	Progress func(done, total int)
}

// DefaultOptions returns click mode with a 2ms inter-command pause.
func DefaultOptions() Options {
	return Options{
		Mode:  ModeClick,
		Delay: 2 * time.Millisecond,
	}
}

// Stats summarises a drawing session.
type Stats struct {
	Strokes int
	Points  int
	Moves   int
	Clicks  int
	Elapsed time.Duration
}

// Driver replays strokes through a Backend, one command at a time.
type Driver struct {
	backend Backend
	opts    Options
}

// NewDriver creates a driver for backend. capability is the startup probe
// result for that backend; an unavailable backend is rejected here so no
// drawing is ever attempted.
func NewDriver(backend Backend, capability Capability, opts Options) (*Driver, error) {
	if err := capability.Err(); err != nil {
		return nil, err
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: no backend", ErrToolUnavailable)
	}
	if opts.Mode == "" {
		opts.Mode = ModeClick
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}

	if opts.Delay < 0 {
		opts.Delay = 0
	}

	return &Driver{backend: backend, opts: opts}, nil
}

// Draw replays strokes in order. The first failing backend call aborts the
// whole drawing; nothing is retried and no resume point is kept.
func (d *Driver) Draw(ctx context.Context, strokes []Stroke) (Stats, error) {
	var stats Stats
	start := time.Now()

	for si, s := range strokes {
		if len(s.Points) == 0 {
			continue
		}
		if err := d.drawStroke(ctx, si, s, &stats); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}
		stats.Strokes++
		stats.Points += len(s.Points)
		if d.opts.Progress != nil {
			d.opts.Progress(si+1, len(strokes))
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

func (d *Driver) drawStroke(ctx context.Context, si int, s Stroke, stats *Stats) error {
	first := LeftClick
	if d.opts.Mode == ModeDrag {
		first = LeftDown
	}

	if err := d.move(ctx, si, 0, s.Points[0], stats); err != nil {
		return err
	}
	if err := d.click(ctx, si, 0, first, stats); err != nil {
		return err
	}

	for pi := 1; pi < len(s.Points); pi++ {
		if err := d.move(ctx, si, pi, s.Points[pi], stats); err != nil {
			return err
		}
		if d.opts.Mode == ModeClick {
			if err := d.click(ctx, si, pi, LeftClick, stats); err != nil {
				return err
			}
		}
	}

	if d.opts.Mode == ModeDrag {
		return d.click(ctx, si, len(s.Points)-1, LeftUp, stats)
	}
	return nil
}

func (d *Driver) move(ctx context.Context, si, pi int, p geometry.PointInt, stats *Stats) error {
	op := fmt.Sprintf("move %s", p)
	if err := ctx.Err(); err != nil {
		return &CommandError{Stroke: si, Point: pi, Op: op, Err: err}
	}
	if err := d.backend.MoveAbsolute(p.X, p.Y); err != nil {
		return &CommandError{Stroke: si, Point: pi, Op: op, Err: err}
	}
	stats.Moves++
	return d.pause(ctx, si, pi, op)
}

func (d *Driver) click(ctx context.Context, si, pi int, b Button, stats *Stats) error {
	op := fmt.Sprintf("click %s", b)
	if err := ctx.Err(); err != nil {
		return &CommandError{Stroke: si, Point: pi, Op: op, Err: err}
	}
	if err := d.backend.Click(b); err != nil {
		return &CommandError{Stroke: si, Point: pi, Op: op, Err: err}
	}
	stats.Clicks++
	return d.pause(ctx, si, pi, op)
}

// pause waits Delay after a completed command, so the next one never starts
// sooner than Delay after the previous one returned.
func (d *Driver) pause(ctx context.Context, si, pi int, op string) error {
	if d.opts.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(d.opts.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return &CommandError{Stroke: si, Point: pi, Op: "pause after " + op, Err: ctx.Err()}
	}
}

// BackendConfig holds settings for the backends that need them.
type BackendConfig struct {
	YdotoolPath string    // Overrides the probed ydotool path
	JCodeOut    io.Writer // Destination for the jcode backend
	JCodeSpeed  float64
}

// Open constructs the backend described by a successful probe.
func Open(capability Capability, cfg BackendConfig) (Backend, error) {
	if err := capability.Err(); err != nil {
		return nil, err
	}
	switch capability.Backend {
	case BackendYdotool:
		path := cfg.YdotoolPath
		if path == "" {
			path = capability.Path
		}
		return NewYdotool(path), nil
	case BackendRobotgo:
		return Robotgo{}, nil
	case BackendJCode:
		if cfg.JCodeOut == nil {
			return nil, errors.New("jcode backend needs an output file")
		}
		speed := cfg.JCodeSpeed
		if speed <= 0 {
			speed = 100
		}
		return NewJCodeWriter(cfg.JCodeOut, speed), nil
	case BackendRecord:
		return &Recorder{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrToolUnavailable, capability.Backend)
	}
}
