// Package stroke turns sampled contours into pointer strokes and replays them
// through an input-automation backend.
package stroke

import (
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

// Button is a ydotool-style mouse button code: the low nibble selects the
// button, 0x40 presses and 0x80 releases.
type Button uint8

const (
	LeftClick Button = 0xC0 // Press and release
	LeftDown  Button = 0x40
	LeftUp    Button = 0x80
)

func (b Button) String() string {
	return fmt.Sprintf("0x%02X", uint8(b))
}

// Backend is the pointer-automation primitive set. Both calls are synchronous;
// a returned error means the command did not complete.
type Backend interface {
	MoveAbsolute(x, y int) error
	Click(button Button) error
}

// Backend names accepted by Probe and Open.
const (
	BackendYdotool = "ydotool"
	BackendRobotgo = "robotgo"
	BackendJCode   = "jcode"
	BackendRecord  = "record"
)

// ErrToolUnavailable is returned when the requested backend cannot be used.
var ErrToolUnavailable = errors.New("automation backend unavailable")

// Capability is the result of probing a backend once at startup.
type Capability struct {
	Backend   string
	Available bool
	Path      string // Resolved executable, for exec-based backends
	Reason    string // Why the backend is unavailable
}

// Err returns nil when the backend is available, ErrToolUnavailable otherwise.
func (c Capability) Err() error {
	if c.Available {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrToolUnavailable, c.Backend, c.Reason)
}

var lookPath = exec.LookPath

// Probe checks whether the named backend can be driven on this machine.
func Probe(name string) Capability {
	c := Capability{Backend: name}
	switch name {
	case BackendYdotool:
		path, err := lookPath("ydotool")
		if err != nil {
			c.Reason = "ydotool not found in PATH"
			return c
		}
		c.Path = path
		c.Available = true
	case BackendRobotgo, BackendJCode, BackendRecord:
		c.Available = true
	default:
		c.Reason = "unknown backend"
	}
	return c
}

// Backends returns the known backend names.
func Backends() []string {
	names := []string{BackendYdotool, BackendRobotgo, BackendJCode, BackendRecord}
	sort.Strings(names)
	return names
}
