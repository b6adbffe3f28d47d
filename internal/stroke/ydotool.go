package stroke

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Ydotool drives the pointer through the ydotool CLI, one process per call.
// The ydotoold daemon must be running for the commands to succeed.
type Ydotool struct {
	path string
	run  func(name string, args ...string) ([]byte, error)
}

// NewYdotool returns a backend invoking the ydotool binary at path.
func NewYdotool(path string) *Ydotool {
	if path == "" {
		path = "ydotool"
	}
	return &Ydotool{path: path, run: runCommand}
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

// MoveAbsolute moves the pointer to desktop coordinates (x, y).
func (yd *Ydotool) MoveAbsolute(x, y int) error {
	return yd.invoke("mousemove", "--absolute", "--x", strconv.Itoa(x), "--y", strconv.Itoa(y))
}

// Click sends a button code such as 0xC0.
func (yd *Ydotool) Click(button Button) error {
	return yd.invoke("click", button.String())
}

func (yd *Ydotool) invoke(args ...string) error {
	out, err := yd.run(yd.path, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("ydotool %s: %w: %s", strings.Join(args, " "), err, msg)
		}
		return fmt.Errorf("ydotool %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
