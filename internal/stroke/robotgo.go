package stroke

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// Robotgo drives the pointer in-process through robotgo (X11, Windows, macOS).
type Robotgo struct{}

// MoveAbsolute moves the pointer to desktop coordinates (x, y).
func (Robotgo) MoveAbsolute(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Click presses and/or releases the left button according to button.
func (Robotgo) Click(button Button) error {
	switch button {
	case LeftClick:
		robotgo.Click("left")
		return nil
	case LeftDown:
		return robotgo.Toggle("left")
	case LeftUp:
		return robotgo.Toggle("left", "up")
	default:
		return fmt.Errorf("robotgo: unsupported button code %s", button)
	}
}
