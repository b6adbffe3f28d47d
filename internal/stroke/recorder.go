package stroke

import (
	"fmt"
	"sync"
)

// Call is one recorded backend invocation.
type Call struct {
	Op     string // "move" or "click"
	X, Y   int
	Button Button
}

func (c Call) String() string {
	if c.Op == "move" {
		return fmt.Sprintf("move %d,%d", c.X, c.Y)
	}
	return fmt.Sprintf("click %s", c.Button)
}

// Recorder is a Backend that records calls without touching a pointer device.
// Setting FailAt makes the FailAt-th call (1-based) return Err.
type Recorder struct {
	mu     sync.Mutex
	calls  []Call
	FailAt int
	Err    error
}

// MoveAbsolute records a move.
func (r *Recorder) MoveAbsolute(x, y int) error {
	return r.record(Call{Op: "move", X: x, Y: y})
}

// Click records a click.
func (r *Recorder) Click(button Button) error {
	return r.record(Call{Op: "click", Button: button})
}

func (r *Recorder) record(c Call) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAt > 0 && len(r.calls)+1 == r.FailAt {
		err := r.Err
		if err == nil {
			err = fmt.Errorf("recorder: injected failure on call %d", r.FailAt)
		}
		return err
	}
	r.calls = append(r.calls, c)
	return nil
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}
