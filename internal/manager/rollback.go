// internal/manager/rollback.go
package manager

import (
	"errors"
	"fmt"
	"log/slog"
)

// compensation is an explicit list of completed steps with undo actions.
// On failure the undos run in reverse completion order, and a failing
// undo is recorded and logged without preventing the remaining undos
// from being attempted.
type compensation struct {
	log   *slog.Logger
	steps []compensationStep
}

type compensationStep struct {
	desc string
	undo func() error
}

func newCompensation(log *slog.Logger) *compensation {
	return &compensation{log: log}
}

// add records an undo action for a step that just completed.
func (c *compensation) add(desc string, undo func() error) {
	c.steps = append(c.steps, compensationStep{desc: desc, undo: undo})
}

// run executes every undo in reverse order and returns the joined
// errors of any that failed.
func (c *compensation) run() error {
	var errs []error
	for i := len(c.steps) - 1; i >= 0; i-- {
		step := c.steps[i]
		if err := step.undo(); err != nil {
			c.log.Warn("rollback step failed", "step", step.desc, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", step.desc, err))
		} else {
			c.log.Debug("rolled back", "step", step.desc)
		}
	}
	return errors.Join(errs...)
}
