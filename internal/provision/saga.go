// Package provision orchestrates multi-step account and tenant creation
// against collaborators that offer no multi-statement transaction. Atomicity
// is approximated with compensating actions: each step that must be undone
// on a later failure carries its own compensation.
package provision

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one unit of a provisioning saga. Compensate undoes the step's own
// write and runs only when a later mandatory step fails. BestEffort steps may
// fail without unwinding anything: their failure is logged and the saga
// continues.
type Step struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	BestEffort bool
}

// Saga executes steps sequentially and, on a mandatory failure, runs the
// compensations of every completed step in reverse order. Compensations are
// issued once and never retried; a failed compensation leaves residual state
// and is logged rather than escalated.
type Saga struct {
	logger *slog.Logger
	steps  []Step
}

// NewSaga constructs an empty saga.
func NewSaga(logger *slog.Logger) *Saga {
	return &Saga{logger: logger}
}

// Add appends a step.
func (s *Saga) Add(step Step) {
	s.steps = append(s.steps, step)
}

// Execute runs the saga. The returned error is the failing step's error; by
// the time it is returned all applicable compensations have been attempted.
func (s *Saga) Execute(ctx context.Context) error {
	var completed []Step
	for _, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			if step.BestEffort {
				if s.logger != nil {
					s.logger.Warn("best-effort step failed", slog.String("step", step.Name), slog.Any("error", err))
				}
				continue
			}
			s.unwind(ctx, completed)
			return fmt.Errorf("%s: %w", step.Name, err)
		}
		completed = append(completed, step)
	}
	return nil
}

func (s *Saga) unwind(ctx context.Context, completed []Step) {
	for i := len(completed) - 1; i >= 0; i-- {
		step := completed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil && s.logger != nil {
			s.logger.Error("compensation failed, residual state remains",
				slog.String("step", step.Name), slog.Any("error", err))
		}
	}
}
