package provision

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSagaRunsStepsInOrder(t *testing.T) {
	var order []string
	saga := NewSaga(discardLogger())
	for _, name := range []string{"one", "two", "three"} {
		name := name
		saga.Add(Step{Name: name, Run: func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}})
	}

	require.NoError(t, saga.Execute(context.Background()))
	require.Equal(t, []string{"one", "two", "three"}, order)
}

func TestSagaCompensatesInReverseOrderFromFailure(t *testing.T) {
	var compensated []string
	saga := NewSaga(discardLogger())
	saga.Add(Step{
		Name: "first",
		Run:  func(ctx context.Context) error { return nil },
		Compensate: func(ctx context.Context) error {
			compensated = append(compensated, "first")
			return nil
		},
	})
	saga.Add(Step{
		Name: "second",
		Run:  func(ctx context.Context) error { return nil },
		Compensate: func(ctx context.Context) error {
			compensated = append(compensated, "second")
			return nil
		},
	})
	boom := errors.New("downstream rejected call")
	saga.Add(Step{Name: "third", Run: func(ctx context.Context) error { return boom }})

	err := saga.Execute(context.Background())

	require.ErrorIs(t, err, boom)
	require.Equal(t, []string{"second", "first"}, compensated)
}

func TestSagaBestEffortFailureDoesNotUnwind(t *testing.T) {
	var compensated bool
	var ranAfter bool
	saga := NewSaga(discardLogger())
	saga.Add(Step{
		Name:       "mandatory",
		Run:        func(ctx context.Context) error { return nil },
		Compensate: func(ctx context.Context) error { compensated = true; return nil },
	})
	saga.Add(Step{
		Name:       "optional",
		BestEffort: true,
		Run:        func(ctx context.Context) error { return errors.New("mail relay down") },
	})
	saga.Add(Step{Name: "after", Run: func(ctx context.Context) error { ranAfter = true; return nil }})

	require.NoError(t, saga.Execute(context.Background()))
	require.False(t, compensated)
	require.True(t, ranAfter, "saga continues past a best-effort failure")
}

func TestSagaCompensationFailureIsNotEscalated(t *testing.T) {
	var secondCompensated bool
	saga := NewSaga(discardLogger())
	saga.Add(Step{
		Name:       "first",
		Run:        func(ctx context.Context) error { return nil },
		Compensate: func(ctx context.Context) error { secondCompensated = true; return nil },
	})
	saga.Add(Step{
		Name:       "second",
		Run:        func(ctx context.Context) error { return nil },
		Compensate: func(ctx context.Context) error { return errors.New("delete rejected") },
	})
	boom := errors.New("third failed")
	saga.Add(Step{Name: "third", Run: func(ctx context.Context) error { return boom }})

	err := saga.Execute(context.Background())

	require.ErrorIs(t, err, boom, "the original failure is surfaced, not the compensation's")
	require.True(t, secondCompensated, "remaining compensations still run")
}
