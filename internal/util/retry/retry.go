package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Budget bounds a polling wait: at most MaxAttempts observations with
// Interval between them. Exhausting a budget is a terminal condition for
// the caller, never a silent continuation.
type Budget struct {
	MaxAttempts int
	Interval    time.Duration
}

// ErrBudgetExhausted is returned by Poll when the condition never held
// within the budget.
var ErrBudgetExhausted = errors.New("retry budget exhausted")

// Poll calls condition up to budget.MaxAttempts times, sleeping
// budget.Interval between calls. It returns the number of attempts made
// and nil as soon as condition reports done. Context cancellation is
// checked at each iteration boundary, not mid-sleep.
//
// Any error returned by condition aborts polling immediately.
func Poll(ctx context.Context, budget Budget, condition func() (done bool, err error)) (int, error) {
	if budget.MaxAttempts < 1 {
		return 0, fmt.Errorf("invalid retry budget: max attempts %d", budget.MaxAttempts)
	}

	attempts := 0
	for attempts < budget.MaxAttempts {
		if err := ctx.Err(); err != nil {
			return attempts, fmt.Errorf("polling cancelled after %d attempts: %w", attempts, err)
		}

		attempts++
		done, err := condition()
		if err != nil {
			return attempts, err
		}
		if done {
			return attempts, nil
		}

		if attempts < budget.MaxAttempts {
			select {
			case <-ctx.Done():
				return attempts, fmt.Errorf("polling cancelled after %d attempts: %w", attempts, ctx.Err())
			case <-time.After(budget.Interval):
			}
		}
	}

	return attempts, ErrBudgetExhausted
}

// FatalError wraps an error to mark it as terminal (non-retryable).
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Fatal marks an error as terminal. Callers sharing a polling condition
// use this to stop a loop that would otherwise keep re-observing.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal checks if an error was marked terminal with Fatal.
func IsFatal(err error) bool {
	var fatalErr *FatalError
	return errors.As(err, &fatalErr)
}
