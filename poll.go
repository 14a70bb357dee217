package docmerge

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval is the delay between condition checks in Poll.
const DefaultPollInterval = 100 * time.Millisecond

// ConditionFunc reports whether a polled condition holds.
type ConditionFunc func(ctx context.Context) (bool, error)

// Poll checks cond until it returns true, returns an error, or ctx is done.
// The condition is checked at least once, even if ctx is already expired.
//
// Returns nil when the condition held, ETIMEOUT when the context deadline
// elapsed first, the context error when ctx was canceled, and the
// condition's error unchanged when it failed.
func Poll(ctx context.Context, interval time.Duration, cond ConditionFunc) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := cond(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return Errorf(ETIMEOUT, "condition not met before deadline")
			}
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Errorf(ETIMEOUT, "condition not met before deadline")
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
