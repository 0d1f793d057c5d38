package poll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrTimedOut = errors.New("polling timed out")

// Until calls condition every interval until it reports true, returns an error, or the timeout
// elapses. A cancelled parent context is returned as is.
func Until(ctx context.Context, condition func() (bool, error), timeout, interval time.Duration) error {
	deadline, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := condition()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-deadline.Done():
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("polling cancelled: %w", err)
			}
			return fmt.Errorf("%w after %s", ErrTimedOut, timeout)
		case <-ticker.C:
		}
	}
}
