package client

import (
	"context"
	"errors"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// ErrNotAvailable is returned by WaitUntilAvailable when the service never
// reported healthy within the allowed time.
var ErrNotAvailable = errors.New("generation service not available")

// WaitUntilAvailable polls CheckAvailability with exponential backoff until
// it reports true, maxElapsed passes, or ctx is done.
func (c *Client) WaitUntilAvailable(ctx context.Context, maxElapsed time.Duration) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.Multiplier = 2
	exp.MaxInterval = 5 * time.Second
	exp.MaxElapsedTime = maxElapsed

	attempts := 0
	op := func() error {
		attempts++
		if c.CheckAvailability(ctx) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		return ErrNotAvailable
	}
	err := backoff.Retry(op, backoff.WithContext(exp, ctx))
	if err != nil {
		c.log.Warn().Err(err).Int("attempts", attempts).Msg("generation service did not become available")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return ErrNotAvailable
	}
	return nil
}
