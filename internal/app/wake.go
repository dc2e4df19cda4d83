package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/five82/vapor/internal/vapor"
)

const (
	wakeInitialInterval = 500 * time.Millisecond
	wakeMaxInterval     = 5 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

// waitForAPI pings the backend until it answers or timeout elapses. Hosted
// instances hibernate and can take most of a minute to come back. Any HTTP
// response, even an error status, means the server is up. A zero timeout skips
// the wait.
func waitForAPI(ctx context.Context, api pinger, timeout time.Duration, out io.Writer, logger *zap.Logger) error {
	if timeout <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(wakeInitialInterval),
		backoff.WithMaxInterval(wakeMaxInterval),
		backoff.WithMaxElapsedTime(timeout),
	)

	announced := false
	op := func() error {
		err := api.Ping(ctx)
		if err == nil {
			return nil
		}
		var apiErr *vapor.APIError
		if errors.As(err, &apiErr) {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		if !announced && out != nil {
			color.New(color.FgYellow).Fprintf(out, "Waiting for %s to wake up...\n", api.BaseURL())
			announced = true
		}
		logger.Debug("api not ready", zap.Error(err), zap.Duration("retry_in", next))
	}

	start := time.Now()
	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("no answer after %s", timeout)
		}
		return err
	}
	if announced {
		logger.Info("api awake", zap.Duration("waited", time.Since(start)))
	}
	return nil
}
