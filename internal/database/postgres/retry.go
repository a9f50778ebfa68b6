package postgres

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// RetryPolicy defines exponential backoff parameters.
type RetryPolicy struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

var defaultConnectPolicy = RetryPolicy{
	MaxRetries:    5,
	InitialDelay:  500 * time.Millisecond,
	MaxDelay:      5 * time.Second,
	BackoffFactor: 2,
}

// NextDelay returns delay for a given attempt (1-based) with clamping.
func (r RetryPolicy) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if r.InitialDelay <= 0 {
		r.InitialDelay = time.Second
	}
	if r.BackoffFactor <= 0 {
		r.BackoffFactor = 2
	}

	delay := float64(r.InitialDelay) * math.Pow(r.BackoffFactor, float64(attempt-1))
	d := time.Duration(delay)
	if r.MaxDelay > 0 && d > r.MaxDelay {
		d = r.MaxDelay
	}
	if d <= 0 {
		d = time.Second
	}
	return d
}

// pingWithRetry waits for the server to accept connections, which matters
// when the database container starts alongside the API.
func pingWithRetry(ctx context.Context, db *sql.DB, policy RetryPolicy, logger *zerolog.Logger) error {
	var err error
	for attempt := 0; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil || attempt >= policy.MaxRetries {
			return err
		}

		delay := policy.NextDelay(attempt + 1)
		logger.Warn().Err(err).Int("attempt", attempt+1).Dur("retry_in", delay).Msg("Database not ready")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
