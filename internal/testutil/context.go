package testutil

import (
	"context"
	"time"
)

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// SetupContext returns a context for service tests.
func SetupContext() context.Context {
	return context.Background()
}
