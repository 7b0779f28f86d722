package xtest

import (
	"testing"

	"go.uber.org/goleak"
)

func findGoroutinesLeak(opts ...goleak.Option) error {
	return goleak.Find(opts...)
}

// CheckGoroutinesLeak fails tb if goroutines started by the test are still running
func CheckGoroutinesLeak(tb testing.TB, opts ...goleak.Option) {
	tb.Helper()

	if err := findGoroutinesLeak(opts...); err != nil {
		tb.Errorf("goroutines leak detected: %v", err)
	}
}
