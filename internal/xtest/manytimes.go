package xtest

import (
	"sync"
	"testing"
	"time"
)

type TestFunc func(t testing.TB)

type manyTimesOptions struct {
	stopAfter time.Duration
	minRuns   int
}

type ManyTimesOption func(o *manyTimesOptions)

// StopAfter bounds the wall time of TestManyTimes, one second by default.
func StopAfter(d time.Duration) ManyTimesOption {
	return func(o *manyTimesOptions) {
		o.stopAfter = d
	}
}

// MinRuns forces at least n runs regardless of elapsed time.
func MinRuns(n int) ManyTimesOption {
	return func(o *manyTimesOptions) {
		o.minRuns = n
	}
}

// TestManyTimes repeats test until the time budget is exhausted. Each run gets own cleanup stack.
func TestManyTimes(t testing.TB, test TestFunc, opts ...ManyTimesOption) {
	t.Helper()

	o := manyTimesOptions{
		stopAfter: time.Second,
		minRuns:   1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	start := time.Now()
	for runs := 1; ; runs++ {
		// run test, then check timeout for guarantee run test least once
		runTest(t, test)

		if t.Failed() {
			return
		}

		if runs >= o.minRuns && time.Since(start) > o.stopAfter {
			return
		}
	}
}

func TestManyTimesWithName(t *testing.T, name string, test TestFunc, opts ...ManyTimesOption) {
	t.Helper()

	t.Run(name, func(t *testing.T) {
		t.Helper()
		TestManyTimes(t, test, opts...)
	})
}

func runTest(t testing.TB, test TestFunc) {
	t.Helper()

	tw := &testWrapper{
		TB: t,
	}

	defer tw.doCleanup()

	test(tw)
}

type testWrapper struct {
	testing.TB

	m       sync.Mutex
	cleanup []func()
}

func (tw *testWrapper) Cleanup(f func()) {
	tw.Helper()

	tw.m.Lock()
	defer tw.m.Unlock()

	tw.cleanup = append(tw.cleanup, f)
}

func (tw *testWrapper) doCleanup() {
	tw.Helper()

	for len(tw.cleanup) > 0 {
		last := tw.cleanup[len(tw.cleanup)-1]
		tw.cleanup = tw.cleanup[:len(tw.cleanup)-1]

		last()
	}
}
