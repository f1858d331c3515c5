// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testCounters struct {
	acquired, timeouts, interrupts, failures, posts, postFailures *generic.Counter
}

func newTestCounters() *testCounters {
	return &testCounters{
		acquired:     generic.NewCounter("acquired"),
		timeouts:     generic.NewCounter("timeouts"),
		interrupts:   generic.NewCounter("interrupts"),
		failures:     generic.NewCounter("failures"),
		posts:        generic.NewCounter("posts"),
		postFailures: generic.NewCounter("postFailures"),
	}
}

func (tc *testCounters) instrument(t *testing.T, initial, max int) Interface {
	s, err := New(initial, max, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	return Instrument(s,
		WithAcquired(tc.acquired),
		WithTimeouts(tc.timeouts),
		WithInterrupts(tc.interrupts),
		WithFailures(tc.failures),
		WithPosts(tc.posts),
		WithPostFailures(tc.postFailures),
	)
}

func TestWithAcquired(t *testing.T) {
	var (
		assert = assert.New(t)
		is     = new(instrumentedSemaphore)
		custom = generic.NewCounter("test")
	)

	WithAcquired(nil)(is)
	assert.NotNil(is.acquired)

	WithAcquired(custom)(is)
	assert.Equal(custom, is.acquired)
}

func TestWithFailures(t *testing.T) {
	var (
		assert = assert.New(t)
		is     = new(instrumentedSemaphore)
		custom = generic.NewCounter("test")
	)

	WithFailures(nil)(is)
	assert.NotNil(is.failures)

	WithFailures(custom)(is)
	assert.Equal(custom, is.failures)
}

func TestInstrument(t *testing.T) {
	t.Run("NilSemaphore", func(t *testing.T) {
		assert.Panics(t, func() {
			Instrument(nil)
		})
	})

	t.Run("NoOptions", func(t *testing.T) {
		s, err := New(1, 1, WithLogger(zap.NewNop()))
		require.NoError(t, err)

		is := Instrument(s)
		assert.Equal(t, Acquired, is.Wait(context.Background(), false))
		assert.NoError(t, is.Post())
	})
}

func testInstrumentedSemaphoreWait(t *testing.T) {
	var (
		assert = assert.New(t)
		tc     = newTestCounters()
		s      = tc.instrument(t, 1, 1)
	)

	assert.Equal(Acquired, s.Wait(context.Background(), false))
	assert.Equal(1.0, tc.acquired.Value())
	assert.Zero(tc.failures.Value())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(Interrupted, s.Wait(ctx, true))
	assert.Equal(1.0, tc.interrupts.Value())
	assert.Equal(1.0, tc.acquired.Value())
}

func testInstrumentedSemaphoreTimedWait(t *testing.T) {
	var (
		assert = assert.New(t)
		tc     = newTestCounters()
		s      = tc.instrument(t, 1, 1)
	)

	assert.Equal(Acquired, s.TimedWait(context.Background(), 0, false))
	assert.Equal(TimedOut, s.TimedWait(context.Background(), 0, false))
	assert.Equal(TimedOut, s.TimedWaitMillis(context.Background(), 10, false))
	assert.Equal(TimedOut, s.TimedWait(context.Background(), 10*time.Millisecond, false))

	assert.Equal(1.0, tc.acquired.Value())
	assert.Equal(3.0, tc.timeouts.Value())
	assert.Zero(tc.interrupts.Value())
}

func testInstrumentedSemaphorePost(t *testing.T) {
	var (
		assert = assert.New(t)
		tc     = newTestCounters()
		s      = tc.instrument(t, 0, 1)
	)

	assert.NoError(s.Post())
	assert.Equal(ErrFull, s.Post())
	assert.Equal(1.0, tc.posts.Value())
	assert.Equal(1.0, tc.postFailures.Value())
}

func testInstrumentedSemaphoreClose(t *testing.T) {
	var (
		assert = assert.New(t)
		tc     = newTestCounters()
		s      = tc.instrument(t, 0, 1)
	)

	assert.NoError(s.Close())
	assert.Equal(Failed, s.Wait(context.Background(), false))
	assert.Equal(Failed, s.TimedWait(context.Background(), time.Second, false))
	assert.Equal(ErrClosed, s.Post())

	assert.Equal(2.0, tc.failures.Value())
	assert.Equal(1.0, tc.postFailures.Value())
}

func TestInstrumentedSemaphore(t *testing.T) {
	t.Run("Wait", testInstrumentedSemaphoreWait)
	t.Run("TimedWait", testInstrumentedSemaphoreTimedWait)
	t.Run("Post", testInstrumentedSemaphorePost)
	t.Run("Close", testInstrumentedSemaphoreClose)
}
