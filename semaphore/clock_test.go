// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/sema/clock"
	"github.com/xmidt-org/sema/clock/clocktest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testTimedWaitEarlyTimer(t *testing.T, d Driver) {
	var (
		assert = assert.New(t)
		start  = time.Unix(1000, 0)

		c     = new(clocktest.Mock)
		early = new(clocktest.MockTimer)
		late  = new(clocktest.MockTimer)

		core, logs = observer.New(zapcore.DebugLevel)
	)

	// the first timer fires while the clock still reads 400ms short of the deadline
	c.OnNow(start).Times(2)
	c.OnNewTimer(time.Second, early).Once()
	early.OnC(clocktest.Fired(start.Add(time.Second))).Once()
	early.OnStop(false).Once()

	c.OnNow(start.Add(600 * time.Millisecond)).Times(2)
	c.OnNewTimer(400*time.Millisecond, late).Once()
	late.OnC(clocktest.Fired(start.Add(time.Second))).Once()
	late.OnStop(false).Once()

	c.OnNow(start.Add(time.Second)).Once()

	s, err := New(0, 1, WithDriver(d), WithClock(c), WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.Equal(TimedOut, s.TimedWait(context.Background(), time.Second, false))
	assert.Equal(1, logs.FilterMessage("retrying timed semaphore wait").Len())

	c.AssertExpectations(t)
	early.AssertExpectations(t)
	late.AssertExpectations(t)
}

func TestTimedWaitEarlyTimer(t *testing.T) {
	t.Run("Channel", func(t *testing.T) { testTimedWaitEarlyTimer(t, DriverChannel) })
	t.Run("Weighted", func(t *testing.T) { testTimedWaitEarlyTimer(t, DriverWeighted) })
}

// skewedClock reads the system time offset by a fixed amount but times with real timers
type skewedClock struct {
	offset time.Duration
}

func (sc skewedClock) Now() time.Time {
	return time.Now().Add(sc.offset)
}

func (sc skewedClock) NewTimer(d time.Duration) clock.Timer {
	return clock.System().NewTimer(d)
}

func testTimedWaitSkewedClock(t *testing.T, d Driver, offset time.Duration) {
	var (
		assert     = assert.New(t)
		core, logs = observer.New(zapcore.DebugLevel)
	)

	s, err := New(0, 1,
		WithDriver(d),
		WithClock(skewedClock{offset: offset}),
		WithLogger(zap.New(core)),
		WithPollInterval(10*time.Millisecond),
	)

	require.NoError(t, err)

	result := make(chan Result, 1)
	start := time.Now()
	go func() {
		result <- s.TimedWait(context.Background(), 100*time.Millisecond, false)
	}()

	select {
	case r := <-result:
		assert.Equal(TimedOut, r)
		assert.GreaterOrEqual(time.Since(start), 100*time.Millisecond)
	case <-time.After(5 * time.Second):
		assert.Fail("the timed wait ignored the clock's deadline")
		assert.NoError(s.Close())
		<-result
	}

	assert.Less(logs.FilterMessage("retrying timed semaphore wait").Len(), 5)
}

func TestTimedWaitSkewedClock(t *testing.T) {
	for _, d := range allDrivers {
		t.Run(string(d), func(t *testing.T) {
			t.Run("Ahead", func(t *testing.T) { testTimedWaitSkewedClock(t, d, time.Hour) })
			t.Run("Behind", func(t *testing.T) { testTimedWaitSkewedClock(t, d, -time.Hour) })
		})
	}
}

func TestPollingCountdown(t *testing.T) {
	var (
		assert = assert.New(t)
		start  = time.Unix(1000, 250000000)

		c     = new(clocktest.Mock)
		timer = new(clocktest.MockTimer)
	)

	// deadline computation, then one poll per nap
	c.OnNow(start).Times(2)
	c.OnNow(start.Add(time.Second)).Once()
	c.OnNow(start.Add(2 * time.Second)).Once()
	c.OnNow(start.Add(2500 * time.Millisecond)).Once()

	c.OnNewTimer(time.Second, timer).Times(2)
	c.OnNewTimer(500*time.Millisecond, timer).Once()
	for i := 0; i < 3; i++ {
		timer.OnC(clocktest.Fired(start)).Once()
	}

	timer.OnStop(false).Times(3)

	s, err := New(0, 1, WithDriver(DriverPolling), WithClock(c), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	assert.Equal(TimedOut, s.TimedWait(context.Background(), 2500*time.Millisecond, false))

	c.AssertExpectations(t)
	timer.AssertExpectations(t)
}

func TestPollingAcquireAfterNap(t *testing.T) {
	var (
		assert = assert.New(t)
		start  = time.Unix(1000, 0)

		c     = new(clocktest.Mock)
		timer = new(clocktest.MockTimer)
		s     *Semaphore
	)

	c.OnNow(start).Times(2)
	c.OnNewTimer(time.Second, timer).Once()
	timer.OnC(clocktest.Fired(start)).Once()

	// a token is posted while the driver naps, so the next poll succeeds
	timer.OnStop(false).Once().Run(func(mock.Arguments) {
		assert.NoError(s.Post())
	})

	s, err := New(0, 1, WithDriver(DriverPolling), WithClock(c), WithLogger(zap.NewNop()))
	require.NoError(t, err)

	assert.Equal(Acquired, s.TimedWait(context.Background(), 5*time.Second, false))

	c.AssertExpectations(t)
	timer.AssertExpectations(t)
}
