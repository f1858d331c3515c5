// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/sema/clock"
	"go.uber.org/zap"
)

const (
	// Infinite is the timeout sentinel for an unbounded TimedWait.  Any negative timeout is
	// treated the same way.
	Infinite time.Duration = -1

	// InfiniteMillis is the timeout sentinel for an unbounded TimedWaitMillis.
	InfiniteMillis uint32 = math.MaxUint32
)

var (
	// ErrTimeout corresponds to the TimedOut result.
	ErrTimeout = errors.New("the semaphore could not be acquired within the timeout")

	// ErrInterrupted corresponds to the Interrupted result.
	ErrInterrupted = errors.New("the semaphore wait was interrupted")

	// ErrFailed corresponds to the Failed result.
	ErrFailed = errors.New("the semaphore wait failed")

	// ErrClosed is returned when a semaphore has been closed
	ErrClosed = errors.New("the semaphore has been closed")

	// ErrFull is returned by Post when the semaphore already holds its maximum count.
	ErrFull = errors.New("the semaphore is at its maximum count")
)

// Interface represents a counting semaphore with alertable waits.  When a wait returns Acquired,
// the caller holds a token and is expected to eventually Post it back.
type Interface interface {
	// Wait blocks until a token is acquired.  If alertable is true, cancellation of ctx interrupts
	// the wait with Interrupted.  Otherwise ctx is ignored.
	Wait(ctx context.Context, alertable bool) Result

	// TimedWait is Wait bounded by a timeout.  A zero timeout polls without blocking, and a negative
	// timeout (see Infinite) is exactly Wait.
	TimedWait(ctx context.Context, timeout time.Duration, alertable bool) Result

	// TimedWaitMillis is TimedWait with a millisecond timeout.  InfiniteMillis is exactly Wait.
	TimedWaitMillis(ctx context.Context, timeoutMs uint32, alertable bool) Result

	// Post returns a token to the semaphore, waking at most one waiter.  ErrFull is returned if
	// the semaphore is already at its maximum count, ErrClosed if it has been closed.
	Post() error

	// Close releases the semaphore.  Blocked waiters return Failed.  Subsequent calls return ErrClosed.
	Close() error
}

// Semaphore is the Interface implementation returned by New.  It must not be copied.
type Semaphore struct {
	p      primitive
	driver Driver
	clock  clock.Interface
	logger *zap.Logger
}

var _ Interface = (*Semaphore)(nil)

// New constructs a Semaphore holding initial tokens, to which at most max tokens may be posted.
// max must be positive and initial must be within [0, max].
func New(initial, max int, o ...Option) (*Semaphore, error) {
	s := settings{
		driver:       DefaultDriver,
		clock:        clock.System(),
		pollInterval: DefaultPollInterval,
	}

	for _, f := range o {
		f(&s)
	}

	if s.logger == nil {
		s.logger = sallust.Default()
	}

	switch {
	case max < 1:
		return nil, fmt.Errorf("the maximum count must be positive: %d", max)
	case initial < 0 || initial > max:
		return nil, fmt.Errorf("the initial count %d must be between 0 and %d", initial, max)
	}

	p, err := newPrimitive(s.driver, initial, max, s.clock, s.pollInterval)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("semaphore created",
		zap.String("driver", string(s.driver)),
		zap.Int("initial", initial),
		zap.Int("max", max),
	)

	return &Semaphore{
		p:      p,
		driver: s.driver,
		clock:  s.clock,
		logger: s.logger,
	}, nil
}

// Driver returns the name of the primitive backing this semaphore
func (s *Semaphore) Driver() Driver {
	return s.driver
}

// alertContext is the alert source handed to the primitive.  Non-alertable waits get a context
// that is never done.
func alertContext(ctx context.Context, alertable bool) context.Context {
	if !alertable || ctx == nil {
		return context.Background()
	}

	return ctx
}

func (s *Semaphore) Wait(ctx context.Context, alertable bool) Result {
	ctx = alertContext(ctx, alertable)
	for {
		st := s.p.wait(ctx)
		switch st {
		case statusAcquired:
			return Acquired

		case statusInterrupted:
			if alertable {
				return Interrupted
			}

		case statusTransient:

		default:
			return Failed
		}

		s.logger.Debug("retrying semaphore wait", zap.Stringer("status", st))
	}
}

func (s *Semaphore) TimedWait(ctx context.Context, timeout time.Duration, alertable bool) Result {
	switch {
	case timeout == 0:
		return s.poll()
	case timeout < 0:
		return s.Wait(ctx, alertable)
	}

	var (
		deadline = NewDeadline(s.clock.Now(), timeout)
		waitCtx  = alertContext(ctx, alertable)
	)

	for {
		// deadline is passed by value, so every retry starts from the original deadline
		st := s.p.waitUntil(waitCtx, deadline)
		switch st {
		case statusAcquired:
			return Acquired

		case statusTimedOut:
			return TimedOut

		case statusInterrupted:
			if alertable {
				return Interrupted
			}

		case statusTransient:

		default:
			return Failed
		}

		s.logger.Debug("retrying timed semaphore wait",
			zap.Stringer("status", st),
			zap.Time("deadline", deadline.Time()),
		)
	}
}

func (s *Semaphore) TimedWaitMillis(ctx context.Context, timeoutMs uint32, alertable bool) Result {
	if timeoutMs == InfiniteMillis {
		return s.Wait(ctx, alertable)
	}

	return s.TimedWait(ctx, time.Duration(timeoutMs)*time.Millisecond, alertable)
}

// poll is the zero-timeout TimedWait
func (s *Semaphore) poll() Result {
	switch s.p.tryWait() {
	case statusAcquired:
		return Acquired
	case statusTimedOut:
		return TimedOut
	default:
		return Failed
	}
}

func (s *Semaphore) Post() error {
	for {
		err := s.p.post()
		switch {
		case err == nil:
			return nil

		case errors.Is(err, errTransient):
			continue

		default:
			s.logger.Warn("semaphore post failed", zap.Error(err))
			return err
		}
	}
}

func (s *Semaphore) Close() error {
	err := s.p.close()
	if err == nil {
		s.logger.Debug("semaphore closed", zap.String("driver", string(s.driver)))
	}

	return err
}
