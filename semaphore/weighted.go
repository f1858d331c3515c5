// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"sync/atomic"

	"github.com/xmidt-org/sema/clock"
	xsemaphore "golang.org/x/sync/semaphore"
)

// weighted is the driver built on x/sync's Weighted semaphore.  Weighted counts held units
// rather than available ones, so tokens that have not been posted are held by the driver
// itself: held = max - available.
//
// Weighted panics when more is released than held.  available is kept as an upper bound on
// what Weighted can grant: post raises it before releasing and waiters lower it after
// acquiring, so a post that passes the bound check can never over-release.
type weighted struct {
	sem   *xsemaphore.Weighted
	max   int64
	clock clock.Interface

	available int64
	state     int32

	done   context.Context
	cancel context.CancelFunc
}

func newWeighted(initial, max int, c clock.Interface) *weighted {
	w := &weighted{
		sem:       xsemaphore.NewWeighted(int64(max)),
		max:       int64(max),
		clock:     c,
		available: int64(initial),
	}

	w.done, w.cancel = context.WithCancel(context.Background())
	// a fresh Weighted has all max units free, so holding the un-posted ones always succeeds
	if held := int64(max - initial); held > 0 {
		w.sem.TryAcquire(held)
	}

	return w
}

func (w *weighted) checkClosed() bool {
	return atomic.LoadInt32(&w.state) == stateClosed
}

func (w *weighted) taken() status {
	atomic.AddInt64(&w.available, -1)
	if w.checkClosed() {
		return statusFailed
	}

	return statusAcquired
}

func (w *weighted) tryWait() status {
	if w.checkClosed() {
		return statusFailed
	}

	if w.sem.TryAcquire(1) {
		return w.taken()
	}

	return statusTimedOut
}

func (w *weighted) wait(ctx context.Context) status {
	if st := w.tryWait(); st != statusTimedOut {
		return st
	}

	return w.acquire(ctx, nil)
}

func (w *weighted) waitUntil(ctx context.Context, d Deadline) status {
	if st := w.tryWait(); st != statusTimedOut {
		return st
	}

	return w.acquire(ctx, &d)
}

// acquire blocks in Weighted.Acquire until a token is granted, ctx is done, the deadline
// (if any) passes, or the driver is closed.  The deadline is enforced with a timer from the
// driver's clock, so that it is measured the same way it was computed.
func (w *weighted) acquire(ctx context.Context, d *Deadline) status {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if d != nil {
		remaining := d.Sub(w.clock.Now())
		if remaining <= 0 {
			return statusTimedOut
		}

		timer := w.clock.NewTimer(remaining)
		defer timer.Stop()
		go func() {
			select {
			case <-timer.C():
				cancel()
			case <-waitCtx.Done():
			}
		}()
	}

	stop := context.AfterFunc(w.done, cancel)
	defer stop()

	if err := w.sem.Acquire(waitCtx, 1); err == nil {
		return w.taken()
	}

	switch {
	case w.checkClosed():
		return statusFailed

	case ctx.Err() != nil:
		return statusInterrupted

	case d != nil && d.Sub(w.clock.Now()) <= 0:
		return statusTimedOut

	default:
		// the timer beat the clock to the deadline
		return statusTransient
	}
}

func (w *weighted) post() error {
	if w.checkClosed() {
		return ErrClosed
	}

	n := atomic.LoadInt64(&w.available)
	if n >= w.max {
		return ErrFull
	}

	if !atomic.CompareAndSwapInt64(&w.available, n, n+1) {
		return errTransient
	}

	w.sem.Release(1)
	return nil
}

func (w *weighted) close() error {
	if atomic.CompareAndSwapInt32(&w.state, stateOpen, stateClosed) {
		w.cancel()
		return nil
	}

	return ErrClosed
}
