// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"sync/atomic"

	"github.com/xmidt-org/sema/clock"
)

const (
	stateOpen   int32 = 0
	stateClosed int32 = 1
)

// closeable is the channel driver.  Each buffered element of tokens is one available token,
// so the channel's capacity is the maximum count.  Closing never closes tokens, since a post
// racing with Close would panic; the separate closed channel is what wakes blocked waiters.
type closeable struct {
	tokens chan struct{}
	clock  clock.Interface

	state  int32
	closed chan struct{}
}

func newCloseable(initial, max int, c clock.Interface) *closeable {
	cs := &closeable{
		tokens: make(chan struct{}, max),
		clock:  c,
		closed: make(chan struct{}),
	}

	for i := 0; i < initial; i++ {
		cs.tokens <- struct{}{}
	}

	return cs
}

func (cs *closeable) checkClosed() bool {
	return atomic.LoadInt32(&cs.state) == stateClosed
}

// taken is invoked after a token has been received
func (cs *closeable) taken() status {
	if cs.checkClosed() {
		return statusFailed
	}

	return statusAcquired
}

func (cs *closeable) tryWait() status {
	if cs.checkClosed() {
		return statusFailed
	}

	select {
	case <-cs.tokens:
		return cs.taken()
	default:
		return statusTimedOut
	}
}

func (cs *closeable) wait(ctx context.Context) status {
	if st := cs.tryWait(); st != statusTimedOut {
		return st
	}

	select {
	case <-cs.tokens:
		return cs.taken()

	case <-ctx.Done():
		return statusInterrupted

	case <-cs.closed:
		return statusFailed
	}
}

func (cs *closeable) waitUntil(ctx context.Context, d Deadline) status {
	if st := cs.tryWait(); st != statusTimedOut {
		return st
	}

	remaining := d.Sub(cs.clock.Now())
	if remaining <= 0 {
		return statusTimedOut
	}

	timer := cs.clock.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-cs.tokens:
		return cs.taken()

	case <-timer.C():
		if d.Sub(cs.clock.Now()) > 0 {
			// the timer beat the clock to the deadline
			return statusTransient
		}

		return statusTimedOut

	case <-ctx.Done():
		return statusInterrupted

	case <-cs.closed:
		return statusFailed
	}
}

func (cs *closeable) post() error {
	if cs.checkClosed() {
		return ErrClosed
	}

	select {
	case cs.tokens <- struct{}{}:
		return nil
	default:
		return ErrFull
	}
}

func (cs *closeable) close() error {
	if atomic.CompareAndSwapInt32(&cs.state, stateOpen, stateClosed) {
		close(cs.closed)
		return nil
	}

	return ErrClosed
}
