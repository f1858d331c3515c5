// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xmidt-org/sema/clock"
)

// Driver names the blocking primitive a Semaphore is built on.
type Driver string

const (
	// DriverChannel uses a buffered channel of tokens.  Deadlines are enforced with a timer.
	DriverChannel Driver = "channel"

	// DriverWeighted uses golang.org/x/sync/semaphore.  Deadlines are enforced with a clock timer
	// that cancels the acquire.
	DriverWeighted Driver = "weighted"

	// DriverPolling uses a channel of tokens but has no blocking deadline wait.  Timed waits poll
	// at most once per poll interval, which makes their deadlines approximate.
	DriverPolling Driver = "polling"
)

// DefaultPollInterval is the longest nap between polls for DriverPolling.
const DefaultPollInterval = time.Second

// errTransient is returned by a primitive's post when the operation should simply be retried
var errTransient = errors.New("transient post failure")

type status int

const (
	statusAcquired status = iota
	statusTimedOut
	statusInterrupted
	statusTransient
	statusFailed
)

var statusNames = [...]string{
	statusAcquired:    "acquired",
	statusTimedOut:    "timedOut",
	statusInterrupted: "interrupted",
	statusTransient:   "transient",
	statusFailed:      "failed",
}

func (s status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// primitive is the capability set each driver supplies.  ctx is the alert source: a primitive
// reports statusInterrupted when ctx is done while it is blocked.  None of the methods retry.
type primitive interface {
	// tryWait takes a token without blocking.  statusTimedOut means no token was available.
	tryWait() status

	// wait blocks until a token is taken, ctx is done, or the primitive is closed.
	wait(ctx context.Context) status

	// waitUntil is wait bounded by an absolute deadline.  It may return statusTransient when it
	// woke before the deadline without a token.
	waitUntil(ctx context.Context, d Deadline) status

	// post adds a token.  errTransient means the caller should retry.
	post() error

	// close releases the primitive.  Only the first call succeeds.
	close() error
}

func newPrimitive(d Driver, initial, max int, c clock.Interface, pollInterval time.Duration) (primitive, error) {
	switch d {
	case DriverChannel:
		return newCloseable(initial, max, c), nil

	case DriverWeighted:
		return newWeighted(initial, max, c), nil

	case DriverPolling:
		if pollInterval <= 0 {
			pollInterval = DefaultPollInterval
		}

		return &polling{
			closeable: newCloseable(initial, max, c),
			interval:  pollInterval,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported semaphore driver: %q", d)
	}
}
