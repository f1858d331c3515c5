// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"time"
)

// polling is the driver for targets without a blocking deadline wait.  It reuses the channel
// driver for everything except waitUntil, which is emulated with non-blocking polls.
type polling struct {
	*closeable
	interval time.Duration
}

// waitUntil polls for a token, napping up to one interval between polls.  The final nap is
// the remainder up to the deadline, followed by one last poll.  A token posted during a nap
// is not noticed until the nap ends.
func (p *polling) waitUntil(ctx context.Context, d Deadline) status {
	for {
		if st := p.tryWait(); st != statusTimedOut {
			return st
		}

		remaining := d.Sub(p.clock.Now())
		if remaining <= 0 {
			return statusTimedOut
		}

		nap := p.interval
		if remaining < nap {
			nap = remaining
		}

		if st := p.nap(ctx, nap); st != statusTimedOut {
			return st
		}
	}
}

// nap sleeps for d.  statusTimedOut means the full nap elapsed.
func (p *polling) nap(ctx context.Context, d time.Duration) status {
	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C():
		return statusTimedOut

	case <-ctx.Done():
		return statusInterrupted

	case <-p.closed:
		return statusFailed
	}
}
