// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package semaphore provides a counting semaphore with alertable waits.

A Semaphore is created with an initial and a maximum token count.  Wait and TimedWait take a token,
Post returns one.  Every wait reports one of a fixed set of outcomes, so callers can always tell a
timeout apart from an interruption:

	switch s.TimedWait(ctx, 250*time.Millisecond, true) {
	case semaphore.Acquired:
		defer s.Post()
		// ... do work ...
	case semaphore.TimedOut:
		// no token within the timeout
	case semaphore.Interrupted:
		// ctx was cancelled while waiting
	case semaphore.Failed:
		// the semaphore has been closed
	}

An alertable wait may be interrupted by cancellation of its context.  A non-alertable wait ignores
its context entirely and retries any transient wakeup, so it only ever reports Acquired, TimedOut, or
Failed.

The blocking primitive underneath is chosen by Driver.  The channel and weighted drivers support
absolute deadlines natively.  The polling driver emulates deadlines with non-blocking polls, so its
timeouts are approximate.
*/
package semaphore
