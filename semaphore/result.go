// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import "fmt"

// Result is the outcome of a wait operation.
type Result int

const (
	// Acquired means a token was taken.  The caller owns it until a matching Post.
	Acquired Result = iota

	// TimedOut means the deadline passed, or a zero-timeout poll found no token.
	TimedOut

	// Interrupted means an alertable wait was cancelled through its context.
	Interrupted

	// Failed means the semaphore could not be waited on, typically because it was closed.
	Failed
)

var resultNames = [...]string{
	Acquired:    "Acquired",
	TimedOut:    "TimedOut",
	Interrupted: "Interrupted",
	Failed:      "Failed",
}

func (r Result) String() string {
	if r >= 0 && int(r) < len(resultNames) {
		return resultNames[r]
	}

	return fmt.Sprintf("Result(%d)", int(r))
}

// Err maps this Result onto the package's sentinel errors.  Acquired maps to nil.
func (r Result) Err() error {
	switch r {
	case Acquired:
		return nil
	case TimedOut:
		return ErrTimeout
	case Interrupted:
		return ErrInterrupted
	default:
		return ErrFailed
	}
}
