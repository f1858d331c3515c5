// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import "time"

const nanosPerSecond = int64(time.Second)

// Deadline is an absolute wall time split into whole seconds and a nanosecond fraction.
// A normalized Deadline always has 0 <= Nsec < one second.
//
// A Deadline carries no monotonic clock reading, so Sub compares wall times and a step in
// the wall clock moves every pending deadline by the same amount.
type Deadline struct {
	Sec  int64
	Nsec int64
}

// NewDeadline computes now+timeout.  The seconds and sub-second parts are added separately
// and any sub-second overflow is carried into Sec.
func NewDeadline(now time.Time, timeout time.Duration) Deadline {
	d := Deadline{
		Sec:  now.Unix() + int64(timeout/time.Second),
		Nsec: int64(now.Nanosecond()) + int64(timeout%time.Second),
	}

	for d.Nsec >= nanosPerSecond {
		d.Nsec -= nanosPerSecond
		d.Sec++
	}

	return d
}

// Valid reports whether the sub-second component is within range
func (d Deadline) Valid() bool {
	return d.Nsec >= 0 && d.Nsec < nanosPerSecond
}

// Time converts this Deadline to a time.Time
func (d Deadline) Time() time.Time {
	return time.Unix(d.Sec, d.Nsec)
}

// Sub returns how long remains from now until this Deadline.  The result is nonpositive
// once the deadline has passed.
func (d Deadline) Sub(now time.Time) time.Duration {
	return d.Time().Sub(now)
}
