// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package clock abstracts the time source used to compute and enforce wait deadlines.
Tests substitute the mocks in clocktest to drive timer expiry deterministically.
*/
package clock

import "time"

// Interface is the subset of the time package a deadline wait needs.
type Interface interface {
	// Now returns the current wall time.  Deadlines are absolute wall times.
	Now() time.Time

	// NewTimer creates a Timer that fires once after d.
	NewTimer(d time.Duration) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}
