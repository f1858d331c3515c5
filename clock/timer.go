// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Timer is a one-shot event source, the analog of time.Timer.  Waiters select on C()
// alongside their other wake sources.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type systemTimer struct {
	*time.Timer
}

func (st systemTimer) C() <-chan time.Time {
	return st.Timer.C
}

// WrapTimer adapts a time.Timer to a Timer
func WrapTimer(t *time.Timer) Timer {
	return systemTimer{t}
}
