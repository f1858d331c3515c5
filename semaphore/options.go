// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"time"

	"github.com/xmidt-org/sema/clock"
	"go.uber.org/zap"
)

type settings struct {
	driver       Driver
	clock        clock.Interface
	logger       *zap.Logger
	pollInterval time.Duration
}

// Option configures a Semaphore created by New
type Option func(*settings)

// WithDriver selects the blocking primitive.  An empty driver leaves DefaultDriver in place.
func WithDriver(d Driver) Option {
	return func(s *settings) {
		if len(d) > 0 {
			s.driver = d
		}
	}
}

// WithClock sets the time source used for deadlines.  A nil clock is ignored.
func WithClock(c clock.Interface) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger.  If nil, sallust.Default() is used.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithPollInterval sets the longest nap between polls for DriverPolling.  Nonpositive values
// leave DefaultPollInterval in place.  Other drivers ignore this option.
func WithPollInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}
