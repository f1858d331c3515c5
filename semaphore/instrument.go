// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/sema/xmetrics"
)

// InstrumentOption represents a configurable option for instrumenting a semaphore
type InstrumentOption func(*instrumentedSemaphore)

func adderOrDiscard(a xmetrics.Adder) xmetrics.Adder {
	if a != nil {
		return a
	}

	return discard.NewCounter()
}

// WithAcquired establishes a metric counting waits that returned Acquired.
// If a nil counter is supplied, these counts are discarded.
func WithAcquired(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		i.acquired = adderOrDiscard(a)
	}
}

// WithTimeouts establishes a metric counting waits that returned TimedOut, including
// zero-timeout polls that found no token.
func WithTimeouts(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		i.timeouts = adderOrDiscard(a)
	}
}

// WithInterrupts establishes a metric counting alertable waits that returned Interrupted.
func WithInterrupts(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		i.interrupts = adderOrDiscard(a)
	}
}

// WithFailures establishes a metric counting waits that returned Failed.
func WithFailures(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		i.failures = adderOrDiscard(a)
	}
}

// WithPosts establishes a metric counting successful posts.
func WithPosts(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		i.posts = adderOrDiscard(a)
	}
}

// WithPostFailures establishes a metric counting posts that returned an error.
func WithPostFailures(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		i.postFailures = adderOrDiscard(a)
	}
}

// Instrument decorates an existing semaphore with a set of options.  Unset metrics are discarded.
func Instrument(s Interface, o ...InstrumentOption) Interface {
	if s == nil {
		panic("a semaphore is required")
	}

	is := &instrumentedSemaphore{
		Interface:    s,
		acquired:     discard.NewCounter(),
		timeouts:     discard.NewCounter(),
		interrupts:   discard.NewCounter(),
		failures:     discard.NewCounter(),
		posts:        discard.NewCounter(),
		postFailures: discard.NewCounter(),
	}

	for _, f := range o {
		f(is)
	}

	return is
}

type instrumentedSemaphore struct {
	Interface
	acquired     xmetrics.Adder
	timeouts     xmetrics.Adder
	interrupts   xmetrics.Adder
	failures     xmetrics.Adder
	posts        xmetrics.Adder
	postFailures xmetrics.Adder
}

func (is *instrumentedSemaphore) record(r Result) Result {
	switch r {
	case Acquired:
		is.acquired.Add(1.0)
	case TimedOut:
		is.timeouts.Add(1.0)
	case Interrupted:
		is.interrupts.Add(1.0)
	default:
		is.failures.Add(1.0)
	}

	return r
}

func (is *instrumentedSemaphore) Wait(ctx context.Context, alertable bool) Result {
	return is.record(is.Interface.Wait(ctx, alertable))
}

func (is *instrumentedSemaphore) TimedWait(ctx context.Context, timeout time.Duration, alertable bool) Result {
	return is.record(is.Interface.TimedWait(ctx, timeout, alertable))
}

func (is *instrumentedSemaphore) TimedWaitMillis(ctx context.Context, timeoutMs uint32, alertable bool) Result {
	return is.record(is.Interface.TimedWaitMillis(ctx, timeoutMs, alertable))
}

func (is *instrumentedSemaphore) Post() (err error) {
	err = is.Interface.Post()
	if err != nil {
		is.postFailures.Add(1.0)
	} else {
		is.posts.Add(1.0)
	}

	return
}
