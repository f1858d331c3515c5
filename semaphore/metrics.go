// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/sema/xmetrics"
)

// Names for our metrics
const (
	AcquiredCounter    = "semaphore_acquired_count"
	TimeoutCounter     = "semaphore_timeout_count"
	InterruptedCounter = "semaphore_interrupted_count"
	FailureCounter     = "semaphore_failure_count"
	PostCounter        = "semaphore_post_count"
	PostFailureCounter = "semaphore_post_failure_count"
)

// Metrics is the xmetrics.Module for this package.  To realize the metrics, use NewMeasures.
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{Name: AcquiredCounter, Type: xmetrics.CounterType, Help: "The number of waits that acquired a token"},
		{Name: TimeoutCounter, Type: xmetrics.CounterType, Help: "The number of waits that timed out"},
		{Name: InterruptedCounter, Type: xmetrics.CounterType, Help: "The number of alertable waits that were interrupted"},
		{Name: FailureCounter, Type: xmetrics.CounterType, Help: "The number of waits that failed"},
		{Name: PostCounter, Type: xmetrics.CounterType, Help: "The number of tokens posted"},
		{Name: PostFailureCounter, Type: xmetrics.CounterType, Help: "The number of posts that failed"},
	}
}

// Measures holds the realized metrics used to instrument a semaphore
type Measures struct {
	Acquired     metrics.Counter
	TimedOut     metrics.Counter
	Interrupted  metrics.Counter
	Failures     metrics.Counter
	Posts        metrics.Counter
	PostFailures metrics.Counter
}

// NewMeasures realizes this package's metrics from a go-kit provider
func NewMeasures(p provider.Provider) *Measures {
	return &Measures{
		Acquired:     p.NewCounter(AcquiredCounter),
		TimedOut:     p.NewCounter(TimeoutCounter),
		Interrupted:  p.NewCounter(InterruptedCounter),
		Failures:     p.NewCounter(FailureCounter),
		Posts:        p.NewCounter(PostCounter),
		PostFailures: p.NewCounter(PostFailureCounter),
	}
}

// InstrumentOptions returns the options that wire these measures into Instrument
func (m *Measures) InstrumentOptions() []InstrumentOption {
	return []InstrumentOption{
		WithAcquired(m.Acquired),
		WithTimeouts(m.TimedOut),
		WithInterrupts(m.Interrupted),
		WithFailures(m.Failures),
		WithPosts(m.Posts),
		WithPostFailures(m.PostFailures),
	}
}
