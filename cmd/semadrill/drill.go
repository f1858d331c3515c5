// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/spf13/viper"
	"github.com/xmidt-org/sema/semaphore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type drillOptions struct {
	Producers int           `mapstructure:"producers"`
	Consumers int           `mapstructure:"consumers"`
	Tokens    int           `mapstructure:"tokens"`
	Timeout   interface{}   `mapstructure:"timeout"`
	Alertable bool          `mapstructure:"alertable"`
	Duration  time.Duration `mapstructure:"duration"`
	Backoff   time.Duration `mapstructure:"backoff"`
}

// drill posts Producers*Tokens tokens and consumes them with Consumers waiters.  It ends
// when every token has been consumed, its duration elapses, or its context is cancelled.
type drill struct {
	id      ksuid.KSUID
	options drillOptions
	timeout time.Duration
	sem     semaphore.Interface
	logger  *zap.Logger

	posted      int64
	consumed    int64
	timeouts    int64
	interrupted int64
}

func provideDrill(v *viper.Viper, sem semaphore.Interface, logger *zap.Logger) (*drill, error) {
	var o drillOptions
	if sub := v.Sub("drill"); sub != nil {
		if err := sub.Unmarshal(&o); err != nil {
			return nil, err
		}
	}

	return newDrill(o, sem, logger)
}

func newDrill(o drillOptions, sem semaphore.Interface, logger *zap.Logger) (*drill, error) {
	if o.Producers < 1 || o.Consumers < 1 || o.Tokens < 1 {
		return nil, fmt.Errorf("producers, consumers, and tokens must all be positive: %d, %d, %d", o.Producers, o.Consumers, o.Tokens)
	}

	timeout, err := semaphore.ParseTimeout(o.Timeout)
	if err != nil {
		return nil, err
	}

	if o.Duration <= 0 {
		return nil, errors.New("the drill duration must be positive")
	}

	if o.Backoff <= 0 {
		o.Backoff = time.Millisecond
	}

	id := ksuid.New()
	return &drill{
		id:      id,
		options: o,
		timeout: timeout,
		sem:     sem,
		logger:  logger.With(zap.Stringer("drill", id)),
	}, nil
}

func (d *drill) target() int64 {
	return int64(d.options.Producers) * int64(d.options.Tokens)
}

func (d *drill) run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.options.Duration)
	defer cancel()

	d.logger.Info("drill starting",
		zap.Int("producers", d.options.Producers),
		zap.Int("consumers", d.options.Consumers),
		zap.Int64("target", d.target()),
		zap.Duration("timeout", d.timeout),
		zap.Bool("alertable", d.options.Alertable),
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < d.options.Producers; i++ {
		g.Go(func() error { return d.produce(gctx) })
	}

	for i := 0; i < d.options.Consumers; i++ {
		g.Go(func() error { return d.consume(gctx, cancel) })
	}

	// non-alertable consumers never see cancellation, so closing the semaphore is what
	// releases them once the drill is over
	go func() {
		<-gctx.Done()
		if err := d.sem.Close(); err != nil && !errors.Is(err, semaphore.ErrClosed) {
			d.logger.Error("unable to close semaphore", zap.Error(err))
		}
	}()

	err := g.Wait()
	d.logger.Info("drill finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("posted", atomic.LoadInt64(&d.posted)),
		zap.Int64("consumed", atomic.LoadInt64(&d.consumed)),
		zap.Int64("timeouts", atomic.LoadInt64(&d.timeouts)),
		zap.Int64("interrupted", atomic.LoadInt64(&d.interrupted)),
	)

	return err
}

func (d *drill) produce(ctx context.Context) error {
	for n := 0; n < d.options.Tokens; {
		if ctx.Err() != nil {
			return nil
		}

		err := d.sem.Post()
		switch {
		case err == nil:
			atomic.AddInt64(&d.posted, 1)
			n++

		case errors.Is(err, semaphore.ErrFull):
			select {
			case <-ctx.Done():
			case <-time.After(d.options.Backoff):
			}

		case errors.Is(err, semaphore.ErrClosed):
			return nil

		default:
			return err
		}
	}

	return nil
}

func (d *drill) consume(ctx context.Context, done context.CancelFunc) error {
	for ctx.Err() == nil {
		switch d.sem.TimedWait(ctx, d.timeout, d.options.Alertable) {
		case semaphore.Acquired:
			if atomic.AddInt64(&d.consumed, 1) >= d.target() {
				done()
			}

		case semaphore.TimedOut:
			atomic.AddInt64(&d.timeouts, 1)

		case semaphore.Interrupted:
			atomic.AddInt64(&d.interrupted, 1)
			return nil

		case semaphore.Failed:
			return nil
		}
	}

	return nil
}
