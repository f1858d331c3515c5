// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/xmidt-org/sema/semaphore"
	"github.com/xmidt-org/sema/xmetrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideSemaphoreOptions(v *viper.Viper) (*semaphore.Options, error) {
	return semaphore.FromViper(semaphore.Sub(v))
}

func provideRegistry(v *viper.Viper) (xmetrics.Registry, error) {
	o := new(xmetrics.Options)
	if sub := v.Sub("metrics"); sub != nil {
		if err := sub.Unmarshal(o); err != nil {
			return nil, err
		}
	}

	return xmetrics.NewRegistry(o, semaphore.Metrics)
}

func provideSemaphore(o *semaphore.Options, r xmetrics.Registry, logger *zap.Logger) (semaphore.Interface, error) {
	s, err := o.New(semaphore.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return semaphore.Instrument(s, semaphore.NewMeasures(r).InstrumentOptions()...), nil
}

func newMetricsHandler(r xmetrics.Registry) http.Handler {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(r, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

// startMetricsServer serves /metrics for the life of the application.  It does nothing
// if no server address is configured.
func startMetricsServer(lc fx.Lifecycle, v *viper.Viper, r xmetrics.Registry, logger *zap.Logger) {
	address := v.GetString("server.address")
	if len(address) == 0 {
		return
	}

	server := &http.Server{
		Addr:              address,
		Handler:           newMetricsHandler(r),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			l, err := net.Listen("tcp", address)
			if err != nil {
				return err
			}

			logger.Info("serving metrics", zap.Stringer("address", l.Addr()))
			go func() {
				if err := server.Serve(l); !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server exited", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: server.Shutdown,
	})
}
