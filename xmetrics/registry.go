// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"fmt"
	"sync"

	"github.com/go-kit/kit/metrics"
	gokitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is a Prometheus registry and a go-kit metrics.Provider all in one.
//
// Metrics passed to NewRegistry are preregistered.  Any other name requested through the Provider
// methods is created ad hoc and cached, so repeated calls share the same underlying collector.
type Registry interface {
	provider.Provider
	prometheus.Gatherer
	prometheus.Registerer
}

type registry struct {
	*prometheus.Registry

	namespace string
	subsystem string

	lock  sync.Mutex
	cache map[string]prometheus.Collector
}

// collector returns the cached collector for name, creating and registering one of the
// given type if necessary.  A cached collector of a different type is a programming error.
func (r *registry) collector(name, metricType string) prometheus.Collector {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.cache[name]; ok {
		return existing
	}

	c, err := NewCollector(Metric{Name: name, Type: metricType}, r.namespace, r.subsystem)
	if err != nil {
		panic(err)
	}

	if err := r.Registry.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			c = already.ExistingCollector
		} else {
			panic(err)
		}
	}

	r.cache[name] = c
	return c
}

func (r *registry) NewCounter(name string) metrics.Counter {
	if cv, ok := r.collector(name, CounterType).(*prometheus.CounterVec); ok {
		return gokitprometheus.NewCounter(cv)
	}

	panic(fmt.Errorf("the metric %s is not a counter", name))
}

func (r *registry) NewGauge(name string) metrics.Gauge {
	if gv, ok := r.collector(name, GaugeType).(*prometheus.GaugeVec); ok {
		return gokitprometheus.NewGauge(gv)
	}

	panic(fmt.Errorf("the metric %s is not a gauge", name))
}

func (r *registry) NewHistogram(name string, _ int) metrics.Histogram {
	if hv, ok := r.collector(name, HistogramType).(*prometheus.HistogramVec); ok {
		return gokitprometheus.NewHistogram(hv)
	}

	panic(fmt.Errorf("the metric %s is not a histogram", name))
}

func (r *registry) Stop() {
}

// NewRegistry creates a Registry and preregisters the metrics supplied by each module.
// Duplicate names are an error.
func NewRegistry(o *Options, modules ...Module) (Registry, error) {
	r := &registry{
		Registry:  o.registry(),
		namespace: o.namespace(),
		subsystem: o.subsystem(),
		cache:     make(map[string]prometheus.Collector),
	}

	for _, module := range modules {
		for _, m := range module() {
			if _, ok := r.cache[m.Name]; ok {
				return nil, fmt.Errorf("duplicate metric: %s", m.Name)
			}

			c, err := NewCollector(m, r.namespace, r.subsystem)
			if err != nil {
				return nil, err
			}

			if err := r.Registry.Register(c); err != nil {
				return nil, fmt.Errorf("error while preregistering metric %s: %w", m.Name, err)
			}

			r.cache[m.Name] = c
		}
	}

	return r, nil
}
