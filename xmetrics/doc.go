// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides a Prometheus registry that doubles as a go-kit metrics.Provider.
Components describe their metrics with Metric values and obtain go-kit counters, gauges,
and histograms from the Registry, keeping Prometheus out of their own APIs.
*/
package xmetrics
