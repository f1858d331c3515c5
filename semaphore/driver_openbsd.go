// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

//go:build openbsd

package semaphore

// DefaultDriver is the driver used when none is configured.  OpenBSD builds fall back to
// polling for timed waits.
const DefaultDriver = DriverPolling
