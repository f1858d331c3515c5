// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// InfiniteText is the configuration spelling of Infinite
const InfiniteText = "infinite"

// ParseTimeout converts a loosely typed configuration value into a TimedWait timeout.
//
// nil, the empty string, and "infinite" (in any case) yield Infinite.  Integers, and strings
// holding integers, are milliseconds; negative milliseconds also yield Infinite.  Any other
// string must be a Go duration such as "250ms" or "2s".
func ParseTimeout(v interface{}) (time.Duration, error) {
	switch tv := v.(type) {
	case nil:
		return Infinite, nil

	case time.Duration:
		return tv, nil

	case string:
		text := strings.ToLower(strings.TrimSpace(tv))
		if len(text) == 0 || text == InfiniteText {
			return Infinite, nil
		}

		if ms, err := cast.ToInt64E(text); err == nil {
			return millis(ms), nil
		}

		d, err := cast.ToDurationE(text)
		if err != nil {
			return 0, fmt.Errorf("invalid semaphore timeout %q: %w", tv, err)
		}

		return d, nil

	default:
		ms, err := cast.ToInt64E(v)
		if err != nil {
			return 0, fmt.Errorf("invalid semaphore timeout %v: %w", v, err)
		}

		return millis(ms), nil
	}
}

func millis(ms int64) time.Duration {
	if ms < 0 {
		return Infinite
	}

	return time.Duration(ms) * time.Millisecond
}
