// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeout(t *testing.T) {
	testData := []struct {
		value    interface{}
		expected time.Duration
	}{
		{nil, Infinite},
		{"", Infinite},
		{"infinite", Infinite},
		{" INFINITE ", Infinite},
		{"0", 0},
		{"1500", 1500 * time.Millisecond},
		{"-1", Infinite},
		{"250ms", 250 * time.Millisecond},
		{"2s", 2 * time.Second},
		{0, 0},
		{100, 100 * time.Millisecond},
		{uint32(4000), 4 * time.Second},
		{-1, Infinite},
		{3 * time.Second, 3 * time.Second},
	}

	for _, record := range testData {
		t.Run(fmt.Sprintf("%v", record.value), func(t *testing.T) {
			actual, err := ParseTimeout(record.value)
			assert.NoError(t, err)
			assert.Equal(t, record.expected, actual)
		})
	}
}

func TestParseTimeoutInvalid(t *testing.T) {
	for _, v := range []interface{}{"bogus", "1.5.3s", struct{}{}} {
		t.Run(fmt.Sprintf("%v", v), func(t *testing.T) {
			_, err := ParseTimeout(v)
			assert.Error(t, err)
		})
	}
}
