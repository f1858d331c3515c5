// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// ConfigKey is the Viper subkey under which semaphore configuration is stored.
	// FromViper *does not* assume this key.
	ConfigKey = "semaphore"

	// DefaultMax is the maximum count used when Options.Max is unset
	DefaultMax = 1
)

// Options is the externally configurable form of a Semaphore
type Options struct {
	// Initial is the number of tokens available at creation.
	Initial int `mapstructure:"initial"`

	// Max is the maximum token count.  If unset, DefaultMax is used.
	Max int `mapstructure:"max"`

	// Driver selects the blocking primitive.  If unset, DefaultDriver is used.
	Driver Driver `mapstructure:"driver"`

	// PollInterval only applies to DriverPolling.
	PollInterval time.Duration `mapstructure:"pollInterval"`
}

func (o *Options) max() int {
	if o != nil && o.Max > 0 {
		return o.Max
	}

	return DefaultMax
}

// New creates a Semaphore from these Options.  Any extra options are applied after the
// configured ones, so they take precedence.  A nil Options produces a binary semaphore
// with no tokens.
func (o *Options) New(extra ...Option) (*Semaphore, error) {
	var initial int
	var configured []Option
	if o != nil {
		initial = o.Initial
		configured = append(configured, WithDriver(o.Driver), WithPollInterval(o.PollInterval))
	}

	s, err := New(initial, o.max(), append(configured, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("unable to create semaphore: %w", err)
	}

	return s, nil
}

// Sub returns the standard child Viper, using ConfigKey, for this package.
// If passed nil, this function returns nil.
func Sub(v *viper.Viper) *viper.Viper {
	if v != nil {
		return v.Sub(ConfigKey)
	}

	return nil
}

// FromViper produces an Options from a (possibly nil) Viper instance.
// Callers should use FromViper(Sub(v)) if the standard subkey is desired.
func FromViper(v *viper.Viper) (*Options, error) {
	o := new(Options)
	if v != nil {
		if err := v.Unmarshal(o, viper.DecodeHook(decodeHook)); err != nil {
			return nil, fmt.Errorf("unable to unmarshal semaphore options: %w", err)
		}
	}

	return o, nil
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	driverHook,
)

// driverHook normalizes configured driver names, so that "Weighted" and " weighted " both
// select DriverWeighted.
func driverHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Driver("")) {
		return data, nil
	}

	return Driver(strings.ToLower(strings.TrimSpace(data.(string)))), nil
}
