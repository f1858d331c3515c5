// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("semaphore.max", 4)
	v.SetDefault("drill.producers", 2)
	v.SetDefault("drill.consumers", 4)
	v.SetDefault("drill.tokens", 100)
	v.SetDefault("drill.timeout", "100ms")
	v.SetDefault("drill.duration", 30*time.Second)
	v.SetDefault("drill.backoff", time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxSize", 100)
	v.SetDefault("log.maxBackups", 3)
}

// logOptions mirrors the lumberjack settings for a rolling log file
type logOptions struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"maxSize"`
	MaxAge     int    `mapstructure:"maxAge"`
	MaxBackups int    `mapstructure:"maxBackups"`
	Level      string `mapstructure:"level"`
}

// newLogger writes JSON to a lumberjack file when one is configured, and console output
// to stdout otherwise.
func newLogger(v *viper.Viper) (*zap.Logger, error) {
	var o logOptions
	if sub := v.Sub("log"); sub != nil {
		if err := sub.Unmarshal(&o); err != nil {
			return nil, err
		}
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(o.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.Level, err)
	}

	var core zapcore.Core
	if len(o.File) > 0 {
		core = zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   o.File,
				MaxSize:    o.MaxSize,
				MaxAge:     o.MaxAge,
				MaxBackups: o.MaxBackups,
			}),
			level,
		)
	} else {
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stdout),
			level,
		)
	}

	return zap.New(core).Named(applicationName), nil
}
