// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// semadrill runs producers and consumers against a configured semaphore and reports
// how the waits resolved.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const applicationName = "semadrill"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(arguments []string) int {
	fs := newFlagSet()
	if err := fs.Parse(arguments); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	v, err := newViper(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to read configuration: %s\n", err)
		return 1
	}

	logger, err := newLogger(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to create logger: %s\n", err)
		return 1
	}

	defer logger.Sync() //nolint:errcheck
	return runApp(v, logger)
}

func runApp(v *viper.Viper, logger *zap.Logger) int {
	var d *drill
	app := fx.New(
		fx.NopLogger,
		fx.Supply(v, logger),
		fx.Provide(
			provideSemaphoreOptions,
			provideRegistry,
			provideSemaphore,
			provideDrill,
		),
		fx.Invoke(startMetricsServer),
		fx.Populate(&d),
	)

	if err := app.Err(); err != nil {
		logger.Error("unable to assemble drill", zap.Error(err))
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.Error("unable to start drill", zap.Error(err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	if err := d.run(ctx); err != nil {
		logger.Error("drill failed", zap.Error(err))
		exitCode = 1
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		logger.Error("unable to stop drill cleanly", zap.Error(err))
		exitCode = 1
	}

	return exitCode
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	fs.StringP("file", "f", "", "the configuration file to use.  Overrides the search path.")
	fs.String("driver", "", "the semaphore driver: channel, weighted, or polling")
	fs.Int("initial", 0, "the initial token count")
	fs.Int("max", 0, "the maximum token count")
	fs.Int("producers", 0, "the number of goroutines posting tokens")
	fs.Int("consumers", 0, "the number of goroutines waiting for tokens")
	fs.Int("tokens", 0, "the number of tokens each producer posts")
	fs.String("timeout", "", "the consumer wait timeout: milliseconds, a duration, or infinite")
	fs.Bool("alertable", false, "whether consumer waits can be interrupted by shutdown")
	fs.Duration("duration", 0, "the longest the drill may run")
	fs.String("address", "", "if set, the address on which to serve /metrics")
	fs.String("log-file", "", "if set, a rolling JSON log file")
	fs.String("log-level", "", "the log level")
	return fs
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"driver":    "semaphore.driver",
	"initial":   "semaphore.initial",
	"max":       "semaphore.max",
	"producers": "drill.producers",
	"consumers": "drill.consumers",
	"tokens":    "drill.tokens",
	"timeout":   "drill.timeout",
	"alertable": "drill.alertable",
	"duration":  "drill.duration",
	"address":   "server.address",
	"log-file":  "log.file",
	"log-level": "log.level",
}

func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(applicationName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, err
		}
	}

	if err := readConfig(v, fs); err != nil {
		return nil, err
	}

	// Sub does not see flag or environment overrides, so hand out a single merged layer
	resolved := viper.New()
	if err := resolved.MergeConfigMap(v.AllSettings()); err != nil {
		return nil, err
	}

	return resolved, nil
}

func readConfig(v *viper.Viper, fs *pflag.FlagSet) error {
	if file, _ := fs.GetString("file"); len(file) > 0 {
		v.SetConfigFile(file)
		return v.ReadInConfig()
	}

	v.SetConfigName(applicationName)
	v.AddConfigPath(fmt.Sprintf("/etc/%s", applicationName))
	v.AddConfigPath(fmt.Sprintf("$HOME/.%s", applicationName))
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}
