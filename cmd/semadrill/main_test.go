// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/sema/semaphore"
	"go.uber.org/zap"
)

func TestNewViperFlags(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		fs      = newFlagSet()
	)

	require.NoError(fs.Parse([]string{"--driver", "weighted", "--max", "7", "--timeout", "infinite", "--producers", "5"}))
	v, err := newViper(fs)
	require.NoError(err)

	o, err := provideSemaphoreOptions(v)
	require.NoError(err)
	assert.Equal(semaphore.DriverWeighted, o.Driver)
	assert.Equal(7, o.Max)

	assert.Equal(5, v.GetInt("drill.producers"))
	assert.Equal(4, v.GetInt("drill.consumers"))
	assert.Equal("infinite", v.GetString("drill.timeout"))
	assert.Equal(30*time.Second, v.GetDuration("drill.duration"))
}

func TestNewViperFile(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		file    = filepath.Join(t.TempDir(), "semadrill.yaml")
	)

	require.NoError(os.WriteFile(file, []byte(`
semaphore:
  driver: polling
  initial: 1
  max: 3
  pollInterval: 10ms
drill:
  consumers: 9
`), 0o600))

	fs := newFlagSet()
	require.NoError(fs.Parse([]string{"--file", file, "--consumers", "2"}))
	v, err := newViper(fs)
	require.NoError(err)

	o, err := provideSemaphoreOptions(v)
	require.NoError(err)
	assert.Equal(semaphore.DriverPolling, o.Driver)
	assert.Equal(1, o.Initial)
	assert.Equal(3, o.Max)
	assert.Equal(10*time.Millisecond, o.PollInterval)
	assert.Equal(2, v.GetInt("drill.consumers"), "flags take precedence over the file")
}

func TestNewViperMissingFile(t *testing.T) {
	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{"--file", filepath.Join(t.TempDir(), "missing.yaml")}))

	_, err := newViper(fs)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Run("Console", func(t *testing.T) {
		fs := newFlagSet()
		require.NoError(t, fs.Parse(nil))
		v, err := newViper(fs)
		require.NoError(t, err)

		logger, err := newLogger(v)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("File", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "semadrill.log")
		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--log-file", file, "--log-level", "debug"}))
		v, err := newViper(fs)
		require.NoError(t, err)

		logger, err := newLogger(v)
		require.NoError(t, err)
		logger.Info("drill test")
		logger.Sync() //nolint:errcheck

		contents, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Contains(t, string(contents), `"msg":"drill test"`)
	})

	t.Run("BadLevel", func(t *testing.T) {
		fs := newFlagSet()
		require.NoError(t, fs.Parse([]string{"--log-level", "loud"}))
		v, err := newViper(fs)
		require.NoError(t, err)

		_, err = newLogger(v)
		assert.Error(t, err)
	})
}

func TestMetricsHandler(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		fs      = newFlagSet()
	)

	require.NoError(fs.Parse([]string{"--initial", "1"}))
	v, err := newViper(fs)
	require.NoError(err)

	r, err := provideRegistry(v)
	require.NoError(err)

	o, err := provideSemaphoreOptions(v)
	require.NoError(err)

	s, err := provideSemaphore(o, r, zap.NewNop())
	require.NoError(err)
	require.NoError(s.Post())

	response := httptest.NewRecorder()
	newMetricsHandler(r).ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(http.StatusOK, response.Code)
	assert.True(strings.Contains(response.Body.String(), "xmidt_sema_"+semaphore.PostCounter+" 1"))

	response = httptest.NewRecorder()
	newMetricsHandler(r).ServeHTTP(response, httptest.NewRequest(http.MethodPost, "/metrics", nil))
	assert.Equal(http.StatusMethodNotAllowed, response.Code)
}

func TestRun(t *testing.T) {
	assert.Equal(t, 0, run([]string{
		"--producers", "2",
		"--consumers", "2",
		"--tokens", "10",
		"--timeout", "10ms",
		"--log-level", "warn",
		"--address", "127.0.0.1:0",
	}))

	assert.Equal(t, 2, run([]string{"--no-such-flag"}))
	assert.Equal(t, 1, run([]string{"--driver", "nonesuch", "--log-level", "fatal"}))
}
