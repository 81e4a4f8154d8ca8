package main

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotFed0t/isin_resolver/config"
)

func TestSetupLogger_KeepsStdoutForOutput(t *testing.T) {
	prevStdout, prevStderr, prevLogger := os.Stdout, os.Stderr, slog.Default()
	t.Cleanup(func() {
		os.Stdout, os.Stderr = prevStdout, prevStderr
		slog.SetDefault(prevLogger)
	})

	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	errR, errW, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout, os.Stderr = outW, errW

	setupLogger(&config.Config{LogLevel: "info"})
	slog.Info("exchange table loaded", slog.Int("codes", 3))
	slog.Debug("hidden at info level")

	os.Stdout, os.Stderr = prevStdout, prevStderr
	require.NoError(t, outW.Close())
	require.NoError(t, errW.Close())

	stdout, err := io.ReadAll(outR)
	require.NoError(t, err)
	stderr, err := io.ReadAll(errR)
	require.NoError(t, err)

	assert.Empty(t, stdout)
	assert.Contains(t, string(stderr), `"msg":"exchange table loaded"`)
	assert.Contains(t, string(stderr), `"codes":3`)
	assert.NotContains(t, string(stderr), "hidden at info level")
}
