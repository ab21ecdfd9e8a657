package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/xrscene/internal/report"
)

func runProbe(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"-config", t.TempDir()}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_QuestJSON(t *testing.T) {
	out, logs, err := runProbe(t, "-preset", "quest", "-format", "json")
	require.NoError(t, err)

	got, err := report.Decode(report.FormatJSON, []byte(out))
	require.NoError(t, err)
	profile := got["profile"].(map[string]any)
	assert.Equal(t, "meta-quest", profile["category"])
	assert.Equal(t, "high", profile["tier"])

	settings := got["settings"].(map[string]any)
	assert.Equal(t, 1.0, settings["pixelRatio"])
	assert.Equal(t, false, settings["antialias"], "VR override disables antialias")

	assert.Contains(t, logs, "VR optimizations applied")
}

func TestRun_PhoneText(t *testing.T) {
	out, _, err := runProbe(t, "-preset", "phone")
	require.NoError(t, err)
	assert.Contains(t, out, "mobile")
	assert.Contains(t, out, "low")
	assert.Contains(t, out, "touch-small")
}

func TestRun_SnapshotAndFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phone.png")
	_, logs, err := runProbe(t, "-preset", "phone", "-snapshot", path, "-frames", "90", "-log-level", "info")
	require.NoError(t, err)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))

	assert.Contains(t, logs, "Performance snapshot")
	assert.Contains(t, logs, "Simulation finished")
	assert.Contains(t, logs, "Snapshot written")
}

func TestRun_Errors(t *testing.T) {
	_, _, err := runProbe(t, "-preset", "toaster")
	assert.ErrorContains(t, err, "unknown device preset")

	_, _, err = runProbe(t, "-preset", "phone", "-format", "yaml")
	assert.ErrorContains(t, err, "unknown report format")

	_, _, err = runProbe(t, "-no-such-flag")
	assert.Error(t, err)
}

func TestRun_WatchStopsOnCancel(t *testing.T) {
	t.Cleanup(viper.Reset)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"-config", t.TempDir(), "-preset", "tablet", "-watch", "10ms"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "tablet")
}
