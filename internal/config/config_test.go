package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeINI(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ridestats.ini")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.ini")

	cfg, err := Load([]string{"-c", missing, "rides/sunday"})
	require.NoError(t, err)

	assert.Equal(t, "rides/sunday.gpx", cfg.InputPath)
	assert.Equal(t, "rides/sunday", cfg.BaseName)
	assert.Equal(t, "rides/sunday.csv", cfg.OutputPath(".csv"))
	assert.False(t, cfg.Aggregated())
	assert.False(t, cfg.ShowRest)
	assert.Equal(t, 2.0, cfg.RestMaxSpeed)
	assert.Equal(t, MapConfig{PolylineWidth: 2, MarkerRadius: 2, ZoomStart: 12, Width: 1024, Height: 600}, cfg.Map)
}

func TestLoadFlags(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.ini")

	cfg, err := Load([]string{"-c", missing, "-d", "5", "--aggregate_time=10", "-r", "--plot", "--db", "--serve", ":9000", "ride.gpx"})
	require.NoError(t, err)

	assert.Equal(t, "ride.gpx", cfg.InputPath)
	assert.Equal(t, "ride", cfg.BaseName)
	assert.Equal(t, 5, cfg.AggregateDistanceKm)
	assert.Equal(t, 10, cfg.AggregateTimeMin)
	assert.True(t, cfg.Aggregated())
	assert.True(t, cfg.ShowRest)
	assert.True(t, cfg.Plot)
	assert.True(t, cfg.DB)
	assert.False(t, cfg.Profile)
	assert.Equal(t, ":9000", cfg.ServeAddr)
}

func TestLoadINI(t *testing.T) {
	path := writeINI(t, "[General]\nrest_max_speed = 3.5\n\n[Map]\npath_polyline_width = 4\nheight = 480\n")

	cfg, err := Load([]string{"--config", path, "ride"})
	require.NoError(t, err)

	assert.Equal(t, 3.5, cfg.RestMaxSpeed)
	assert.Equal(t, 4, cfg.Map.PolylineWidth)
	assert.Equal(t, 480, cfg.Map.Height)
	assert.Equal(t, 1024, cfg.Map.Width)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeINI(t, "[General]\nrest_max_speed = 3.5\n")
	t.Setenv("RIDESTATS_GENERAL_REST_MAX_SPEED", "1.5")
	t.Setenv("RIDESTATS_MAP_ZOOM_START", "14")

	cfg, err := Load([]string{"-c", path, "ride"})
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.RestMaxSpeed)
	assert.Equal(t, 14, cfg.Map.ZoomStart)
}

func TestLoadErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.ini")

	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"no file", []string{"-c", missing}, true},
		{"two files", []string{"-c", missing, "a", "b"}, true},
		{"unknown flag", []string{"-c", missing, "--nope", "a"}, true},
		{"negative distance", []string{"-c", missing, "-d", "-1", "a"}, true},
		{"bad rest threshold", []string{"-c", writeINI(t, "[General]\nrest_max_speed = 0\n"), "a"}, false},
		{"bad map width", []string{"-c", writeINI(t, "[Map]\nwidth = -5\n"), "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.usage, errors.Is(err, ErrUsage))
		})
	}
}

func TestLoadInvalidAggregationDisablesLaps(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.ini")

	tests := [][]string{
		{"-c", missing, "-t", "ten", "ride"},
		{"-c", missing, "--aggregate_distance=1.5", "ride"},
		{"-c", missing, "-d", "", "-t", "x", "ride"},
	}
	for _, args := range tests {
		cfg, err := Load(args)
		require.NoError(t, err, args)
		assert.False(t, cfg.Aggregated(), args)
		assert.Zero(t, cfg.AggregateDistanceKm)
		assert.Zero(t, cfg.AggregateTimeMin)
	}

	// a valid mode survives an invalid one
	cfg, err := Load([]string{"-c", missing, "-d", "two", "-t", "15", "ride"})
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.AggregateTimeMin)
	assert.True(t, cfg.Aggregated())
}

func TestLoadHelp(t *testing.T) {
	_, err := Load([]string{"-h"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestResolvePaths(t *testing.T) {
	t.Parallel()

	in, base := ResolvePaths("/data/2024-06-01.gpx")
	assert.Equal(t, "/data/2024-06-01.gpx", in)
	assert.Equal(t, "/data/2024-06-01", base)

	in, base = ResolvePaths("track")
	assert.Equal(t, "track.gpx", in)
	assert.Equal(t, "track", base)
}
