package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rideGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
<metadata><name>CLI ride</name></metadata>
<trk><trkseg>
<trkpt lat="48.000" lon="11.0"><ele>500</ele><time>2024-06-01T07:00:00Z</time></trkpt>
<trkpt lat="48.001" lon="11.0"><ele>501</ele><time>2024-06-01T07:00:10Z</time></trkpt>
<trkpt lat="48.001" lon="11.0"><ele>501</ele><time>2024-06-01T07:00:40Z</time></trkpt>
<trkpt lat="48.002" lon="11.0"><ele>503</ele><time>2024-06-01T07:00:50Z</time></trkpt>
</trkseg></trk></gpx>
`

func setup(t *testing.T) (dir string, args []string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ride.gpx"), []byte(rideGPX), 0o644))
	return dir, []string{"-c", filepath.Join(dir, "none.ini")}
}

func TestRunPrintsStats(t *testing.T) {
	dir, args := setup(t)

	var stdout, stderr bytes.Buffer
	code := run(append(args, "-r", "-t", "1", filepath.Join(dir, "ride.gpx")), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	want := "Date: 2024-06-01\n" +
		"Name: CLI ride\n" +
		"Km: 0.22\n" +
		"Tour Duration: 0:00:50\n" +
		"Tour Avg: 16\n" +
		"Max: 40\n" +
		"Rest Duration: 0:00:30\n" +
		"Lap Best: 16\n"
	assert.Equal(t, want, stdout.String())

	for _, name := range []string{"ride.csv", "ride.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "ride.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunStatsJSON(t *testing.T) {
	dir, args := setup(t)

	var stdout, stderr bytes.Buffer
	code := run(append(args, "--stats-json", filepath.Join(dir, "ride")), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var got map[string]string
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "0.22", got["Km"])
	assert.Len(t, got, 6)
}

func TestRunExitCodes(t *testing.T) {
	dir, args := setup(t)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(args, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error:")

	stderr.Reset()
	assert.Equal(t, 1, run(append(args, filepath.Join(dir, "absent")), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Error:")
	assert.Empty(t, stdout.String())
}

func TestRunInvalidAggregationPrintsPlainStats(t *testing.T) {
	dir, args := setup(t)

	var stdout, stderr bytes.Buffer
	code := run(append(args, "-t", "ten", filepath.Join(dir, "ride.gpx")), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.NotContains(t, stdout.String(), "Lap Best")
}
