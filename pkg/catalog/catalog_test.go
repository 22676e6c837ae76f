//nolint:funlen // ok for tests
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	d := c.Data()
	assert.Len(t, d.Tracks, 24)
	assert.Len(t, d.Drivers, 20)
	assert.Equal(t, []int{2024, 2023, 2022, 2021}, d.Years)
}

func TestValidation(t *testing.T) {
	c := Default()
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"track by name", c.ValidTrack("Bahrain"), true},
		{"track case insensitive", c.ValidTrack("monaco"), true},
		{"track by circuit", c.ValidTrack("Sakhir"), true},
		{"unknown track", c.ValidTrack("Nordschleife"), false},
		{"driver", c.ValidDriver("VER"), true},
		{"driver is case sensitive", c.ValidDriver("ver"), false},
		{"year", c.ValidYear(2023), true},
		{"unknown year", c.ValidYear(1999), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestCircuitShortName(t *testing.T) {
	c := Default()
	assert.Equal(t, "Sakhir", c.CircuitShortName("Bahrain"))
	assert.Equal(t, "Yas Marina Circuit", c.CircuitShortName("abu dhabi"))
	assert.Equal(t, "Unknown", c.CircuitShortName("Unknown"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: "years: [2023]\ndrivers: [VER]\ntracks:\n  - {name: X, circuitShortName: Y}\n",
		},
		{name: "no tracks", data: "years: [2023]\n", wantErr: true},
		{name: "unknown field", data: "foo: 1\ntracks:\n  - {name: X}\n", wantErr: true},
		{name: "track without name", data: "tracks:\n  - {circuitShortName: Y}\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "catalog.yml")
	require.NoError(t, os.WriteFile(file,
		[]byte("years: [2023]\ntracks:\n  - {name: A}\n"), 0o600))
	c, err := Load(file)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- c.Watch(ctx, file) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(file,
		[]byte("years: [2024]\ntracks:\n  - {name: B}\n"), 0o600))
	assert.Eventually(t, func() bool { return c.ValidTrack("B") },
		5*time.Second, 20*time.Millisecond)
	assert.True(t, c.ValidYear(2024))

	cancel()
	assert.NoError(t, <-done)
}
