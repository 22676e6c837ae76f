package compare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "00:00:00"},
		{"whole seconds", 91 * time.Second, "00:01:31"},
		{"millis", 92*time.Second + 345*time.Millisecond, "00:01:32.345000"},
		{"nanos", time.Second + 5, "00:00:01.000000005"},
		{"hours", 2*time.Hour + 3*time.Minute + 4*time.Second, "02:03:04"},
		{"days are dropped", 25 * time.Hour, "01:00:00"},
		{"negative", -90 * time.Second, "-00:01:30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatClock(tt.d))
		})
	}
}

func TestFormatLapTime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{92*time.Second + 345*time.Millisecond, "00:01:32.3"},
		{92 * time.Second, "00:01:32"},
		{time.Minute + 500*time.Millisecond, "00:01:00.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatLapTime(tt.d))
	}
}
