//nolint:funlen // ok for tests
package pace

import (
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
	"github.com/mpapenbr/pitstop-service-go/testsupport/basedata"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		laps          model.Laps
		wantSlope     float64
		wantIntercept float64
		wantErr       error
	}{
		{
			name:          "exact line",
			laps:          basedata.LinearLaps("VER", 10, 90, 0.1),
			wantSlope:     0.1,
			wantIntercept: 90,
		},
		{
			name:          "flat",
			laps:          basedata.LinearLaps("VER", 5, 95, 0),
			wantSlope:     0,
			wantIntercept: 95,
		},
		{
			name: "scattered",
			laps: model.Laps{
				basedata.Lap("VER", 1, 91),
				basedata.Lap("VER", 2, 93),
				basedata.Lap("VER", 3, 92),
				basedata.Lap("VER", 4, 94),
			},
			// sxy=4, sxx=5
			wantSlope:     0.8,
			wantIntercept: 90.5,
		},
		{
			name: "incomplete laps are ignored",
			laps: append(basedata.LinearLaps("VER", 3, 90, 1),
				model.Lap{Driver: "VER", Number: null.From(4)},
				model.Lap{Driver: "VER", Time: null.From(basedata.Seconds(200))}),
			wantSlope:     1,
			wantIntercept: 90,
		},
		{
			name:    "single lap",
			laps:    basedata.LinearLaps("VER", 1, 90, 0),
			wantErr: analysis.ErrInsufficientData,
		},
		{
			name:    "no laps",
			laps:    model.Laps{},
			wantErr: analysis.ErrInsufficientData,
		},
		{
			name: "same lap number only",
			laps: model.Laps{
				basedata.Lap("VER", 3, 90),
				basedata.Lap("LEC", 3, 91),
			},
			wantSlope:     0,
			wantIntercept: 90.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.laps)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.wantSlope, got.Slope, 1e-9)
			assert.InDelta(t, tt.wantIntercept, got.Intercept, 1e-9)
		})
	}
}

func TestBaseline(t *testing.T) {
	m, err := Fit(basedata.LinearLaps("VER", 20, 90, 0.05))
	require.NoError(t, err)
	assert.Equal(t, 1, m.MinLap)
	assert.Equal(t, 20, m.MaxLap)
	assert.Equal(t, 20, m.Samples)

	b := m.Baseline()
	require.Len(t, b, RaceLaps)
	for i, v := range b {
		assert.InDelta(t, 90+0.05*float64(i+1), v, 1e-9)
	}
	assert.InDelta(t, 92.85, m.Predict(57), 1e-9)
	assert.Len(t, m.Curve(3), 3)
}

func TestFitSession(t *testing.T) {
	laps := basedata.LinearLaps("VER", 10, 90, 0.1)
	// slow lap and pit lap don't count
	laps = append(laps, basedata.Lap("VER", 11, 150))
	pit := basedata.Lap("VER", 12, 91.2)
	pit.PitIn = true
	laps = append(laps, pit)
	s := session.NewStatic(basedata.RaceKey(), session.WithLaps(laps))

	m, err := FitSession(s)
	require.NoError(t, err)
	assert.Equal(t, 10, m.Samples)
	assert.InDelta(t, 0.1, m.Slope, 1e-9)

	_, err = FitSession(nil)
	assert.ErrorIs(t, err, analysis.ErrDataUnavailable)
}
