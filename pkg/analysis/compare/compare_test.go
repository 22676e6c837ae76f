//nolint:funlen // ok for tests
package compare

import (
	"context"
	"errors"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
	"github.com/mpapenbr/pitstop-service-go/testsupport/basedata"
)

func TestCompare(t *testing.T) {
	c := NewComparator()
	got, err := c.Compare(context.Background(), basedata.SampleRaceSession(), "VER", "LEC")
	require.NoError(t, err)

	assert.Equal(t, basedata.SampleEventName, got.RaceName)
	assert.Equal(t, []model.PaceSeries{
		{Driver: "VER", X: []int{1, 2, 3, 5}, Y: []float64{99, 95, 94, 93.5}},
		{Driver: "LEC", X: []int{1, 2, 3}, Y: []float64{93, 92, 91}},
	}, got.PaceData)

	require.Len(t, got.TelemetryData, 2)
	assert.Equal(t, "VER", got.TelemetryData[0].Driver)
	assert.Equal(t, "00:01:33.5", got.TelemetryData[0].LapTime)
	assert.Equal(t, []float64{0, 100, 200, 300}, got.TelemetryData[0].Distance)
	assert.Equal(t, []float64{280, 300, 150, 200}, got.TelemetryData[0].Speed)
	assert.Equal(t, "00:01:31", got.TelemetryData[1].LapTime)

	assert.Equal(t, model.WinnerInfo{
		Name: "VER", Team: "Red Bull Racing", Time: "01:33:26.736000",
	}, got.WinnerInfo)
}

func TestCompareSameDriver(t *testing.T) {
	got, err := NewComparator().Compare(context.Background(),
		basedata.SampleRaceSession(), "LEC", "LEC")
	require.NoError(t, err)
	assert.Len(t, got.PaceData, 2)
	assert.Equal(t, got.PaceData[0], got.PaceData[1])
}

func TestCompareDriverUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		d1, d2 string
	}{
		{"first unknown", "HAM", "LEC"},
		{"second unknown", "VER", "HAM"},
		{"case matters", "ver", "LEC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComparator().Compare(context.Background(),
				basedata.SampleRaceSession(), tt.d1, tt.d2)
			require.ErrorIs(t, err, analysis.ErrDriverDataUnavailable)
			assert.Equal(t, "Driver data unavailable.", err.Error())
		})
	}
}

func TestCompareInvalid(t *testing.T) {
	c := NewComparator()
	_, err := c.Compare(context.Background(), nil, "VER", "LEC")
	assert.ErrorIs(t, err, analysis.ErrDataUnavailable)
	_, err = c.Compare(context.Background(), basedata.SampleRaceSession(), "VER", " ")
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)
}

func TestCompareTelemetryOmitted(t *testing.T) {
	src := session.TelemetryFunc(
		func(ctx context.Context, lap model.Lap) ([]model.TelemetrySample, error) {
			switch lap.Driver {
			case "LEC":
				return nil, errors.New("car data missing")
			case "VER":
				return []model.TelemetrySample{}, nil
			}
			return basedata.SampleTelemetry()(ctx, lap)
		})
	laps := append(basedata.SampleRaceLaps(), basedata.Lap("SAI", 1, 92.5))
	s := session.NewStatic(basedata.RaceKey(),
		session.WithLaps(laps),
		session.WithResults(basedata.SampleResults()),
		session.WithTelemetrySource(src))

	got, err := NewComparator().Compare(context.Background(), s, "VER", "LEC")
	require.NoError(t, err)
	assert.Len(t, got.PaceData, 2)
	assert.Empty(t, got.TelemetryData)

	got, err = NewComparator().Compare(context.Background(), s, "SAI", "LEC")
	require.NoError(t, err)
	require.Len(t, got.TelemetryData, 1)
	assert.Equal(t, "SAI", got.TelemetryData[0].Driver)
}

func TestWinner(t *testing.T) {
	full := model.ResultRow{
		Position:     null.From(1.0),
		Abbreviation: null.From("HAM"),
		TeamName:     null.From("Mercedes"),
		Time:         null.From(basedata.Seconds(5400)),
	}
	tests := []struct {
		name    string
		results []model.ResultRow
		want    model.WinnerInfo
	}{
		{
			name:    "complete",
			results: []model.ResultRow{full},
			want:    model.WinnerInfo{Name: "HAM", Team: "Mercedes", Time: "01:30:00"},
		},
		{
			name:    "no results",
			results: nil,
			want:    model.UnavailableWinner(),
		},
		{
			name: "nobody on position 1",
			results: []model.ResultRow{
				{Position: null.From(2.0), Abbreviation: null.From("LEC")},
				{Abbreviation: null.From("VER")},
			},
			want: model.UnavailableWinner(),
		},
		{
			name: "winner without time",
			results: []model.ResultRow{
				{
					Position:     null.From(1.0),
					Abbreviation: null.From("HAM"),
					TeamName:     null.From("Mercedes"),
				},
			},
			want: model.UnavailableWinner(),
		},
		{
			name: "first position 1 row wins",
			results: []model.ResultRow{
				full,
				{
					Position:     null.From(1.0),
					Abbreviation: null.From("VER"),
					TeamName:     null.From("Red Bull Racing"),
					Time:         null.From(basedata.Seconds(5000)),
				},
			},
			want: model.WinnerInfo{Name: "HAM", Team: "Mercedes", Time: "01:30:00"},
		},
	}
	c := NewComparator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.winner(tt.results)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Available(), got.Available())
		})
	}
}
