package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
	"github.com/mpapenbr/pitstop-service-go/testsupport/basedata"
)

func TestStaticIsImmutable(t *testing.T) {
	laps := basedata.SampleRaceLaps()
	s := session.NewStatic(basedata.RaceKey(), session.WithLaps(laps))

	laps[0].Driver = "XXX"
	assert.Equal(t, "VER", s.Laps()[0].Driver)

	got := s.Laps()
	got[0].Driver = "YYY"
	assert.Equal(t, "VER", s.Laps()[0].Driver)
}

func TestStaticSession(t *testing.T) {
	s := basedata.SampleRaceSession()
	assert.Equal(t, basedata.RaceKey(), s.Key())
	assert.Equal(t, "2023/Bahrain/R", s.Key().String())
	assert.Equal(t, basedata.SampleEventName, s.EventName())
	assert.Len(t, s.Laps(), 8)
	assert.Len(t, s.Results(), 2)

	fastest, ok := s.FastestLap()
	require.True(t, ok)
	assert.Equal(t, "LEC", fastest.Driver)
	assert.Equal(t, 3, fastest.Number.MustGet())

	// across the session only laps below 1.07*91s qualify, pit lap excluded
	// VER 2, 3, 5 and LEC 1-3
	quick := s.QuickLaps()
	assert.Len(t, quick, 6)

	samples, err := s.Telemetry(context.Background(), fastest)
	require.NoError(t, err)
	assert.Len(t, samples, 4)
}

func TestStaticWithoutTelemetry(t *testing.T) {
	s := session.NewStatic(basedata.RaceKey())
	_, ok := s.FastestLap()
	assert.False(t, ok)
	assert.Empty(t, s.QuickLaps())
	_, err := s.Telemetry(context.Background(), basedata.Lap("VER", 1, 90))
	assert.ErrorIs(t, err, session.ErrNoTelemetry)
}

type panicProvider struct{}

//nolint:whitespace // can't make both editor and linter happy
func (panicProvider) LoadSession(
	ctx context.Context,
	year int,
	track string,
	st model.SessionType,
) (session.Session, error) {
	panic("boom")
}

type nilProvider struct{}

//nolint:whitespace // can't make both editor and linter happy
func (nilProvider) LoadSession(
	ctx context.Context,
	year int,
	track string,
	st model.SessionType,
) (session.Session, error) {
	return nil, nil
}

func TestAccessLoad(t *testing.T) {
	ctx := context.Background()
	failing := basedata.NewProvider()
	failing.Err = errors.New("connection refused")

	tests := []struct {
		name     string
		provider session.Provider
		track    string
		wantOk   bool
	}{
		{"found", basedata.NewProvider(basedata.SampleRaceSession()), basedata.SampleTrack, true},
		{"not found", basedata.NewProvider(basedata.SampleRaceSession()), "Monaco", false},
		{"provider error", failing, basedata.SampleTrack, false},
		{"provider panics", panicProvider{}, basedata.SampleTrack, false},
		{"provider returns nil", nilProvider{}, basedata.SampleTrack, false},
		{"no provider", nil, basedata.SampleTrack, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := session.NewAccess(tt.provider)
			s, ok := a.Load(ctx, basedata.SampleYear, tt.track, model.SessionTypeRace)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.NotNil(t, s)
			} else {
				assert.Nil(t, s)
			}
		})
	}
}
