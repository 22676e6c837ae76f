// Package basedata provides sample sessions used by tests across packages.
package basedata

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

const (
	SampleYear      = 2023
	SampleTrack     = "Bahrain"
	SampleEventName = "Bahrain Grand Prix"
)

func RaceKey() model.SessionKey {
	return model.SessionKey{Year: SampleYear, Track: SampleTrack, Type: model.SessionTypeRace}
}

func QualifyingKey() model.SessionKey {
	return model.SessionKey{
		Year:  SampleYear,
		Track: SampleTrack,
		Type:  model.SessionTypeQualifying,
	}
}

func Lap(driver string, num int, secs float64) model.Lap {
	return model.Lap{
		Driver: driver,
		Number: null.From(num),
		Time:   null.From(Seconds(secs)),
	}
}

func Seconds(secs float64) time.Duration {
	return time.Duration(math.Round(secs * float64(time.Second)))
}

// LinearLaps creates laps 1..n for driver with lap time base+slope*lap
func LinearLaps(driver string, n int, base, slope float64) model.Laps {
	ret := make(model.Laps, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, Lap(driver, i, base+slope*float64(i)))
	}
	return ret
}

// SampleRaceLaps contains two drivers with a handful of laps each.
// VER: 1 slow opening lap, pit in on lap 4. LEC: laps 91..93s.
func SampleRaceLaps() model.Laps {
	ver := model.Laps{
		Lap("VER", 1, 99.0),
		Lap("VER", 2, 95.0),
		Lap("VER", 3, 94.0),
		Lap("VER", 4, 95.5),
		Lap("VER", 5, 93.5),
	}
	ver[3].PitIn = true
	lec := model.Laps{
		Lap("LEC", 1, 93.0),
		Lap("LEC", 2, 92.0),
		Lap("LEC", 3, 91.0),
	}
	return append(ver, lec...)
}

func SampleResults() []model.ResultRow {
	return []model.ResultRow{
		{
			Position:     null.From(2.0),
			Abbreviation: null.From("LEC"),
			TeamName:     null.From("Ferrari"),
			Time:         null.From(Seconds(5615.5)),
		},
		{
			Position:     null.From(1.0),
			Abbreviation: null.From("VER"),
			TeamName:     null.From("Red Bull Racing"),
			Time:         null.From(Seconds(5606.736)),
		},
	}
}

// SampleTelemetry returns a square shaped lap of 4 samples per lap
func SampleTelemetry() session.TelemetryFunc {
	return func(_ context.Context, lap model.Lap) ([]model.TelemetrySample, error) {
		if lap.Driver == "" {
			return nil, fmt.Errorf("no driver")
		}
		return []model.TelemetrySample{
			{Distance: 0, Speed: 280, X: 0, Y: 0},
			{Distance: 100, Speed: 300, X: 100, Y: 0},
			{Distance: 200, Speed: 150, X: 100, Y: 100},
			{Distance: 300, Speed: 200, X: 0, Y: 100},
		}, nil
	}
}

func SampleRaceSession() session.Session {
	return session.NewStatic(RaceKey(),
		session.WithEventName(SampleEventName),
		session.WithLaps(SampleRaceLaps()),
		session.WithResults(SampleResults()),
		session.WithTelemetrySource(SampleTelemetry()),
	)
}

func SampleQualifyingSession() session.Session {
	return session.NewStatic(QualifyingKey(),
		session.WithEventName(SampleEventName),
		session.WithLaps(model.Laps{Lap("VER", 1, 90.5), Lap("LEC", 1, 90.1)}),
		session.WithTelemetrySource(SampleTelemetry()),
	)
}

// Provider is an in-memory session provider keyed by year, track and type.
type Provider struct {
	Sessions map[model.SessionKey]session.Session
	Err      error
}

func NewProvider(sessions ...session.Session) *Provider {
	ret := &Provider{Sessions: map[model.SessionKey]session.Session{}}
	for _, s := range sessions {
		ret.Sessions[s.Key()] = s
	}
	return ret
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) LoadSession(
	ctx context.Context,
	year int,
	track string,
	sessionType model.SessionType,
) (session.Session, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	key := model.SessionKey{Year: year, Track: track, Type: sessionType}
	if s, ok := p.Sessions[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, key)
}
