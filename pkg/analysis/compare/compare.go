// Package compare builds the side by side comparison of two drivers within a race.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

// winnerPosition is the classification position of the race winner
const winnerPosition = 1.0

type (
	Option     func(*Comparator)
	Comparator struct {
		log *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(c *Comparator) {
		c.log = l
	}
}

func NewComparator(opts ...Option) *Comparator {
	ret := &Comparator{log: log.Default().Named("analysis.compare")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Compare collects pace and fastest lap telemetry of both drivers.
// Missing telemetry of a driver or a missing winner don't fail the request,
// the telemetry entry is omitted resp. the winner is reported as N/A.
//
//nolint:whitespace // can't make both editor and linter happy
func (c *Comparator) Compare(
	ctx context.Context,
	s session.Session,
	driver1, driver2 string,
) (*model.TelemetryComparison, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no session", analysis.ErrDataUnavailable)
	}
	if strings.TrimSpace(driver1) == "" || strings.TrimSpace(driver2) == "" {
		return nil, fmt.Errorf("%w: two driver codes required", analysis.ErrInvalidInput)
	}
	drivers := []string{driver1, driver2}
	all := s.Laps()
	quick := lo.Map(drivers, func(d string, _ int) model.Laps {
		return all.PickDriver(d).PickQuickLaps()
	})
	for i, laps := range quick {
		if len(laps) == 0 {
			c.log.Info("no quick laps", log.String("driver", drivers[i]))
			return nil, analysis.Diagnostic(analysis.ErrDriverDataUnavailable,
				"Driver data unavailable.")
		}
	}

	ret := &model.TelemetryComparison{
		RaceName:      s.EventName(),
		PaceData:      make([]model.PaceSeries, 0, len(drivers)),
		TelemetryData: make([]model.TelemetryTrace, 0, len(drivers)),
	}
	for i, d := range drivers {
		ret.PaceData = append(ret.PaceData, paceSeries(d, quick[i]))
	}
	for i, d := range drivers {
		fastest, ok := quick[i].PickFastest()
		if !ok {
			continue
		}
		trace, err := c.extractTrace(ctx, s, fastest, d)
		if err != nil {
			c.log.Warn("telemetry extraction failed",
				log.String("driver", d), log.ErrorField(err))
			continue
		}
		ret.TelemetryData = append(ret.TelemetryData, *trace)
	}
	ret.WinnerInfo = c.winner(s.Results())
	return ret, nil
}

func paceSeries(driver string, laps model.Laps) model.PaceSeries {
	work := laps.DropIncomplete()
	ret := model.PaceSeries{
		Driver: driver,
		X:      make([]int, len(work)),
		Y:      make([]float64, len(work)),
	}
	for i, l := range work {
		ret.X[i] = l.Number.MustGet()
		ret.Y[i] = l.Time.MustGet().Seconds()
	}
	return ret
}

//nolint:whitespace // can't make both editor and linter happy
func (c *Comparator) extractTrace(
	ctx context.Context,
	s session.Session,
	lap model.Lap,
	driver string,
) (*model.TelemetryTrace, error) {
	lapTime, ok := lap.Time.Get()
	if !ok {
		return nil, errors.New("lap has no lap time")
	}
	samples, err := s.Telemetry(ctx, lap)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, session.ErrNoTelemetry
	}
	return &model.TelemetryTrace{
		Driver:   driver,
		Distance: lo.Map(samples, func(t model.TelemetrySample, _ int) float64 { return t.Distance }),
		Speed:    lo.Map(samples, func(t model.TelemetrySample, _ int) float64 { return t.Speed }),
		LapTime:  formatLapTime(lapTime),
	}, nil
}

// winner looks up the first result row with position 1.
func (c *Comparator) winner(results []model.ResultRow) model.WinnerInfo {
	row, found := lo.Find(results, func(r model.ResultRow) bool {
		pos, ok := r.Position.Get()
		return ok && pos == winnerPosition
	})
	if !found {
		c.log.Info("Winner stats extraction failed: no driver found with position 1")
		return model.UnavailableWinner()
	}
	name, okName := row.Abbreviation.Get()
	team, okTeam := row.TeamName.Get()
	t, okTime := row.Time.Get()
	if !okName || !okTeam || !okTime {
		c.log.Info("Winner stats extraction failed: incomplete result row",
			log.Bool("name", okName), log.Bool("team", okTeam), log.Bool("time", okTime))
		return model.UnavailableWinner()
	}
	return model.WinnerInfo{Name: name, Team: team, Time: formatClock(t)}
}
