// Package layout extracts the shape of a circuit from the position trace of a
// fast qualifying lap.
package layout

import (
	"context"

	"github.com/samber/lo"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

const (
	// ReferenceSeason is used for all layouts. The geometry is treated as
	// independent of the season.
	ReferenceSeason = 2023
	ReferenceType   = model.SessionTypeQualifying
)

type (
	SessionLoader interface {
		Load(ctx context.Context, year int, track string, st model.SessionType) (session.Session, bool)
	}
	Option    func(*Extractor)
	Extractor struct {
		loader SessionLoader
		season int
		log    *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// WithSeason overrides the ReferenceSeason
func WithSeason(year int) Option {
	return func(e *Extractor) {
		e.season = year
	}
}

func NewExtractor(loader SessionLoader, opts ...Option) *Extractor {
	ret := &Extractor{
		loader: loader,
		season: ReferenceSeason,
		log:    log.Default().Named("analysis.layout"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (e *Extractor) Season() int {
	return e.season
}

// Layout loads the reference qualifying of track and extracts its layout.
// The result is absent (false) if anything along the way is missing.
func (e *Extractor) Layout(ctx context.Context, track string) (*model.CircuitLayout, bool) {
	s, ok := e.loader.Load(ctx, e.season, track, ReferenceType)
	if !ok {
		return nil, false
	}
	return e.FromSession(ctx, s)
}

// FromSession extracts the position trace of the fastest lap of s
//
//nolint:whitespace // can't make both editor and linter happy
func (e *Extractor) FromSession(
	ctx context.Context,
	s session.Session,
) (*model.CircuitLayout, bool) {
	lap, ok := s.FastestLap()
	if !ok {
		e.log.Warn("Layout extraction failed: no fastest lap",
			log.String("session", s.Key().String()))
		return nil, false
	}
	samples, err := s.Telemetry(ctx, lap)
	if err != nil || len(samples) == 0 {
		e.log.Warn("Layout extraction failed: no telemetry",
			log.String("session", s.Key().String()),
			log.String("driver", lap.Driver),
			log.ErrorField(err))
		return nil, false
	}
	return &model.CircuitLayout{
		X:    lo.Map(samples, func(t model.TelemetrySample, _ int) float64 { return t.X }),
		Y:    lo.Map(samples, func(t model.TelemetrySample, _ int) float64 { return t.Y }),
		Name: s.EventName(),
	}, true
}
