package session

import (
	"context"
	"slices"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

type (
	StaticOption  func(*staticSession)
	staticSession struct {
		key       model.SessionKey
		eventName string
		laps      model.Laps
		results   []model.ResultRow
		telemetry TelemetrySource
	}
)

func WithEventName(name string) StaticOption {
	return func(s *staticSession) {
		s.eventName = name
	}
}

func WithLaps(laps model.Laps) StaticOption {
	return func(s *staticSession) {
		s.laps = slices.Clone(laps)
	}
}

func WithResults(results []model.ResultRow) StaticOption {
	return func(s *staticSession) {
		s.results = slices.Clone(results)
	}
}

func WithTelemetrySource(src TelemetrySource) StaticOption {
	return func(s *staticSession) {
		s.telemetry = src
	}
}

// NewStatic creates a session from already loaded records.
// The records are copied, later changes by the caller are not visible.
func NewStatic(key model.SessionKey, opts ...StaticOption) Session {
	ret := &staticSession{key: key, laps: model.Laps{}}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *staticSession) Key() model.SessionKey {
	return s.key
}

func (s *staticSession) EventName() string {
	return s.eventName
}

func (s *staticSession) Laps() model.Laps {
	return slices.Clone(s.laps)
}

func (s *staticSession) QuickLaps() model.Laps {
	return s.laps.PickQuickLaps()
}

func (s *staticSession) FastestLap() (model.Lap, bool) {
	return s.laps.PickFastest()
}

func (s *staticSession) Results() []model.ResultRow {
	return slices.Clone(s.results)
}

//nolint:whitespace // can't make both editor and linter happy
func (s *staticSession) Telemetry(
	ctx context.Context,
	lap model.Lap,
) ([]model.TelemetrySample, error) {
	if s.telemetry == nil {
		return nil, ErrNoTelemetry
	}
	return s.telemetry.LapTelemetry(ctx, lap)
}
