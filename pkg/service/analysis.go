package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis/compare"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis/layout"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis/pace"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis/strategy"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

// DefaultStrategySeason is the season used for strategy predictions
const DefaultStrategySeason = 2023

type (
	StrategyRequest struct {
		Year     int // 0 means DefaultStrategySeason
		Track    string
		Compound string
		Stops    int
	}
	AnalysisOption  func(*AnalysisService)
	AnalysisService struct {
		access     *session.Access
		simulator  *strategy.Simulator
		comparator *compare.Comparator
		layout     *layout.Extractor
		season     int
		layoutOpts []layout.Option
		tracer     trace.Tracer
		requests   metric.Int64Counter
		log        *log.Logger
	}
)

func WithStrategySeason(year int) AnalysisOption {
	return func(s *AnalysisService) {
		s.season = year
	}
}

func WithLayoutSeason(year int) AnalysisOption {
	return func(s *AnalysisService) {
		s.layoutOpts = append(s.layoutOpts, layout.WithSeason(year))
	}
}

func WithTracer(tracer trace.Tracer) AnalysisOption {
	return func(s *AnalysisService) {
		s.tracer = tracer
	}
}

func WithLogger(l *log.Logger) AnalysisOption {
	return func(s *AnalysisService) {
		s.log = l
	}
}

func NewAnalysisService(provider session.Provider, opts ...AnalysisOption) *AnalysisService {
	ret := &AnalysisService{
		season:     DefaultStrategySeason,
		log:        log.Default().Named("service.analysis"),
		simulator:  strategy.NewSimulator(),
		comparator: compare.NewComparator(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.tracer == nil {
		ret.tracer = otel.Tracer("pitstop")
	}
	ret.access = session.NewAccess(provider)
	ret.layout = layout.NewExtractor(ret.access, ret.layoutOpts...)
	var err error
	ret.requests, err = otel.Meter("pitstop").Int64Counter("pitstop.analysis.requests",
		metric.WithDescription("number of analysis requests by kind and outcome"))
	if err != nil {
		ret.log.Warn("could not create request counter", log.ErrorField(err))
	}
	return ret
}

// PredictStrategy fits the pace model of the race at the requested track and
// simulates the race with the given compound and number of stops.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *AnalysisService) PredictStrategy(
	ctx context.Context,
	req StrategyRequest,
) (ret *model.StrategyPrediction, err error) {
	year := req.Year
	if year == 0 {
		year = s.season
	}
	ctx, span := s.tracer.Start(ctx, "PredictStrategy", trace.WithAttributes(
		attribute.Int("year", year),
		attribute.String("track", req.Track),
		attribute.String("compound", req.Compound),
		attribute.Int("stops", req.Stops),
	))
	defer func() { s.finish(ctx, span, "strategy", err) }()

	sess, ok := s.access.Load(ctx, year, req.Track, model.SessionTypeRace)
	if !ok {
		return nil, analysis.Diagnostic(analysis.ErrDataUnavailable,
			"Historical data unavailable for this track.")
	}
	m, err := pace.FitSession(sess)
	if err != nil {
		s.log.Info("pace model fit failed",
			log.String("session", sess.Key().String()), log.ErrorField(err))
		return nil, err
	}
	s.log.Debug("pace model",
		log.Float64("slope", m.Slope),
		log.Float64("intercept", m.Intercept),
		log.Int("samples", m.Samples))
	return s.simulator.Simulate(
		strategy.Baseline{Pace: m.Baseline(), Degradation: m.Slope},
		strategy.Compound(req.Compound),
		req.Stops)
}

// CompareTelemetry compares pace and fastest lap telemetry of two drivers in a race
//
//nolint:whitespace // can't make both editor and linter happy
func (s *AnalysisService) CompareTelemetry(
	ctx context.Context,
	year int,
	race, driver1, driver2 string,
) (ret *model.TelemetryComparison, err error) {
	ctx, span := s.tracer.Start(ctx, "CompareTelemetry", trace.WithAttributes(
		attribute.Int("year", year),
		attribute.String("race", race),
		attribute.String("driver1", driver1),
		attribute.String("driver2", driver2),
	))
	defer func() { s.finish(ctx, span, "telemetry", err) }()

	sess, ok := s.access.Load(ctx, year, race, model.SessionTypeRace)
	if !ok {
		return nil, analysis.Diagnostic(analysis.ErrDataUnavailable,
			fmt.Sprintf("Session data not found for %s %d", race, year))
	}
	return s.comparator.Compare(ctx, sess, driver1, driver2)
}

// CircuitLayout returns the layout of track, false if it is not available
//
//nolint:whitespace // can't make both editor and linter happy
func (s *AnalysisService) CircuitLayout(
	ctx context.Context,
	track string,
) (*model.CircuitLayout, bool) {
	ctx, span := s.tracer.Start(ctx, "CircuitLayout", trace.WithAttributes(
		attribute.String("track", track),
		attribute.Int("season", s.layout.Season()),
	))
	ret, ok := s.layout.Layout(ctx, track)
	var err error
	if !ok {
		err = analysis.ErrDataUnavailable
	}
	s.finish(ctx, span, "layout", err)
	return ret, ok
}

func (s *AnalysisService) finish(ctx context.Context, span trace.Span, kind string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, analysis.ErrDataUnavailable):
		outcome = "data_unavailable"
	case errors.Is(err, analysis.ErrInsufficientData),
		errors.Is(err, analysis.ErrDriverDataUnavailable):
		outcome = "insufficient_data"
	case errors.Is(err, analysis.ErrInvalidInput):
		outcome = "invalid_input"
	default:
		outcome = "error"
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	span.End()
	if s.requests != nil {
		s.requests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("outcome", outcome)))
	}
}
