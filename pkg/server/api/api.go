// Package api provides the JSON endpoints used by the front end.
package api

import (
	"context"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/catalog"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderClient    = "X-Pitstop-Client"
)

type (
	// Analyzer is implemented by service.AnalysisService
	Analyzer interface {
		PredictStrategy(ctx context.Context, req service.StrategyRequest) (
			*model.StrategyPrediction, error)
		CompareTelemetry(ctx context.Context, year int, race, d1, d2 string) (
			*model.TelemetryComparison, error)
		CircuitLayout(ctx context.Context, track string) (*model.CircuitLayout, bool)
	}
	Option func(*Server)
	Server struct {
		analyzer         Analyzer
		catalog          *catalog.Catalog
		minClientVersion string
		log              *log.Logger
	}
)

func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithMinClientVersion rejects requests of front ends older than version.
// Requests without the client header are always accepted.
func WithMinClientVersion(version string) Option {
	return func(s *Server) {
		s.minClientVersion = version
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

func NewServer(analyzer Analyzer, opts ...Option) *Server {
	ret := &Server{
		analyzer: analyzer,
		catalog:  catalog.Default(),
		log:      log.Default().Named("http.api"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Handler returns the router including request id, client version check and
// panic recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.Use(s.clientVersionCheck)
	v1.HandleFunc("/catalog", s.getCatalog).Methods(http.MethodGet)
	v1.HandleFunc("/strategy", s.getStrategy).Methods(http.MethodGet)
	v1.HandleFunc("/telemetry", s.getTelemetry).Methods(http.MethodGet)
	v1.HandleFunc("/layout", s.getLayout).Methods(http.MethodGet)

	r.Use(s.requestID)
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
	)(r)
}

type recoveryLogger struct {
	l *log.Logger
}

func (r recoveryLogger) Println(args ...any) {
	r.l.Error("panic in handler", log.Any("details", args))
}
