package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis/strategy"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Data())
}

func (s *Server) getStrategy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.StrategyRequest{
		Track:    strings.TrimSpace(q.Get("track")),
		Compound: strings.TrimSpace(q.Get("compound")),
	}
	if !s.catalog.ValidTrack(req.Track) {
		writeError(w, http.StatusBadRequest, "Unknown track.")
		return
	}
	if req.Compound == "" {
		writeError(w, http.StatusBadRequest, "Compound is required.")
		return
	}
	if v := q.Get("stops"); v != "" {
		stops, err := strategy.ParseStops(v)
		if err != nil {
			s.writeAnalysisError(w, r, err)
			return
		}
		req.Stops = stops
	}
	if v := q.Get("year"); v != "" {
		year, ok := s.parseYear(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown season.")
			return
		}
		req.Year = year
	}
	res, err := s.analyzer.PredictStrategy(r.Context(), req)
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getTelemetry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, ok := s.parseYear(q.Get("year"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown season.")
		return
	}
	race := strings.TrimSpace(q.Get("race"))
	if !s.catalog.ValidTrack(race) {
		writeError(w, http.StatusBadRequest, "Unknown track.")
		return
	}
	d1, d2 := q.Get("d1"), q.Get("d2")
	if !s.catalog.ValidDriver(d1) || !s.catalog.ValidDriver(d2) {
		writeError(w, http.StatusBadRequest, "Unknown driver.")
		return
	}
	res, err := s.analyzer.CompareTelemetry(r.Context(), year, race, d1, d2)
	if err != nil {
		s.writeAnalysisError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	track := strings.TrimSpace(r.URL.Query().Get("track"))
	if !s.catalog.ValidTrack(track) {
		writeError(w, http.StatusBadRequest, "Unknown track.")
		return
	}
	res, ok := s.analyzer.CircuitLayout(r.Context(), track)
	if !ok {
		writeError(w, http.StatusNotFound, "Layout unavailable.")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) parseYear(v string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return year, s.catalog.ValidYear(year)
}

// writeAnalysisError maps the analysis error classes to status codes.
// Diagnostic messages are passed to the client, anything else is hidden.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Server) writeAnalysisError(
	w http.ResponseWriter,
	r *http.Request,
	err error,
) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.GetFromContext(r.Context()).Error("request failed",
			log.String("path", r.URL.Path), log.ErrorField(err))
		msg = "Internal error."
	}
	writeError(w, status, msg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrInsufficientData),
		errors.Is(err, analysis.ErrDriverDataUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, analysis.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("could not write response", log.ErrorField(err))
	}
}
