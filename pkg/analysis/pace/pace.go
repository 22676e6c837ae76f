// Package pace fits a linear lap time model (lap time as a function of lap number).
package pace

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

const (
	// RaceLaps is the race distance used for baseline pace curves
	RaceLaps = 57
	// MinLaps is the minimum number of laps needed for a fit
	MinLaps = 2
)

// Model is the fitted line laptime = Intercept + Slope * lapNumber (seconds).
// The slope is the degradation per lap.
type Model struct {
	Slope     float64
	Intercept float64
	MinLap    int // lowest lap number used for the fit
	MaxLap    int // highest lap number used for the fit
	Samples   int
}

// FitSession fits the model from the quick laps of the session
func FitSession(s session.Session) (*Model, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no session", analysis.ErrDataUnavailable)
	}
	return Fit(s.QuickLaps())
}

// Fit computes an ordinary least squares fit of lap time (seconds) against
// lap number. Laps missing either value are ignored.
func Fit(laps model.Laps) (*Model, error) {
	work := laps.DropIncomplete()
	if len(work) < MinLaps {
		return nil, fmt.Errorf("%w: need at least %d laps with lap number and time, got %d",
			analysis.ErrInsufficientData, MinLaps, len(work))
	}
	xs := make([]float64, len(work))
	ys := make([]float64, len(work))
	for i, l := range work {
		xs[i] = float64(l.Number.MustGet())
		ys[i] = l.Time.MustGet().Seconds()
	}
	var intercept, slope float64
	if stat.Variance(xs, nil) == 0 {
		// all laps share one lap number, the best line is flat through the mean
		intercept = stat.Mean(ys, nil)
	} else {
		intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	}
	if !isFinite(slope) || !isFinite(intercept) {
		return nil, fmt.Errorf("%w: lap times do not allow a fit (slope=%v)",
			analysis.ErrInsufficientData, slope)
	}
	return &Model{
		Slope:     slope,
		Intercept: intercept,
		MinLap:    int(lo.Min(xs)),
		MaxLap:    int(lo.Max(xs)),
		Samples:   len(work),
	}, nil
}

// Predict returns the modeled lap time in seconds for lap number lap
func (m *Model) Predict(lap int) float64 {
	return m.Intercept + m.Slope*float64(lap)
}

// Curve returns the predicted lap times for laps 1..laps.
// Entry i holds the prediction for lap i+1.
func (m *Model) Curve(laps int) []float64 {
	ret := make([]float64, laps)
	for i := range ret {
		ret[i] = m.Predict(i + 1)
	}
	return ret
}

// Baseline returns the pace curve over the full race distance
func (m *Model) Baseline() []float64 {
	return m.Curve(RaceLaps)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
