// Package strategy simulates the total race time for a tire compound and a
// number of pit stops on top of a baseline pace curve.
package strategy

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

type (
	// Baseline is the predicted lap time (seconds) per lap, entry i is lap i+1.
	Baseline struct {
		Pace        []float64
		Degradation float64
	}
	Result struct {
		TotalSeconds float64
		Schedule     Schedule
		Parts        []Part
	}
	Option    func(*Simulator)
	Simulator struct {
		log *log.Logger
	}
)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) {
		s.log = l
	}
}

func NewSimulator(opts ...Option) *Simulator {
	ret := &Simulator{log: log.Default().Named("analysis.strategy")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Calc simulates the race lap by lap.
// Each lap takes baseline + compound offset, a stop lap gets PitStopPenalty on top.
//
//nolint:funlen // readability
func (s *Simulator) Calc(b Baseline, compound Compound, stops int) (*Result, error) {
	if len(b.Pace) == 0 {
		return nil, fmt.Errorf("%w: empty baseline", analysis.ErrInsufficientData)
	}
	schedule := ScheduleFor(stops)
	offset := compound.Offset()
	parts := make([]Part, 0)
	total := 0.0
	cur := &stintPart{lapStart: 1}
	for i, lapTime := range b.Pace {
		lapNum := i + 1
		if math.IsNaN(lapTime) || math.IsInf(lapTime, 0) {
			return nil, fmt.Errorf("%w: baseline value for lap %d is %v",
				analysis.ErrInvalidInput, lapNum, lapTime)
		}
		adjusted := lapTime + offset
		cur.stintTime += adjusted
		if schedule.IsStopLap(lapNum) {
			adjusted += PitStopPenalty
		}
		total += adjusted

		if schedule.IsStopLap(lapNum) {
			cur.lapEnd = lapNum
			cur.laps = lapNum - cur.lapStart + 1
			parts = append(parts, cur, &pitPart{lap: lapNum, pitTime: PitStopPenalty})
			cur = &stintPart{lapStart: lapNum + 1}
		}
	}
	if cur.lapStart <= len(b.Pace) {
		cur.lapEnd = len(b.Pace)
		cur.laps = cur.lapEnd - cur.lapStart + 1
		parts = append(parts, cur)
	}
	if schedule.Unscheduled {
		s.log.Debug("no stop laps known for stop count, simulating without stops",
			log.Int("stops", stops))
	}
	return &Result{TotalSeconds: total, Schedule: schedule, Parts: parts}, nil
}

// Simulate produces the prediction as delivered to the consumers.
// The total time is reported in minutes rounded to 2 decimals, the
// degradation rounded to 4 decimals.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Simulator) Simulate(
	b Baseline,
	compound Compound,
	stops int,
) (*model.StrategyPrediction, error) {
	if math.IsNaN(b.Degradation) || math.IsInf(b.Degradation, 0) {
		return nil, fmt.Errorf("%w: degradation is %v", analysis.ErrInvalidInput, b.Degradation)
	}
	res, err := s.Calc(b, compound, stops)
	if err != nil {
		return nil, err
	}
	for i, p := range res.Parts {
		s.log.Debug("part", log.Int("i", i), log.String("output", p.Output()))
	}
	return &model.StrategyPrediction{
		TotalTimeMin:       round(res.TotalSeconds/60, 2),
		Degradation:        round(b.Degradation, 4),
		StopRecommendation: res.Schedule.Description(),
		Parts:              toModelParts(res.Parts),
	}, nil
}

// round scales the binary value first and rounds half to even, so 0.125 gives
// 0.12 and 1.005 (stored as 1.00499..) gives 1.0.
func round(v float64, places int32) float64 {
	scaled := v * math.Pow10(int(places))
	return decimal.NewFromFloat(scaled).RoundBank(0).Shift(-places).InexactFloat64()
}
