//nolint:funlen // ok for tests
package strategy

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

func flatBaseline(secs float64, laps int) Baseline {
	ret := Baseline{Pace: make([]float64, laps)}
	for i := range ret.Pace {
		ret.Pace[i] = secs
	}
	return ret
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name     string
		compound Compound
		stops    int
		wantMin  float64
		wantDesc string
	}{
		{"medium no stops", CompoundMedium, 0, 85.5, "No Stops"},
		{"soft no stops", CompoundSoft, 0, 85.02, "No Stops"},
		{"hard one stop", CompoundHard, 1, 86.34, "Lap 25"},
		{"soft two stops", CompoundSoft, 2, 85.76, "Lap 18, Lap 38"},
		{"unknown compound is neutral", Compound("INTERMEDIATE"), 0, 85.5, "No Stops"},
		{"lower case is not matched", Compound("soft"), 0, 85.5, "No Stops"},
		{"three stops are not scheduled", CompoundMedium, 3, 85.5, ""},
		{"negative stops", CompoundMedium, -1, 85.5, "No Stops"},
	}
	sim := NewSimulator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sim.Simulate(flatBaseline(90, 57), tt.compound, tt.stops)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMin, got.TotalTimeMin, 1e-9)
			assert.Equal(t, tt.wantDesc, got.StopRecommendation)
		})
	}
}

func TestSimulateRounding(t *testing.T) {
	sim := NewSimulator()
	b := flatBaseline(90, 57)
	b.Degradation = 0.12345
	got, err := sim.Simulate(b, CompoundMedium, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.1234, got.Degradation, 1e-12)

	b.Degradation = -0.00004
	got, err = sim.Simulate(b, CompoundMedium, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, got.Degradation, 1e-12)
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   float64
	}{
		{0.125, 2, 0.12},
		{-0.125, 2, -0.12},
		{1.005, 2, 1.0},
		{2.675, 2, 2.68},
		{85.025, 2, 85.02},
		{86.34166666666667, 2, 86.34},
		{85.75833333333334, 2, 85.76},
		{0.12345, 4, 0.1234},
		{0.12355, 4, 0.1236},
		{-0.00004, 4, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%d", tt.v, tt.places), func(t *testing.T) {
			assert.Equal(t, tt.want, round(tt.v, tt.places))
		})
	}
}

func TestSimulateDeterministic(t *testing.T) {
	sim := NewSimulator()
	b := Baseline{Pace: make([]float64, 57), Degradation: 0.031}
	for i := range b.Pace {
		b.Pace[i] = 91.2 + 0.031*float64(i+1)
	}
	first, err := sim.Simulate(b, CompoundSoft, 2)
	require.NoError(t, err)
	for range 5 {
		next, err := sim.Simulate(b, CompoundSoft, 2)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first, next))
	}
}

func TestSimulateParts(t *testing.T) {
	got, err := NewSimulator().Simulate(flatBaseline(90, 57), CompoundMedium, 2)
	require.NoError(t, err)
	want := []model.StrategyPart{
		{Type: model.StrategyPartStint, LapStart: 1, LapEnd: 18, Laps: 18, Seconds: 1620},
		{Type: model.StrategyPartPit, LapStart: 18, LapEnd: 18, Seconds: PitStopPenalty},
		{Type: model.StrategyPartStint, LapStart: 19, LapEnd: 38, Laps: 20, Seconds: 1800},
		{Type: model.StrategyPartPit, LapStart: 38, LapEnd: 38, Seconds: PitStopPenalty},
		{Type: model.StrategyPartStint, LapStart: 39, LapEnd: 57, Laps: 19, Seconds: 1710},
	}
	if diff := cmp.Diff(want, got.Parts); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}
}

func TestCalc(t *testing.T) {
	sim := NewSimulator()
	t.Run("penalty per stop", func(t *testing.T) {
		none, err := sim.Calc(flatBaseline(90, 57), CompoundMedium, 0)
		require.NoError(t, err)
		two, err := sim.Calc(flatBaseline(90, 57), CompoundMedium, 2)
		require.NoError(t, err)
		assert.InDelta(t, 2*PitStopPenalty, two.TotalSeconds-none.TotalSeconds, 1e-9)
	})
	t.Run("compound offset per lap", func(t *testing.T) {
		b := Baseline{Pace: make([]float64, 57)}
		for i := range b.Pace {
			b.Pace[i] = 91.2 + 0.031*float64(i+1)
		}
		for _, stops := range []int{0, 1, 2} {
			neutral, err := sim.Calc(b, CompoundMedium, stops)
			require.NoError(t, err)
			soft, err := sim.Calc(b, CompoundSoft, stops)
			require.NoError(t, err)
			hard, err := sim.Calc(b, CompoundHard, stops)
			require.NoError(t, err)
			assert.InDelta(t, -57*0.5, soft.TotalSeconds-neutral.TotalSeconds, 1e-9)
			assert.InDelta(t, 57*0.5, hard.TotalSeconds-neutral.TotalSeconds, 1e-9)
		}
	})
	t.Run("stop beyond baseline", func(t *testing.T) {
		res, err := sim.Calc(flatBaseline(90, 20), CompoundMedium, 1)
		require.NoError(t, err)
		assert.InDelta(t, 1800.0, res.TotalSeconds, 1e-9)
		require.Len(t, res.Parts, 1)
		assert.Equal(t, 20, res.Parts[0].(StintPart).Laps())
	})
	t.Run("stop on last lap", func(t *testing.T) {
		res, err := sim.Calc(flatBaseline(90, 25), CompoundMedium, 1)
		require.NoError(t, err)
		require.Len(t, res.Parts, 2)
		assert.Equal(t, PartTypePit, res.Parts[1].Type())
		assert.Equal(t, "Pit lap 25: 22s", res.Parts[1].Output())
	})
	t.Run("unscheduled", func(t *testing.T) {
		res, err := sim.Calc(flatBaseline(90, 57), CompoundMedium, 5)
		require.NoError(t, err)
		assert.True(t, res.Schedule.Unscheduled)
		assert.Empty(t, res.Schedule.Laps)
	})
}

func TestCalcErrors(t *testing.T) {
	sim := NewSimulator()
	_, err := sim.Calc(Baseline{}, CompoundSoft, 1)
	assert.ErrorIs(t, err, analysis.ErrInsufficientData)

	b := flatBaseline(90, 57)
	b.Pace[10] = math.NaN()
	_, err = sim.Calc(b, CompoundSoft, 1)
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)

	b = flatBaseline(90, 57)
	b.Degradation = math.Inf(1)
	_, err = sim.Simulate(b, CompoundSoft, 1)
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)
}

func TestScheduleFor(t *testing.T) {
	tests := []struct {
		stops           int
		wantLaps        []int
		wantUnscheduled bool
	}{
		{0, []int{}, false},
		{1, []int{25}, false},
		{2, []int{18, 38}, false},
		{3, nil, true},
		{-2, nil, false},
	}
	for _, tt := range tests {
		got := ScheduleFor(tt.stops)
		assert.Equal(t, tt.wantLaps, got.Laps, "stops %d", tt.stops)
		assert.Equal(t, tt.wantUnscheduled, got.Unscheduled, "stops %d", tt.stops)
	}
}

func TestParseStops(t *testing.T) {
	got, err := ParseStops(" 2 ")
	require.NoError(t, err)
	assert.Equal(t, 2, got)

	_, err = ParseStops("two")
	assert.ErrorIs(t, err, analysis.ErrInvalidInput)
}

func TestCompoundOffset(t *testing.T) {
	assert.InDelta(t, -0.5, CompoundSoft.Offset(), 0)
	assert.InDelta(t, 0.0, CompoundMedium.Offset(), 0)
	assert.InDelta(t, 0.5, CompoundHard.Offset(), 0)
}
