package strategy

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
)

// PitStopPenalty is the time in seconds added to a lap with a pit stop
const PitStopPenalty = 22.0

// stopLaps holds the laps after which a stop is taken, keyed by number of stops.
// There is no rule behind these values, so keep this as a lookup table.
var stopLaps = map[int][]int{
	0: {},
	1: {25},
	2: {18, 38},
}

type Compound string

const (
	CompoundSoft   Compound = "SOFT"
	CompoundMedium Compound = "MEDIUM"
	CompoundHard   Compound = "HARD"
)

// Offset returns the pace offset per lap in seconds.
// Only SOFT and HARD change the pace, everything else is neutral.
func (c Compound) Offset() float64 {
	switch c {
	case CompoundSoft:
		return -0.5
	case CompoundHard:
		return 0.5
	default:
		return 0
	}
}

// Schedule describes at which laps the pit stops are taken
type Schedule struct {
	Stops int   // requested number of stops
	Laps  []int // laps with a pit stop, ascending
	// Unscheduled is true if Stops is positive but no stop laps are known for it
	Unscheduled bool
}

// ScheduleFor returns the stop schedule for the requested number of stops.
// Counts without a table entry get no stop laps at all.
func ScheduleFor(stops int) Schedule {
	laps, ok := stopLaps[stops]
	return Schedule{
		Stops:       stops,
		Laps:        slices.Clone(laps),
		Unscheduled: !ok && stops > 0,
	}
}

func (s Schedule) IsStopLap(lap int) bool {
	return slices.Contains(s.Laps, lap)
}

// Description returns "No Stops" if no stop was requested, otherwise the stop
// laps like "Lap 18, Lap 38". Unscheduled counts yield an empty description.
func (s Schedule) Description() string {
	if s.Stops <= 0 {
		return "No Stops"
	}
	items := make([]string, len(s.Laps))
	for i, l := range s.Laps {
		items[i] = fmt.Sprintf("Lap %d", l)
	}
	return strings.Join(items, ", ")
}

// ParseStops converts the stop count as received from a request
func ParseStops(s string) (int, error) {
	ret, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: stops %q is not a number", analysis.ErrInvalidInput, s)
	}
	return ret, nil
}
