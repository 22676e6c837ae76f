package model

import (
	"time"

	"github.com/aarondl/opt/null"
	"github.com/samber/lo"
)

// QuickLapThreshold is the factor applied to the fastest lap time of a lap set.
// Laps slower than this are not considered quick.
const QuickLapThreshold = 1.07

type Lap struct {
	Driver    string                  `json:"driver"`
	Number    null.Val[int]           `json:"lapNumber"`
	Time      null.Val[time.Duration] `json:"lapTime"`
	PitIn     bool                    `json:"pitIn"`
	PitOut    bool                    `json:"pitOut"`
	SafetyCar bool                    `json:"safetyCar"`
}

// Complete reports if both lap number and lap time are present
func (l Lap) Complete() bool {
	return l.Number.IsValue() && l.Time.IsValue()
}

type Laps []Lap

func (l Laps) PickDriver(code string) Laps {
	return lo.Filter(l, func(item Lap, _ int) bool { return item.Driver == code })
}

// PickQuickLaps returns the laps faster than QuickLapThreshold times the
// fastest lap time of this set. Pit in/out laps and laps run behind the
// safety car are never quick.
func (l Laps) PickQuickLaps() Laps {
	fastest, ok := l.PickFastest()
	if !ok {
		return Laps{}
	}
	best, _ := fastest.Time.Get()
	limit := time.Duration(float64(best) * QuickLapThreshold)
	return lo.Filter(l, func(item Lap, _ int) bool {
		if item.PitIn || item.PitOut || item.SafetyCar {
			return false
		}
		t, ok := item.Time.Get()
		return ok && t < limit
	})
}

// PickFastest returns the lap with the lowest lap time. On ties the first
// one wins. Laps without a lap time are ignored.
func (l Laps) PickFastest() (Lap, bool) {
	var ret Lap
	found := false
	var best time.Duration
	for _, item := range l {
		t, ok := item.Time.Get()
		if !ok {
			continue
		}
		if !found || t < best {
			ret, best, found = item, t, true
		}
	}
	return ret, found
}

// DropIncomplete removes laps missing the lap number or the lap time
func (l Laps) DropIncomplete() Laps {
	return lo.Filter(l, func(item Lap, _ int) bool { return item.Complete() })
}

func (l Laps) Drivers() []string {
	return lo.Uniq(lo.Map(l, func(item Lap, _ int) string { return item.Driver }))
}
