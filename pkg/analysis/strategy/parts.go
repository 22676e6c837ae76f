package strategy

import (
	"fmt"
	"time"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

type (
	PartType int
	Part     interface {
		Type() PartType
		Output() string
	}
	StintPart interface {
		Part
		Laps() int
		LapStart() int
		LapEnd() int
		StintTime() float64 // seconds
	}
	PitPart interface {
		Part
		Lap() int
		PitTime() float64 // seconds
	}
)

const (
	PartTypeStint PartType = iota
	PartTypePit
)

type (
	stintPart struct {
		laps      int
		lapStart  int
		lapEnd    int
		stintTime float64
	}
	pitPart struct {
		lap     int
		pitTime float64
	}
)

func (s stintPart) Type() PartType {
	return PartTypeStint
}

func (s stintPart) Laps() int {
	return s.laps
}

func (s stintPart) LapStart() int {
	return s.lapStart
}

func (s stintPart) LapEnd() int {
	return s.lapEnd
}

func (s stintPart) StintTime() float64 {
	return s.stintTime
}

func (s stintPart) Output() string {
	return fmt.Sprintf("%d-%d (%d): %s", s.lapStart, s.lapEnd, s.laps, toDuration(s.stintTime))
}

func (p pitPart) Type() PartType {
	return PartTypePit
}

func (p pitPart) Lap() int {
	return p.lap
}

func (p pitPart) PitTime() float64 {
	return p.pitTime
}

func (p pitPart) Output() string {
	return fmt.Sprintf("Pit lap %d: %s", p.lap, toDuration(p.pitTime))
}

func toDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}

// toModelParts converts the parts for consumers outside this package
func toModelParts(parts []Part) []model.StrategyPart {
	ret := make([]model.StrategyPart, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case StintPart:
			ret = append(ret, model.StrategyPart{
				Type:     model.StrategyPartStint,
				LapStart: v.LapStart(),
				LapEnd:   v.LapEnd(),
				Laps:     v.Laps(),
				Seconds:  v.StintTime(),
			})
		case PitPart:
			ret = append(ret, model.StrategyPart{
				Type:     model.StrategyPartPit,
				LapStart: v.Lap(),
				LapEnd:   v.Lap(),
				Seconds:  v.PitTime(),
			})
		}
	}
	return ret
}
