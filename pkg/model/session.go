package model

import (
	"fmt"
	"strings"
)

type SessionType string

const (
	SessionTypeQualifying SessionType = "Q"
	SessionTypeRace       SessionType = "R"
	SessionTypeSprint     SessionType = "S"
	SessionTypePractice1  SessionType = "FP1"
	SessionTypePractice2  SessionType = "FP2"
	SessionTypePractice3  SessionType = "FP3"
)

var sessionTypeNames = map[SessionType]string{
	SessionTypeQualifying: "Qualifying",
	SessionTypeRace:       "Race",
	SessionTypeSprint:     "Sprint",
	SessionTypePractice1:  "Practice 1",
	SessionTypePractice2:  "Practice 2",
	SessionTypePractice3:  "Practice 3",
}

// ParseSessionType accepts the short codes (Q, R, ...) as well as the
// display names (Race, Qualifying, ...), case insensitive.
func ParseSessionType(s string) (SessionType, error) {
	work := strings.TrimSpace(s)
	for k, v := range sessionTypeNames {
		if strings.EqualFold(work, string(k)) || strings.EqualFold(work, v) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown session type %q", s)
}

// Name returns the display name used by data providers (e.g. "Race")
func (s SessionType) Name() string {
	if n, ok := sessionTypeNames[s]; ok {
		return n
	}
	return string(s)
}

// SessionKey identifies a session
type SessionKey struct {
	Year  int         `json:"year"`
	Track string      `json:"track"`
	Type  SessionType `json:"type"`
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d/%s/%s", k.Year, k.Track, k.Type)
}

// TelemetrySample is a single car data sample recorded during a lap.
// Samples of a lap are ordered by distance.
type TelemetrySample struct {
	Distance float64 `json:"distance"` // meters since start of lap
	Speed    float64 `json:"speed"`    // km/h
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}
