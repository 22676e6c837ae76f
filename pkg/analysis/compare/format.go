package compare

import (
	"fmt"
	"time"
)

// lapTimeLength is the number of characters kept of a formatted lap time
// ("00:01:32.3" for 1:32.345)
const lapTimeLength = 10

// formatClock renders d as HH:MM:SS with an optional fraction.
// Whole days are dropped, only the time of day part is kept.
// The fraction has 6 digits, 9 digits if there are sub microsecond values.
func formatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d %= 24 * time.Hour
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	frac := d % time.Second
	ret := fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
	switch {
	case frac == 0:
		return ret
	case frac%time.Microsecond == 0:
		return fmt.Sprintf("%s.%06d", ret, frac/time.Microsecond)
	default:
		return fmt.Sprintf("%s.%09d", ret, frac)
	}
}

// formatLapTime is formatClock cut to lapTimeLength characters
func formatLapTime(d time.Duration) string {
	ret := formatClock(d)
	if len(ret) > lapTimeLength {
		return ret[:lapTimeLength]
	}
	return ret
}
