package openf1

import (
	"math"
	"time"

	"github.com/ohler55/ojg/jp"
)

// records are the parsed entries of a response. Non-object entries are dropped.
func records(doc any) []map[string]any {
	list, ok := doc.([]any)
	if !ok {
		return nil
	}
	ret := make([]map[string]any, 0, len(list))
	for _, e := range list {
		if m, ok := e.(map[string]any); ok {
			ret = append(ret, m)
		}
	}
	return ret
}

func first(rec map[string]any, key string) any {
	return jp.C(key).First(rec)
}

func floatField(rec map[string]any, key string) (float64, bool) {
	switch v := first(rec, key).(type) {
	case int64:
		return float64(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func intField(rec map[string]any, key string) (int, bool) {
	switch v := first(rec, key).(type) {
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

func stringField(rec map[string]any, key string) (string, bool) {
	v, ok := first(rec, key).(string)
	return v, ok && v != ""
}

func boolField(rec map[string]any, key string) bool {
	v, _ := first(rec, key).(bool)
	return v
}

func timeField(rec map[string]any, key string) (time.Time, bool) {
	s, ok := stringField(rec, key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// secondsField reads a duration given in (fractional) seconds
func secondsField(rec map[string]any, key string) (time.Duration, bool) {
	f, ok := floatField(rec, key)
	if !ok || f < 0 {
		return 0, false
	}
	return time.Duration(math.Round(f * float64(time.Second))), true
}
