package openf1

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

const dateLayout = "2006-01-02T15:04:05.000000Z07:00"

type (
	telemetrySource struct {
		client     *Client
		sessionKey int
		windows    map[windowKey]lapWindow
	}
	carSample struct {
		Date  time.Time
		Speed float64
	}
	posSample struct {
		Date time.Time
		X, Y float64
	}
)

//nolint:whitespace // can't make both editor and linter happy
func (t *telemetrySource) LapTelemetry(
	ctx context.Context,
	lap model.Lap,
) ([]model.TelemetrySample, error) {
	num, ok := lap.Number.Get()
	if !ok {
		return nil, fmt.Errorf("%w: lap without number", session.ErrNoTelemetry)
	}
	w, ok := t.windows[windowKey{Driver: lap.Driver, Lap: num}]
	if !ok {
		return nil, fmt.Errorf("%w: no time window for %s lap %d",
			session.ErrNoTelemetry, lap.Driver, num)
	}
	filters := []filter{
		eq("session_key", t.sessionKey),
		eq("driver_number", w.DriverNumber),
		{field: "date", op: ">=", value: w.Start.UTC().Format(dateLayout)},
		{field: "date", op: "<", value: w.End.UTC().Format(dateLayout)},
	}
	carDoc, err := t.client.fetch(ctx, "car_data", filters...)
	if err != nil {
		return nil, err
	}
	locDoc, err := t.client.fetch(ctx, "location", filters...)
	if err != nil {
		return nil, err
	}
	ret := mergeSamples(carSamples(carDoc), posSamples(locDoc))
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: %s lap %d", session.ErrNoTelemetry, lap.Driver, num)
	}
	return ret, nil
}

func carSamples(doc any) []carSample {
	ret := []carSample{}
	for _, rec := range records(doc) {
		d, ok1 := timeField(rec, "date")
		s, ok2 := floatField(rec, "speed")
		if ok1 && ok2 {
			ret = append(ret, carSample{Date: d, Speed: s})
		}
	}
	slices.SortStableFunc(ret, func(a, b carSample) int { return a.Date.Compare(b.Date) })
	return ret
}

func posSamples(doc any) []posSample {
	ret := []posSample{}
	for _, rec := range records(doc) {
		d, ok1 := timeField(rec, "date")
		x, ok2 := floatField(rec, "x")
		y, ok3 := floatField(rec, "y")
		if ok1 && ok2 && ok3 {
			ret = append(ret, posSample{Date: d, X: x, Y: y})
		}
	}
	slices.SortStableFunc(ret, func(a, b posSample) int { return a.Date.Compare(b.Date) })
	return ret
}

// mergeSamples integrates the distance from the speed (km/h) of the car
// samples and attaches the position sample closest in time.
// Without position samples x and y stay 0.
func mergeSamples(car []carSample, pos []posSample) []model.TelemetrySample {
	ret := make([]model.TelemetrySample, 0, len(car))
	dist := 0.0
	j := 0
	for i, c := range car {
		if i > 0 {
			dist += c.Speed / 3.6 * c.Date.Sub(car[i-1].Date).Seconds()
		}
		sample := model.TelemetrySample{Distance: dist, Speed: c.Speed}
		if len(pos) > 0 {
			for j+1 < len(pos) && absDuration(pos[j+1].Date.Sub(c.Date)) <= absDuration(pos[j].Date.Sub(c.Date)) {
				j++
			}
			sample.X, sample.Y = pos[j].X, pos[j].Y
		}
		ret = append(ret, sample)
	}
	return ret
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
