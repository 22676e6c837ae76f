package openf1

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/opt/null"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils/cache"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils/cache/loadercache"
)

type (
	// TrackResolver maps a track name to the circuit short name used by OpenF1
	TrackResolver func(track string) string
	Option        func(*Provider)

	Provider struct {
		client   *Client
		resolve  TrackResolver
		log      *log.Logger
		sessions cache.Cache[model.SessionKey, sessionRef]
	}
	sessionRef struct {
		SessionKey int
		MeetingKey int
	}
	driverInfo struct {
		Acronym string
		Team    string
	}
	// lapWindow is the time range of a lap, used to select telemetry samples
	lapWindow struct {
		DriverNumber int
		Start        time.Time
		End          time.Time
	}
	windowKey struct {
		Driver string
		Lap    int
	}
)

func WithTrackResolver(r TrackResolver) Option {
	return func(p *Provider) {
		p.resolve = r
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Provider) {
		p.log = l
	}
}

func NewProvider(client *Client, opts ...Option) *Provider {
	ret := &Provider{
		client:  client,
		resolve: func(track string) string { return track },
		log:     log.Default().Named("provider.openf1"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.sessions = loadercache.New(
		loadercache.WithLoader[model.SessionKey, sessionRef](ret.resolveSession),
		loadercache.WithExpiration[model.SessionKey, sessionRef](time.Hour),
		loadercache.WithLogger[model.SessionKey, sessionRef](ret.log.Named("sessions")),
	)
	return ret
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) resolveSession(
	ctx context.Context,
	key model.SessionKey,
) (*sessionRef, error) {
	doc, err := p.client.fetch(ctx, "sessions",
		eq("year", key.Year),
		eq("circuit_short_name", p.resolve(key.Track)),
		eq("session_name", key.Type.Name()))
	if err != nil {
		return nil, err
	}
	for _, rec := range records(doc) {
		sk, ok1 := intField(rec, "session_key")
		mk, ok2 := intField(rec, "meeting_key")
		if ok1 && ok2 {
			return &sessionRef{SessionKey: sk, MeetingKey: mk}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, key)
}

// LoadSession loads laps, results and the event name of a session.
// Telemetry is fetched lazily per lap.
//
//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) LoadSession(
	ctx context.Context,
	year int,
	track string,
	sessionType model.SessionType,
) (session.Session, error) {
	key := model.SessionKey{Year: year, Track: track, Type: sessionType}
	start := time.Now()
	ref, err := p.sessions.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	eventName, err := p.eventName(ctx, ref.MeetingKey)
	if err != nil {
		return nil, err
	}
	drivers, err := p.drivers(ctx, ref.SessionKey)
	if err != nil {
		return nil, err
	}
	laps, windows, err := p.laps(ctx, ref.SessionKey, drivers)
	if err != nil {
		return nil, err
	}
	results, err := p.results(ctx, ref.SessionKey, drivers)
	if err != nil {
		return nil, err
	}
	p.log.Debug("session loaded",
		log.String("session", key.String()),
		log.Int("sessionKey", ref.SessionKey),
		log.Int("laps", len(laps)),
		log.Duration("duration", time.Since(start)))

	return session.NewStatic(key,
		session.WithEventName(eventName),
		session.WithLaps(laps),
		session.WithResults(results),
		session.WithTelemetrySource(&telemetrySource{
			client:     p.client,
			sessionKey: ref.SessionKey,
			windows:    windows,
		}),
	), nil
}

func (p *Provider) eventName(ctx context.Context, meetingKey int) (string, error) {
	doc, err := p.client.fetch(ctx, "meetings", eq("meeting_key", meetingKey))
	if err != nil {
		return "", err
	}
	for _, rec := range records(doc) {
		if name, ok := stringField(rec, "meeting_name"); ok {
			return name, nil
		}
	}
	return "", nil
}

func (p *Provider) drivers(ctx context.Context, sessionKey int) (map[int]driverInfo, error) {
	doc, err := p.client.fetch(ctx, "drivers", eq("session_key", sessionKey))
	if err != nil {
		return nil, err
	}
	ret := map[int]driverInfo{}
	for _, rec := range records(doc) {
		num, ok := intField(rec, "driver_number")
		if !ok {
			continue
		}
		acronym, _ := stringField(rec, "name_acronym")
		team, _ := stringField(rec, "team_name")
		ret[num] = driverInfo{Acronym: acronym, Team: team}
	}
	return ret, nil
}

func acronym(drivers map[int]driverInfo, num int) string {
	if d, ok := drivers[num]; ok && d.Acronym != "" {
		return d.Acronym
	}
	return strconv.Itoa(num)
}

//nolint:whitespace,funlen // can't make both editor and linter happy
func (p *Provider) laps(
	ctx context.Context,
	sessionKey int,
	drivers map[int]driverInfo,
) (model.Laps, map[windowKey]lapWindow, error) {
	doc, err := p.client.fetch(ctx, "laps", eq("session_key", sessionKey))
	if err != nil {
		return nil, nil, err
	}
	pitIn, err := p.pitLaps(ctx, sessionKey, drivers)
	if err != nil {
		return nil, nil, err
	}
	scLaps, err := p.safetyCarLaps(ctx, sessionKey)
	if err != nil {
		return nil, nil, err
	}

	laps := model.Laps{}
	windows := map[windowKey]lapWindow{}
	for _, rec := range records(doc) {
		num, ok := intField(rec, "driver_number")
		if !ok {
			continue
		}
		lap := model.Lap{
			Driver: acronym(drivers, num),
			PitOut: boolField(rec, "is_pit_out_lap"),
		}
		if n, ok := intField(rec, "lap_number"); ok {
			lap.Number = null.From(n)
			lap.PitIn = pitIn[windowKey{Driver: lap.Driver, Lap: n}]
			lap.SafetyCar = scLaps[n]
		}
		lapTime, hasTime := secondsField(rec, "lap_duration")
		if hasTime {
			lap.Time = null.From(lapTime)
		}
		laps = append(laps, lap)

		lapStart, hasStart := timeField(rec, "date_start")
		if hasStart && hasTime && lap.Number.IsValue() {
			windows[windowKey{Driver: lap.Driver, Lap: lap.Number.MustGet()}] = lapWindow{
				DriverNumber: num,
				Start:        lapStart,
				End:          lapStart.Add(lapTime),
			}
		}
	}
	slices.SortStableFunc(laps, func(a, b model.Lap) int {
		return cmp.Or(
			strings.Compare(a.Driver, b.Driver),
			cmp.Compare(a.Number.GetOr(0), b.Number.GetOr(0)))
	})
	return laps, windows, nil
}

// pitLaps returns the laps on which a driver entered the pit lane
//
//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) pitLaps(
	ctx context.Context,
	sessionKey int,
	drivers map[int]driverInfo,
) (map[windowKey]bool, error) {
	doc, err := p.client.fetch(ctx, "pit", eq("session_key", sessionKey))
	if err != nil {
		return nil, err
	}
	ret := map[windowKey]bool{}
	for _, rec := range records(doc) {
		num, ok1 := intField(rec, "driver_number")
		lap, ok2 := intField(rec, "lap_number")
		if ok1 && ok2 {
			ret[windowKey{Driver: acronym(drivers, num), Lap: lap}] = true
		}
	}
	return ret, nil
}

// safetyCarLaps returns the laps run at least partially under a (virtual)
// safety car, derived from race control messages.
func (p *Provider) safetyCarLaps(ctx context.Context, sessionKey int) (map[int]bool, error) {
	doc, err := p.client.fetch(ctx, "race_control",
		eq("session_key", sessionKey),
		eq("category", "SafetyCar"))
	if err != nil {
		return nil, err
	}
	type event struct {
		lap    int
		deploy bool
	}
	events := []event{}
	for _, rec := range records(doc) {
		lap, ok := intField(rec, "lap_number")
		if !ok {
			continue
		}
		msg, _ := stringField(rec, "message")
		msg = strings.ToUpper(msg)
		switch {
		case strings.Contains(msg, "DEPLOYED"):
			events = append(events, event{lap: lap, deploy: true})
		case strings.Contains(msg, "IN THIS LAP"), strings.Contains(msg, "ENDING"):
			events = append(events, event{lap: lap})
		}
	}
	ret := map[int]bool{}
	active := -1
	for _, e := range events {
		switch {
		case e.deploy && active < 0:
			active = e.lap
		case !e.deploy && active >= 0:
			for l := active; l <= e.lap; l++ {
				ret[l] = true
			}
			active = -1
		}
	}
	if active >= 0 {
		ret[active] = true
	}
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) results(
	ctx context.Context,
	sessionKey int,
	drivers map[int]driverInfo,
) ([]model.ResultRow, error) {
	doc, err := p.client.fetch(ctx, "session_result", eq("session_key", sessionKey))
	if err != nil {
		return nil, err
	}
	ret := []model.ResultRow{}
	for _, rec := range records(doc) {
		row := model.ResultRow{}
		if pos, ok := floatField(rec, "position"); ok {
			row.Position = null.From(pos)
		}
		if num, ok := intField(rec, "driver_number"); ok {
			if d, ok := drivers[num]; ok {
				if d.Acronym != "" {
					row.Abbreviation = null.From(d.Acronym)
				}
				if d.Team != "" {
					row.TeamName = null.From(d.Team)
				}
			}
		}
		if d, ok := secondsField(rec, "duration"); ok {
			row.Time = null.From(d)
		}
		ret = append(ret, row)
	}
	return ret, nil
}
