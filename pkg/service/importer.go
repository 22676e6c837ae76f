package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/repository/racedata"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

type (
	SessionStore interface {
		Save(ctx context.Context, rec *racedata.SessionRecord) (uuid.UUID, error)
	}
	ImportResult struct {
		ID            uuid.UUID
		Key           model.SessionKey
		Laps          int
		TelemetryLaps int
	}
	Importer struct {
		source session.Provider
		store  SessionStore
		log    *log.Logger
	}
)

func NewImporter(source session.Provider, store SessionStore) *Importer {
	return &Importer{
		source: source,
		store:  store,
		log:    log.Default().Named("service.import"),
	}
}

// Import copies a session from the source provider into the store.
// Telemetry is copied for the fastest quick lap of every driver and the
// fastest lap of the session. Missing telemetry is skipped.
//
//nolint:whitespace // can't make both editor and linter happy
func (i *Importer) Import(
	ctx context.Context,
	year int,
	track string,
	sessionType model.SessionType,
) (*ImportResult, error) {
	s, err := i.source.LoadSession(ctx, year, track, sessionType)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %d %s %s", session.ErrSessionNotFound, year, track, sessionType)
	}
	laps := s.Laps()
	rec := &racedata.SessionRecord{
		Key:       model.SessionKey{Year: year, Track: track, Type: sessionType},
		EventName: s.EventName(),
		Laps:      laps,
		Results:   s.Results(),
		Telemetry: map[racedata.TelemetryKey][]model.TelemetrySample{},
	}
	for _, lap := range telemetryLaps(s) {
		num := lap.Number.MustGet()
		samples, err := s.Telemetry(ctx, lap)
		if err != nil {
			if !errors.Is(err, session.ErrNoTelemetry) {
				return nil, err
			}
			i.log.Warn("no telemetry",
				log.String("driver", lap.Driver), log.Int("lap", num), log.ErrorField(err))
			continue
		}
		rec.Telemetry[racedata.TelemetryKey{Driver: lap.Driver, Lap: num}] = samples
	}
	id, err := i.store.Save(ctx, rec)
	if err != nil {
		return nil, err
	}
	return &ImportResult{
		ID:            id,
		Key:           rec.Key,
		Laps:          len(laps),
		TelemetryLaps: len(rec.Telemetry),
	}, nil
}

// telemetryLaps collects the laps whose telemetry is needed by the analysis
func telemetryLaps(s session.Session) model.Laps {
	all := s.Laps()
	ret := model.Laps{}
	for _, d := range all.Drivers() {
		if lap, ok := all.PickDriver(d).PickQuickLaps().PickFastest(); ok {
			ret = append(ret, lap)
		}
	}
	if lap, ok := s.FastestLap(); ok {
		ret = append(ret, lap)
	}
	return lo.UniqBy(lo.Filter(ret, func(l model.Lap, _ int) bool { return l.Complete() }),
		func(l model.Lap) racedata.TelemetryKey {
			return racedata.TelemetryKey{Driver: l.Driver, Lap: l.Number.MustGet()}
		})
}
