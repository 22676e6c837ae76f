// Package dbprovider serves sessions previously imported into the database.
package dbprovider

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/repository/racedata"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
)

type (
	// Reader is the part of the racedata repository used here
	Reader interface {
		FindSession(ctx context.Context, key model.SessionKey) (*racedata.SessionInfo, error)
		Laps(ctx context.Context, id uuid.UUID) (model.Laps, error)
		Results(ctx context.Context, id uuid.UUID) ([]model.ResultRow, error)
		Telemetry(
			ctx context.Context,
			id uuid.UUID,
			key racedata.TelemetryKey,
		) ([]model.TelemetrySample, error)
	}
	Provider struct {
		repo Reader
	}
)

var _ session.Provider = (*Provider)(nil)

func New(repo Reader) *Provider {
	return &Provider{repo: repo}
}

//nolint:whitespace // can't make both editor and linter happy
func (p *Provider) LoadSession(
	ctx context.Context,
	year int,
	track string,
	sessionType model.SessionType,
) (session.Session, error) {
	key := model.SessionKey{Year: year, Track: track, Type: sessionType}
	info, err := p.repo.FindSession(ctx, key)
	if err != nil {
		if errors.Is(err, racedata.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, key)
		}
		return nil, err
	}
	laps, err := p.repo.Laps(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	results, err := p.repo.Results(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	id := info.ID
	return session.NewStatic(info.Key(),
		session.WithEventName(info.EventName),
		session.WithLaps(laps),
		session.WithResults(results),
		session.WithTelemetrySource(session.TelemetryFunc(
			func(ctx context.Context, lap model.Lap) ([]model.TelemetrySample, error) {
				num, ok := lap.Number.Get()
				if !ok {
					return nil, session.ErrNoTelemetry
				}
				samples, err := p.repo.Telemetry(ctx, id,
					racedata.TelemetryKey{Driver: lap.Driver, Lap: num})
				if err != nil {
					return nil, err
				}
				if len(samples) == 0 {
					return nil, fmt.Errorf("%w: %s lap %d not imported",
						session.ErrNoTelemetry, lap.Driver, num)
				}
				return samples, nil
			})),
	), nil
}
