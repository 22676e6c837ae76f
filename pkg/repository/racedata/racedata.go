// Package racedata stores imported sessions in postgres.
package racedata

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/stephenafamo/bob"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

var ErrSessionNotFound = errors.New("session not found")

type (
	// TelemetryKey identifies the stored telemetry of a lap
	TelemetryKey struct {
		Driver string
		Lap    int
	}
	// SessionRecord is the complete content of an imported session
	SessionRecord struct {
		Key       model.SessionKey
		EventName string
		Laps      model.Laps
		Results   []model.ResultRow
		Telemetry map[TelemetryKey][]model.TelemetrySample
	}
	SessionInfo struct {
		ID          uuid.UUID `db:"id"`
		Year        int32     `db:"year"`
		Track       string    `db:"track"`
		SessionType string    `db:"session_type"`
		EventName   string    `db:"event_name"`
		ImportedAt  time.Time `db:"imported_at"`
	}

	Repository struct {
		pool *pgxpool.Pool
		db   bob.DB
		log  *log.Logger
	}
)

func (s SessionInfo) Key() model.SessionKey {
	return model.SessionKey{
		Year:  int(s.Year),
		Track: s.Track,
		Type:  model.SessionType(s.SessionType),
	}
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
		db:   bob.NewDB(stdlib.OpenDBFromPool(pool)),
		log:  log.Default().Named("repository.racedata"),
	}
}

// Save stores rec. An already stored session with the same key is replaced.
func (r *Repository) Save(ctx context.Context, rec *SessionRecord) (uuid.UUID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			"delete from session where year=$1 and track=$2 and session_type=$3",
			rec.Key.Year, rec.Key.Track, string(rec.Key.Type)); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
insert into session (id, year, track, session_type, event_name)
values ($1, $2, $3, $4, $5)`,
			id, rec.Key.Year, rec.Key.Track, string(rec.Key.Type), rec.EventName); err != nil {
			return err
		}
		if err := copyLaps(ctx, tx, id, rec.Laps); err != nil {
			return err
		}
		if err := copyResults(ctx, tx, id, rec.Results); err != nil {
			return err
		}
		return copyTelemetry(ctx, tx, id, rec.Telemetry)
	})
	if err != nil {
		return uuid.Nil, err
	}
	r.log.Info("session stored",
		log.String("id", id.String()),
		log.String("session", rec.Key.String()),
		log.Int("laps", len(rec.Laps)),
		log.Int("telemetryLaps", len(rec.Telemetry)))
	return id, nil
}

// Delete removes a stored session with all its data
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "delete from session where id=$1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func copyLaps(ctx context.Context, tx pgx.Tx, id uuid.UUID, laps model.Laps) error {
	rows := make([][]any, 0, len(laps))
	for _, l := range laps {
		var num *int
		if n, ok := l.Number.Get(); ok {
			num = &n
		}
		var lapTime *int64
		if t, ok := l.Time.Get(); ok {
			ns := t.Nanoseconds()
			lapTime = &ns
		}
		rows = append(rows, []any{id, l.Driver, num, lapTime, l.PitIn, l.PitOut, l.SafetyCar})
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"lap"},
		[]string{"session_id", "driver", "lap_number", "lap_time_ns", "pit_in", "pit_out", "safety_car"},
		pgx.CopyFromRows(rows))
	return err
}

//nolint:whitespace // can't make both editor and linter happy
func copyResults(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	results []model.ResultRow,
) error {
	rows := make([][]any, 0, len(results))
	for _, res := range results {
		var raceTime *int64
		if t, ok := res.Time.Get(); ok {
			ns := t.Nanoseconds()
			raceTime = &ns
		}
		rows = append(rows, []any{
			id,
			res.Position.Ptr(),
			res.Abbreviation.Ptr(),
			res.TeamName.Ptr(),
			raceTime,
		})
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"result"},
		[]string{"session_id", "position", "abbreviation", "team_name", "race_time_ns"},
		pgx.CopyFromRows(rows))
	return err
}

//nolint:whitespace // can't make both editor and linter happy
func copyTelemetry(
	ctx context.Context,
	tx pgx.Tx,
	id uuid.UUID,
	telemetry map[TelemetryKey][]model.TelemetrySample,
) error {
	rows := [][]any{}
	for k, samples := range telemetry {
		for i, s := range samples {
			rows = append(rows, []any{id, k.Driver, k.Lap, i, s.Distance, s.Speed, s.X, s.Y})
		}
	}
	_, err := tx.CopyFrom(ctx, pgx.Identifier{"telemetry"},
		[]string{"session_id", "driver", "lap_number", "seq", "distance", "speed", "x", "y"},
		pgx.CopyFromRows(rows))
	return err
}
