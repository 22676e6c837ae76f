package racedata

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

type (
	lapRow struct {
		Driver    string `db:"driver"`
		LapNumber *int32 `db:"lap_number"`
		LapTimeNs *int64 `db:"lap_time_ns"`
		PitIn     bool   `db:"pit_in"`
		PitOut    bool   `db:"pit_out"`
		SafetyCar bool   `db:"safety_car"`
	}
	resultRow struct {
		Position     *float64 `db:"position"`
		Abbreviation *string  `db:"abbreviation"`
		TeamName     *string  `db:"team_name"`
		RaceTimeNs   *int64   `db:"race_time_ns"`
	}
	telemetryRow struct {
		Distance float64 `db:"distance"`
		Speed    float64 `db:"speed"`
		X        float64 `db:"x"`
		Y        float64 `db:"y"`
	}
)

var sessionColumns = []any{"id", "year", "track", "session_type", "event_name", "imported_at"}

// FindSession looks up a session by key. The track is compared case insensitive.
func (r *Repository) FindSession(ctx context.Context, key model.SessionKey) (*SessionInfo, error) {
	q := psql.Select(
		sm.Columns(sessionColumns...),
		sm.From("session"),
		sm.Where(psql.Quote("year").EQ(psql.Arg(key.Year))),
		sm.Where(psql.Raw("lower(track) = lower(?)", key.Track)),
		sm.Where(psql.Quote("session_type").EQ(psql.Arg(string(key.Type)))),
		sm.Limit(1),
	)
	res, err := bob.All(ctx, r.db, q, scan.StructMapper[SessionInfo]())
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrSessionNotFound
	}
	return &res[0], nil
}

// ListSessions returns all stored sessions, latest season first
func (r *Repository) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	q := psql.Select(
		sm.Columns(sessionColumns...),
		sm.From("session"),
		sm.OrderBy("year").Desc(),
		sm.OrderBy("track").Asc(),
		sm.OrderBy("session_type").Asc(),
	)
	return bob.All(ctx, r.db, q, scan.StructMapper[SessionInfo]())
}

func (r *Repository) Laps(ctx context.Context, id uuid.UUID) (model.Laps, error) {
	q := psql.Select(
		sm.Columns("driver", "lap_number", "lap_time_ns", "pit_in", "pit_out", "safety_car"),
		sm.From("lap"),
		sm.Where(psql.Quote("session_id").EQ(psql.Arg(id))),
		sm.OrderBy("driver").Asc(),
		sm.OrderBy("lap_number").Asc(),
	)
	res, err := bob.All(ctx, r.db, q, scan.StructMapper[lapRow]())
	if err != nil {
		return nil, err
	}
	return lo.Map(res, func(row lapRow, _ int) model.Lap {
		lap := model.Lap{
			Driver:    row.Driver,
			PitIn:     row.PitIn,
			PitOut:    row.PitOut,
			SafetyCar: row.SafetyCar,
		}
		if row.LapNumber != nil {
			lap.Number = null.From(int(*row.LapNumber))
		}
		if row.LapTimeNs != nil {
			lap.Time = null.From(time.Duration(*row.LapTimeNs))
		}
		return lap
	}), nil
}

func (r *Repository) Results(ctx context.Context, id uuid.UUID) ([]model.ResultRow, error) {
	q := psql.Select(
		sm.Columns("position", "abbreviation", "team_name", "race_time_ns"),
		sm.From("result"),
		sm.Where(psql.Quote("session_id").EQ(psql.Arg(id))),
		sm.OrderBy("position").Asc().NullsLast(),
	)
	res, err := bob.All(ctx, r.db, q, scan.StructMapper[resultRow]())
	if err != nil {
		return nil, err
	}
	return lo.Map(res, func(row resultRow, _ int) model.ResultRow {
		ret := model.ResultRow{
			Position:     null.FromPtr(row.Position),
			Abbreviation: null.FromPtr(row.Abbreviation),
			TeamName:     null.FromPtr(row.TeamName),
		}
		if row.RaceTimeNs != nil {
			ret.Time = null.From(time.Duration(*row.RaceTimeNs))
		}
		return ret
	}), nil
}

//nolint:whitespace // can't make both editor and linter happy
func (r *Repository) Telemetry(
	ctx context.Context,
	id uuid.UUID,
	key TelemetryKey,
) ([]model.TelemetrySample, error) {
	q := psql.Select(
		sm.Columns("distance", "speed", "x", "y"),
		sm.From("telemetry"),
		sm.Where(psql.Quote("session_id").EQ(psql.Arg(id))),
		sm.Where(psql.Quote("driver").EQ(psql.Arg(key.Driver))),
		sm.Where(psql.Quote("lap_number").EQ(psql.Arg(key.Lap))),
		sm.OrderBy("seq").Asc(),
	)
	res, err := bob.All(ctx, r.db, q, scan.StructMapper[telemetryRow]())
	if err != nil {
		return nil, err
	}
	return lo.Map(res, func(row telemetryRow, _ int) model.TelemetrySample {
		return model.TelemetrySample{Distance: row.Distance, Speed: row.Speed, X: row.X, Y: row.Y}
	}), nil
}
