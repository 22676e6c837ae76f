// Package session provides read-only access to recorded sessions.
// Adapters for concrete data sources implement Provider.
package session

import (
	"context"
	"errors"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoTelemetry     = errors.New("no telemetry for lap")
)

type (
	// Session is an immutable view on one recorded session.
	Session interface {
		Key() model.SessionKey
		EventName() string
		Laps() model.Laps
		QuickLaps() model.Laps
		FastestLap() (model.Lap, bool)
		Telemetry(ctx context.Context, lap model.Lap) ([]model.TelemetrySample, error)
		Results() []model.ResultRow
	}

	Provider interface {
		LoadSession(
			ctx context.Context,
			year int,
			track string,
			sessionType model.SessionType,
		) (Session, error)
	}

	// TelemetrySource delivers the samples of a single lap.
	TelemetrySource interface {
		LapTelemetry(ctx context.Context, lap model.Lap) ([]model.TelemetrySample, error)
	}
	TelemetryFunc func(ctx context.Context, lap model.Lap) ([]model.TelemetrySample, error)
)

func (f TelemetryFunc) LapTelemetry(
	ctx context.Context,
	lap model.Lap,
) ([]model.TelemetrySample, error) {
	return f(ctx, lap)
}
