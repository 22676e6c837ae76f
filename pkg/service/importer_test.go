package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/repository/racedata"
	"github.com/mpapenbr/pitstop-service-go/pkg/session"
	"github.com/mpapenbr/pitstop-service-go/testsupport/basedata"
)

type memStore struct {
	saved *racedata.SessionRecord
	err   error
}

func (m *memStore) Save(ctx context.Context, rec *racedata.SessionRecord) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.saved = rec
	return uuid.Must(uuid.NewV4()), nil
}

func TestImport(t *testing.T) {
	store := &memStore{}
	imp := NewImporter(basedata.NewProvider(basedata.SampleRaceSession()), store)
	res, err := imp.Import(context.Background(),
		basedata.SampleYear, basedata.SampleTrack, model.SessionTypeRace)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.ID)
	assert.Equal(t, 8, res.Laps)
	// fastest quick lap of VER (lap 5) and LEC (lap 3), LEC 3 is the session fastest
	assert.Equal(t, 2, res.TelemetryLaps)
	require.NotNil(t, store.saved)
	assert.Contains(t, store.saved.Telemetry, racedata.TelemetryKey{Driver: "VER", Lap: 5})
	assert.Contains(t, store.saved.Telemetry, racedata.TelemetryKey{Driver: "LEC", Lap: 3})
	assert.Equal(t, basedata.SampleEventName, store.saved.EventName)
	assert.Len(t, store.saved.Results, 2)
}

func TestImportWithoutTelemetry(t *testing.T) {
	s := session.NewStatic(basedata.RaceKey(), session.WithLaps(basedata.SampleRaceLaps()))
	store := &memStore{}
	imp := NewImporter(basedata.NewProvider(s), store)
	res, err := imp.Import(context.Background(),
		basedata.SampleYear, basedata.SampleTrack, model.SessionTypeRace)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TelemetryLaps)
}

func TestImportErrors(t *testing.T) {
	t.Run("unknown session", func(t *testing.T) {
		imp := NewImporter(basedata.NewProvider(), &memStore{})
		_, err := imp.Import(context.Background(), 2023, "Atlantis", model.SessionTypeRace)
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
	})
	t.Run("store fails", func(t *testing.T) {
		storeErr := errors.New("db down")
		imp := NewImporter(basedata.NewProvider(basedata.SampleRaceSession()),
			&memStore{err: storeErr})
		_, err := imp.Import(context.Background(),
			basedata.SampleYear, basedata.SampleTrack, model.SessionTypeRace)
		assert.ErrorIs(t, err, storeErr)
	})
}
