//nolint:funlen // ok for tests
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/pitstop-service-go/pkg/analysis"
	"github.com/mpapenbr/pitstop-service-go/pkg/catalog"
	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
	"github.com/mpapenbr/pitstop-service-go/testsupport/basedata"
)

type fakeAnalyzer struct {
	strategyReq service.StrategyRequest
	err         error
	panicMsg    string
}

//nolint:whitespace // can't make both editor and linter happy
func (f *fakeAnalyzer) PredictStrategy(
	ctx context.Context,
	req service.StrategyRequest,
) (*model.StrategyPrediction, error) {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.strategyReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.StrategyPrediction{
		TotalTimeMin: 86.77, Degradation: 0.05, StopRecommendation: "Lap 25",
	}, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (f *fakeAnalyzer) CompareTelemetry(
	ctx context.Context,
	year int,
	race, d1, d2 string,
) (*model.TelemetryComparison, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.TelemetryComparison{
		RaceName:   race,
		WinnerInfo: model.UnavailableWinner(),
	}, nil
}

//nolint:whitespace // can't make both editor and linter happy
func (f *fakeAnalyzer) CircuitLayout(
	ctx context.Context,
	track string,
) (*model.CircuitLayout, bool) {
	if track != basedata.SampleTrack {
		return nil, false
	}
	return &model.CircuitLayout{X: []float64{1}, Y: []float64{2}, Name: "Bahrain Grand Prix"}, true
}

func doGet(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var ret T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ret))
	return ret
}

func TestStrategyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "ok",
			target:     "/api/v1/strategy?track=Bahrain&compound=SOFT&stops=1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown track",
			target:     "/api/v1/strategy?track=Atlantis&compound=SOFT",
			wantStatus: http.StatusBadRequest,
			wantError:  "Unknown track.",
		},
		{
			name:       "missing compound",
			target:     "/api/v1/strategy?track=Bahrain",
			wantStatus: http.StatusBadRequest,
			wantError:  "Compound is required.",
		},
		{
			name:       "stops not a number",
			target:     "/api/v1/strategy?track=Bahrain&compound=SOFT&stops=x",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown season",
			target:     "/api/v1/strategy?track=Bahrain&compound=SOFT&year=1950",
			wantStatus: http.StatusBadRequest,
			wantError:  "Unknown season.",
		},
		{
			name:   "no data",
			target: "/api/v1/strategy?track=Bahrain&compound=SOFT",
			err: analysis.Diagnostic(analysis.ErrDataUnavailable,
				"Historical data unavailable for this track."),
			wantStatus: http.StatusNotFound,
			wantError:  "Historical data unavailable for this track.",
		},
		{
			name:       "insufficient data",
			target:     "/api/v1/strategy?track=Bahrain&compound=SOFT",
			err:        analysis.ErrInsufficientData,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "internal error is hidden",
			target:     "/api/v1/strategy?track=Bahrain&compound=SOFT",
			err:        errors.New("pq: connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal error.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewServer(&fakeAnalyzer{err: tt.err}).Handler()
			rec := doGet(t, h, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decode[errorResponse](t, rec).Error)
			}
		})
	}
}

func TestStrategyRequestMapping(t *testing.T) {
	fa := &fakeAnalyzer{}
	h := NewServer(fa).Handler()
	rec := doGet(t, h, "/api/v1/strategy?track=Bahrain&compound=HARD&stops=2&year=2022")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.StrategyRequest{
		Year: 2022, Track: "Bahrain", Compound: "HARD", Stops: 2,
	}, fa.strategyReq)

	got := decode[map[string]any](t, rec)
	assert.InDelta(t, 86.77, got["total_time_min"], 1e-9)
	assert.Equal(t, "Lap 25", got["stop_recommendation"])
}

func TestTelemetryEndpoint(t *testing.T) {
	h := NewServer(&fakeAnalyzer{}).Handler()

	rec := doGet(t, h, "/api/v1/telemetry?year=2023&race=Bahrain&d1=VER&d2=LEC")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Bahrain", got["race_name"])
	assert.Equal(t, map[string]any{"name": "N/A", "team": "N/A", "time": "N/A"}, got["winner_info"])

	rec = doGet(t, h, "/api/v1/telemetry?year=2023&race=Bahrain&d1=VER&d2=XXX")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doGet(t, h, "/api/v1/telemetry?year=abc&race=Bahrain&d1=VER&d2=LEC")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h = NewServer(&fakeAnalyzer{err: analysis.Diagnostic(analysis.ErrDriverDataUnavailable,
		"Driver data unavailable.")}).Handler()
	rec = doGet(t, h, "/api/v1/telemetry?year=2023&race=Bahrain&d1=VER&d2=LEC")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Driver data unavailable.", decode[errorResponse](t, rec).Error)
}

func TestLayoutEndpoint(t *testing.T) {
	h := NewServer(&fakeAnalyzer{}).Handler()
	rec := doGet(t, h, "/api/v1/layout?track=Bahrain")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.CircuitLayout{X: []float64{1}, Y: []float64{2}, Name: "Bahrain Grand Prix"},
		decode[model.CircuitLayout](t, rec))

	rec = doGet(t, h, "/api/v1/layout?track=Monaco")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogAndHealth(t *testing.T) {
	c, err := catalog.Parse([]byte(`
years: [2023]
drivers: [VER]
tracks:
  - name: Bahrain
    circuitShortName: Sakhir
`))
	require.NoError(t, err)
	h := NewServer(&fakeAnalyzer{}, WithCatalog(c)).Handler()

	rec := doGet(t, h, "/api/v1/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[catalog.Data](t, rec)
	assert.Equal(t, []int{2023}, got.Years)
	assert.Equal(t, []string{"VER"}, got.Drivers)

	rec = doGet(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	rec = doGet(t, h, "/healthz", HeaderRequestID, "abc")
	assert.Equal(t, "abc", rec.Header().Get(HeaderRequestID))
}

func TestClientVersionGate(t *testing.T) {
	h := NewServer(&fakeAnalyzer{}, WithMinClientVersion("v1.2.0")).Handler()
	tests := []struct {
		client     string
		wantStatus int
	}{
		{"", http.StatusOK},
		{"1.2.0", http.StatusOK},
		{"v1.10.0", http.StatusOK},
		{"v1.1.9", http.StatusPreconditionFailed},
		{"garbage", http.StatusPreconditionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.client, func(t *testing.T) {
			rec := doGet(t, h, "/api/v1/layout?track=Bahrain", HeaderClient, tt.client)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPanicRecovery(t *testing.T) {
	h := NewServer(&fakeAnalyzer{panicMsg: "boom"}).Handler()
	rec := doGet(t, h, "/api/v1/strategy?track=Bahrain&compound=SOFT")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCheckClientVersion(t *testing.T) {
	assert.True(t, checkClientVersion("0.0.1", ""))
	assert.True(t, checkClientVersion("0.11.0", "0.11.0"))
	assert.False(t, checkClientVersion("0.10.5", "v0.11.0"))
}
