package model

const NotAvailable = "N/A"

// StrategyPrediction is the outcome of a simulated race under a given
// compound and number of stops.
//
//nolint:tagliatelle // front end expects snake case
type StrategyPrediction struct {
	TotalTimeMin       float64        `json:"total_time_min"`
	Degradation        float64        `json:"degradation"`
	StopRecommendation string         `json:"stop_recommendation"`
	Parts              []StrategyPart `json:"parts,omitempty"`
}

type StrategyPartType string

const (
	StrategyPartStint StrategyPartType = "stint"
	StrategyPartPit   StrategyPartType = "pit"
)

// StrategyPart describes either a stint (LapStart..LapEnd) or a pit stop
// taken at the end of lap LapEnd.
//
//nolint:tagliatelle // front end expects snake case
type StrategyPart struct {
	Type     StrategyPartType `json:"type"`
	LapStart int              `json:"lap_start"`
	LapEnd   int              `json:"lap_end"`
	Laps     int              `json:"laps"`
	Seconds  float64          `json:"seconds"`
}

//nolint:tagliatelle // front end expects snake case
type TelemetryComparison struct {
	RaceName      string           `json:"race_name"`
	PaceData      []PaceSeries     `json:"pace_data"`
	TelemetryData []TelemetryTrace `json:"telemetry_data"`
	WinnerInfo    WinnerInfo       `json:"winner_info"`
}

// PaceSeries holds lap numbers (X) and lap times in seconds (Y) of a driver
type PaceSeries struct {
	Driver string    `json:"driver"`
	X      []int     `json:"x"`
	Y      []float64 `json:"y"`
}

//nolint:tagliatelle // front end expects snake case
type TelemetryTrace struct {
	Driver   string    `json:"driver"`
	Distance []float64 `json:"distance"`
	Speed    []float64 `json:"speed"`
	LapTime  string    `json:"lap_time"`
}

type WinnerInfo struct {
	Name string `json:"name"`
	Team string `json:"team"`
	Time string `json:"time"`
}

// UnavailableWinner is used when the winner can't be determined from the results
func UnavailableWinner() WinnerInfo {
	return WinnerInfo{Name: NotAvailable, Team: NotAvailable, Time: NotAvailable}
}

func (w WinnerInfo) Available() bool {
	return w != UnavailableWinner()
}

type CircuitLayout struct {
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Name string    `json:"name"`
}
