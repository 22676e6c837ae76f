package analyze

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mpapenbr/pitstop-service-go/pkg/model"
	"github.com/mpapenbr/pitstop-service-go/pkg/service"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

//nolint:whitespace // can't make both editor and linter happy
func renderStrategy(
	w io.Writer,
	req service.StrategyRequest,
	res *model.StrategyPrediction,
) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s %s, %d stop(s)", req.Track, req.Compound, req.Stops))
	t.AppendRow(table.Row{"Total time (min)", fmt.Sprintf("%.2f", res.TotalTimeMin)})
	t.AppendRow(table.Row{"Degradation (s/lap)", fmt.Sprintf("%.4f", res.Degradation)})
	t.AppendRow(table.Row{"Stops", res.StopRecommendation})
	t.Render()

	if len(res.Parts) == 0 {
		return
	}
	p := newTable(w)
	p.AppendHeader(table.Row{"Part", "Laps", "Time"})
	for _, part := range res.Parts {
		d := time.Duration(part.Seconds * float64(time.Second)).Round(time.Millisecond)
		switch part.Type {
		case model.StrategyPartStint:
			p.AppendRow(table.Row{
				"Stint",
				fmt.Sprintf("%d-%d (%d)", part.LapStart, part.LapEnd, part.Laps),
				d.String(),
			})
		case model.StrategyPartPit:
			p.AppendRow(table.Row{"Pit", fmt.Sprintf("%d", part.LapEnd), d.String()})
		}
	}
	p.Render()
}

func renderComparison(w io.Writer, res *model.TelemetryComparison) {
	t := newTable(w)
	t.SetTitle(res.RaceName)
	t.AppendHeader(table.Row{"Driver", "Quick laps", "Best (s)", "Fastest lap"})
	for _, pace := range res.PaceData {
		best := "-"
		if len(pace.Y) > 0 {
			m := pace.Y[0]
			for _, v := range pace.Y[1:] {
				m = min(m, v)
			}
			best = fmt.Sprintf("%.3f", m)
		}
		lapTime := "-"
		for _, tr := range res.TelemetryData {
			if tr.Driver == pace.Driver {
				lapTime = tr.LapTime
				break
			}
		}
		t.AppendRow(table.Row{pace.Driver, len(pace.X), best, lapTime})
	}
	if res.WinnerInfo.Available() {
		t.AppendFooter(table.Row{
			"Winner",
			res.WinnerInfo.Name,
			res.WinnerInfo.Team,
			res.WinnerInfo.Time,
		})
	} else {
		t.AppendFooter(table.Row{"Winner", "unavailable", "", ""})
	}
	t.Render()
}

func renderLayout(w io.Writer, res *model.CircuitLayout) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s (%d points)", res.Name, len(res.X)))
	t.AppendHeader(table.Row{"#", "X", "Y"})
	for i := range min(len(res.X), len(res.Y)) {
		t.AppendRow(table.Row{i, res.X[i], res.Y[i]})
	}
	t.Render()
}
