package model

import (
	"time"

	"github.com/aarondl/opt/null"
)

// ResultRow is one line of the session classification.
// Every field may be missing depending on the data source.
type ResultRow struct {
	Position     null.Val[float64]       `json:"position"`
	Abbreviation null.Val[string]        `json:"abbreviation"`
	TeamName     null.Val[string]        `json:"teamName"`
	Time         null.Val[time.Duration] `json:"time"`
}
