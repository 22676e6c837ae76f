package model

// TrackInfo maps a track name as shown to users to the identifiers used by
// the data providers.
//
//nolint:tagliatelle //different structs need to be mapped
type TrackInfo struct {
	Name         string `json:"name" yaml:"name"`
	CircuitShort string `json:"circuitShortName" yaml:"circuitShortName"`
	Country      string `json:"country" yaml:"country"`
}
