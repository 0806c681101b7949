package pipeline

import (
	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/markers"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/vin"
)

// Aggregate is the result state threaded through one pipeline run. Fields
// accumulate monotonically: once a stage sets a field, later stages only
// add sibling fields, never erase it. The executor owns the instance;
// stages see a copy and answer with a Patch.
type Aggregate struct {
	RunID string `json:"run_id"`
	Raw   string `json:"raw_query"`

	Input    *vin.NormalizedInput `json:"input,omitempty"`
	VIN      string               `json:"vin,omitempty"`
	Plate    string               `json:"plate,omitempty"`
	VINValid *bool                `json:"vin_valid,omitempty"`
	Facts    *decode.Facts        `json:"facts,omitempty"`
	WebHits  []search.Hit         `json:"web_hits,omitempty"`
	Risks    []string             `json:"risks,omitempty"`
	Markers  *markers.Map         `json:"markers,omitempty"`
	Report   string               `json:"report,omitempty"`
}

// Patch is the partial update a stage returns. Nil fields are untouched;
// set fields replace the aggregate field the stage is responsible for. A
// stage never patches a field owned by an earlier stage.
type Patch struct {
	Input    *vin.NormalizedInput
	VIN      *string
	Plate    *string
	VINValid *bool
	Facts    *decode.Facts
	WebHits  *[]search.Hit
	Risks    *[]string
	Markers  *markers.Map
	Report   *string
}

// apply merges the patch into the aggregate, field by field.
func (a *Aggregate) apply(p Patch) {
	if p.Input != nil {
		a.Input = p.Input
	}
	if p.VIN != nil {
		a.VIN = *p.VIN
	}
	if p.Plate != nil {
		a.Plate = *p.Plate
	}
	if p.VINValid != nil {
		a.VINValid = p.VINValid
	}
	if p.Facts != nil {
		a.Facts = p.Facts
	}
	if p.WebHits != nil {
		a.WebHits = *p.WebHits
	}
	if p.Risks != nil {
		a.Risks = *p.Risks
	}
	if p.Markers != nil {
		a.Markers = p.Markers
	}
	if p.Report != nil {
		a.Report = *p.Report
	}
}
