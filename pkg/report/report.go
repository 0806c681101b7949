// Package report assembles the summarization payload and turns it into an
// operator-readable narrative through an LLM collaborator.
package report

import (
	"context"
	"encoding/json"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/markers"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/vin"
)

// MaxPayloadHits caps how many web hits are embedded in the payload.
const MaxPayloadHits = 8

// Payload is the structured evidence handed to the summarization
// collaborator. The collaborator's output is stored verbatim; nothing here
// is post-processed.
type Payload struct {
	VIN        string            `json:"vin,omitempty"`
	Plate      string            `json:"plate,omitempty"`
	ChecksumOK *bool             `json:"vin_checksum_ok,omitempty"`
	Facts      map[string]string `json:"facts,omitempty"`
	Markers    *markers.Map      `json:"markers,omitempty"`
	Risks      []string          `json:"risks,omitempty"`
	WebHits    []search.Hit      `json:"web_hits,omitempty"`
}

// BuildPayload collects the aggregate's evidence into a Payload, keeping
// only the first MaxPayloadHits web hits.
func BuildPayload(normalized vin.NormalizedInput, facts decode.Facts, m *markers.Map, risks []string, hits []search.Hit) Payload {
	p := Payload{
		Facts:   facts.Fields(),
		Markers: m,
		Risks:   risks,
	}
	switch normalized.Kind {
	case vin.KindVIN:
		p.VIN = normalized.Value
		checksumOK := normalized.ChecksumOK
		p.ChecksumOK = &checksumOK
	case vin.KindPlate:
		p.Plate = normalized.Value
	}
	if len(hits) > MaxPayloadHits {
		hits = hits[:MaxPayloadHits]
	}
	p.WebHits = hits
	if len(p.Facts) == 0 {
		p.Facts = nil
	}
	return p
}

// JSON serializes the payload for embedding into the user message.
func (p Payload) JSON() (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Summarizer writes the free-text report for a payload. Its output is
// treated as opaque.
type Summarizer interface {
	Summarize(ctx context.Context, payload Payload) (string, error)
}
