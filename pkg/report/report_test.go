package report

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/markers"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/vin"
)

func TestBuildPayloadVIN(t *testing.T) {
	normalized := vin.NormalizedInput{Kind: vin.KindVIN, Value: "1HGCM82633A004352", ChecksumOK: true}
	facts := decode.Facts{Make: "HONDA", Model: "Accord"}
	m := markers.Compute(normalized, facts, nil, nil)

	payload := BuildPayload(normalized, facts, m, []string{"salvage"}, nil)

	if payload.VIN != "1HGCM82633A004352" || payload.Plate != "" {
		t.Errorf("identifiers = vin %q plate %q", payload.VIN, payload.Plate)
	}
	if payload.ChecksumOK == nil || !*payload.ChecksumOK {
		t.Errorf("ChecksumOK = %v, want true", payload.ChecksumOK)
	}
	wantFacts := map[string]string{"Make": "HONDA", "Model": "Accord"}
	if diff := cmp.Diff(wantFacts, payload.Facts); diff != "" {
		t.Errorf("facts mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildPayloadPlateOmitsChecksum(t *testing.T) {
	normalized := vin.NormalizedInput{Kind: vin.KindPlate, Value: "AB1234CD"}
	payload := BuildPayload(normalized, decode.Facts{}, markers.NewMap(), nil, nil)

	if payload.Plate != "AB1234CD" || payload.VIN != "" {
		t.Errorf("identifiers = vin %q plate %q", payload.VIN, payload.Plate)
	}
	if payload.ChecksumOK != nil {
		t.Errorf("ChecksumOK = %v, want nil for a plate", payload.ChecksumOK)
	}
}

func TestBuildPayloadCapsWebHits(t *testing.T) {
	hits := make([]search.Hit, MaxPayloadHits+5)
	for i := range hits {
		hits[i] = search.Hit{Title: fmt.Sprintf("hit %d", i), Link: fmt.Sprintf("https://example.com/%d", i)}
	}

	payload := BuildPayload(vin.NormalizedInput{Kind: vin.KindUnknown}, decode.Facts{}, markers.NewMap(), nil, hits)

	if len(payload.WebHits) != MaxPayloadHits {
		t.Fatalf("len(WebHits) = %d, want %d", len(payload.WebHits), MaxPayloadHits)
	}
	// First hits are kept, relevance order preserved.
	if payload.WebHits[0].Title != "hit 0" || payload.WebHits[MaxPayloadHits-1].Title != fmt.Sprintf("hit %d", MaxPayloadHits-1) {
		t.Errorf("unexpected hit window: first %q last %q", payload.WebHits[0].Title, payload.WebHits[MaxPayloadHits-1].Title)
	}
}

func TestPayloadJSONEmbedsMarkersInOrder(t *testing.T) {
	m := markers.NewMap()
	m.Add("input_type", true, "vin")
	m.Add("risk_flags", false, "salvage")

	body, err := Payload{Markers: m}.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !strings.Contains(body, `"input_type"`) || !strings.Contains(body, `"risk_flags"`) {
		t.Errorf("payload JSON missing markers: %s", body)
	}
	if strings.Index(body, `"input_type"`) > strings.Index(body, `"risk_flags"`) {
		t.Errorf("marker order not preserved in payload JSON: %s", body)
	}
}

func TestTrimToBudgetDropsTrailingHits(t *testing.T) {
	long := strings.Repeat("salvage auction lot with extensive description ", 40)
	payload := Payload{
		VIN: "1HGCM82633A004352",
		WebHits: []search.Hit{
			{Title: "first", Link: "https://example.com/1", Snippet: long},
			{Title: "second", Link: "https://example.com/2", Snippet: long},
			{Title: "third", Link: "https://example.com/3", Snippet: long},
		},
	}

	trimmed := TrimToBudget(payload, "gpt-4o-mini", 600, zerolog.Nop())

	if len(trimmed.WebHits) >= 3 {
		t.Fatalf("expected hits to be dropped, still have %d", len(trimmed.WebHits))
	}
	if len(trimmed.WebHits) > 0 && trimmed.WebHits[0].Title != "first" {
		t.Errorf("trimming must drop from the tail, first hit is %q", trimmed.WebHits[0].Title)
	}
	if trimmed.VIN != payload.VIN {
		t.Errorf("identifier must survive trimming")
	}
}

func TestTrimToBudgetLeavesSmallPayloadAlone(t *testing.T) {
	payload := Payload{VIN: "1HGCM82633A004352", WebHits: []search.Hit{{Title: "t", Link: "https://example.com"}}}
	trimmed := TrimToBudget(payload, "gpt-4o-mini", 6000, zerolog.Nop())
	if diff := cmp.Diff(payload, trimmed); diff != "" {
		t.Errorf("payload changed (-want +got):\n%s", diff)
	}
}

func TestSummarizeWithoutKeyReturnsCredentialError(t *testing.T) {
	client := NewOpenAIClient(&OpenAIConfig{}, zerolog.Nop())
	_, err := client.Summarize(context.Background(), Payload{VIN: "1HGCM82633A004352"})
	if _, ok := err.(*CredentialError); !ok {
		t.Fatalf("expected CredentialError, got %v", err)
	}
}
