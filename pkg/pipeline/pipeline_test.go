package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/markers"
	"github.com/vinscope/vinscope/pkg/report"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/vin"
)

type fakeDecoder struct {
	facts  decode.Facts
	err    error
	called []string
}

func (d *fakeDecoder) Decode(ctx context.Context, vin string) (decode.Facts, error) {
	d.called = append(d.called, vin)
	return d.facts, d.err
}

type fakeSearcher struct {
	hits   []search.Hit
	err    error
	called []string
}

func (s *fakeSearcher) Search(ctx context.Context, query string) ([]search.Hit, error) {
	s.called = append(s.called, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.hits, nil
}

type fakeSummarizer struct {
	text     string
	err      error
	payloads []report.Payload
}

func (s *fakeSummarizer) Summarize(ctx context.Context, payload report.Payload) (string, error) {
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func newTestPipeline(d *fakeDecoder, s *fakeSearcher, sum *fakeSummarizer) *Pipeline {
	return New(d, s, sum, zerolog.Nop())
}

func TestRunVINEndToEnd(t *testing.T) {
	decoder := &fakeDecoder{facts: decode.Facts{Make: "VOLKSWAGEN", Model: "Golf"}}
	searcher := &fakeSearcher{hits: []search.Hit{
		{Title: "Listing", Link: "https://example.com/1", Snippet: "one careful owner"},
	}}
	summarizer := &fakeSummarizer{text: "Report body."}

	agg, err := newTestPipeline(decoder, searcher, summarizer).Run(context.Background(), "WVWZZZ1JZXW000001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agg.Input == nil || agg.Input.Kind != vin.KindVIN {
		t.Fatalf("Input = %+v, want VIN classification", agg.Input)
	}
	if agg.VIN != "WVWZZZ1JZXW000001" {
		t.Errorf("VIN = %q", agg.VIN)
	}
	// European VIN: checksum reference computation says invalid.
	if agg.VINValid == nil || *agg.VINValid {
		t.Errorf("VINValid = %v, want false", agg.VINValid)
	}
	if diff := cmp.Diff([]string{"WVWZZZ1JZXW000001"}, decoder.called); diff != "" {
		t.Errorf("decoder calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"WVWZZZ1JZXW000001"}, searcher.called); diff != "" {
		t.Errorf("searcher calls mismatch (-want +got):\n%s", diff)
	}
	if agg.Facts == nil || agg.Facts.Model != "Golf" {
		t.Errorf("Facts = %+v", agg.Facts)
	}
	if agg.Report != "Report body." {
		t.Errorf("Report = %q", agg.Report)
	}
	if entry, ok := agg.Markers.Get(markers.VINChecksum); !ok || entry.OK {
		t.Errorf("vin_checksum marker = %+v, %v", entry, ok)
	}
	if len(summarizer.payloads) != 1 || summarizer.payloads[0].VIN != "WVWZZZ1JZXW000001" {
		t.Errorf("summarizer payloads = %+v", summarizer.payloads)
	}
}

func TestRunPlateSkipsDecode(t *testing.T) {
	decoder := &fakeDecoder{}
	searcher := &fakeSearcher{}
	summarizer := &fakeSummarizer{text: "Plate report."}

	agg, err := newTestPipeline(decoder, searcher, summarizer).Run(context.Background(), "AB1234CD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agg.Input.Kind != vin.KindPlate || agg.Plate != "AB1234CD" || agg.VIN != "" {
		t.Fatalf("classification = %+v plate %q vin %q", agg.Input, agg.Plate, agg.VIN)
	}
	if len(decoder.called) != 0 {
		t.Errorf("decoder must not be called for a plate, got %v", decoder.called)
	}
	// The skipped stage still patches an empty facts field.
	if agg.Facts == nil || !agg.Facts.IsZero() {
		t.Errorf("Facts = %+v, want present and empty", agg.Facts)
	}
	if diff := cmp.Diff([]string{"AB1234CD"}, searcher.called); diff != "" {
		t.Errorf("searcher calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunEmptyInput(t *testing.T) {
	decoder := &fakeDecoder{}
	searcher := &fakeSearcher{}
	summarizer := &fakeSummarizer{text: "Nothing to report."}

	agg, err := newTestPipeline(decoder, searcher, summarizer).Run(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agg.Input.Kind != vin.KindUnknown {
		t.Errorf("Kind = %v, want unknown", agg.Input.Kind)
	}
	if len(decoder.called) != 0 || len(searcher.called) != 0 {
		t.Errorf("decode/search must be skipped: %v %v", decoder.called, searcher.called)
	}
	if agg.WebHits == nil || len(agg.WebHits) != 0 {
		t.Errorf("WebHits = %#v, want present and empty", agg.WebHits)
	}
	if len(agg.Risks) != 0 {
		t.Errorf("Risks = %v, want empty", agg.Risks)
	}
	if entry, _ := agg.Markers.Get(markers.InputType); entry.OK {
		t.Errorf("input_type marker = %+v, want not ok", entry)
	}
}

func TestRunFailFastOnDecodeError(t *testing.T) {
	decoder := &fakeDecoder{err: errors.New("vpic: http 502")}
	searcher := &fakeSearcher{}
	summarizer := &fakeSummarizer{}

	agg, err := newTestPipeline(decoder, searcher, summarizer).Run(context.Background(), "1HGCM82633A004352")
	if agg != nil {
		t.Fatalf("expected no aggregate on failure, got %+v", agg)
	}

	var svcErr *ExternalServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
	if svcErr.Stage != StageVINInfo {
		t.Errorf("Stage = %q, want %q", svcErr.Stage, StageVINInfo)
	}
	if len(searcher.called) != 0 {
		t.Errorf("search must not run after decode failure, got %v", searcher.called)
	}
	if len(summarizer.payloads) != 0 {
		t.Errorf("no report may be assembled after a failed stage, got %d payloads", len(summarizer.payloads))
	}
}

func TestRunMissingSearchCredentialIsConfigError(t *testing.T) {
	searcher := &fakeSearcher{err: &search.CredentialError{Providers: []string{"serpapi"}}}

	_, err := newTestPipeline(&fakeDecoder{}, searcher, &fakeSummarizer{}).Run(context.Background(), "AB1234CD")

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Stage != StageWebSearch {
		t.Errorf("Stage = %q, want %q", cfgErr.Stage, StageWebSearch)
	}
}

func TestRunMissingSummarizerCredentialIsConfigError(t *testing.T) {
	summarizer := &fakeSummarizer{err: &report.CredentialError{}}

	_, err := newTestPipeline(&fakeDecoder{}, &fakeSearcher{}, summarizer).Run(context.Background(), "AB1234CD")

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Stage != StageReport {
		t.Errorf("Stage = %q, want %q", cfgErr.Stage, StageReport)
	}
}

func TestRunMergeIsMonotonic(t *testing.T) {
	decoder := &fakeDecoder{facts: decode.Facts{Make: "HONDA", Model: "Accord"}}
	searcher := &fakeSearcher{hits: []search.Hit{
		{Title: "Salvage lot", Link: "https://www.copart.com/x", Snippet: "salvage title"},
		{Title: "Salvage lot", Link: "https://www.iaai.com/y", Snippet: "auction record"},
	}}
	summarizer := &fakeSummarizer{text: "done"}

	agg, err := newTestPipeline(decoder, searcher, summarizer).Run(context.Background(), "1HGCM82633A004352")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Every field a stage patched is present in the final aggregate, with
	// the earliest stages' values intact.
	if agg.Input == nil || agg.Input.Kind != vin.KindVIN {
		t.Error("normalize output erased")
	}
	if agg.VIN != "1HGCM82633A004352" || agg.VINValid == nil || !*agg.VINValid {
		t.Error("checksum output erased")
	}
	if agg.Facts == nil || agg.Facts.Make != "HONDA" {
		t.Error("decode output erased")
	}
	if len(agg.WebHits) != 2 {
		t.Error("search output erased")
	}
	wantRisks := []string{"copart", "iaai", "multiple_auctions", "salvage"}
	if diff := cmp.Diff(wantRisks, agg.Risks); diff != "" {
		t.Errorf("risks mismatch (-want +got):\n%s", diff)
	}
	if agg.Markers == nil || agg.Markers.Len() == 0 {
		t.Error("marker output erased")
	}
	if agg.Report != "done" {
		t.Error("report output erased")
	}
	if agg.RunID == "" {
		t.Error("run id missing")
	}
}

func TestRunZeroHitsIsDataOutcomeNotError(t *testing.T) {
	agg, err := newTestPipeline(&fakeDecoder{}, &fakeSearcher{}, &fakeSummarizer{text: "r"}).
		Run(context.Background(), "AB1234CD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry, _ := agg.Markers.Get(markers.WebPresence); entry.OK || entry.Note != "no hits" {
		t.Errorf("web_presence = %+v, want {false, no hits}", entry)
	}
}
