package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/vin"
)

func TestApplyOnlyTouchesSetFields(t *testing.T) {
	vinValue := "1HGCM82633A004352"
	valid := true
	agg := &Aggregate{RunID: "r1", Raw: vinValue}

	agg.apply(Patch{
		Input:    &vin.NormalizedInput{Kind: vin.KindVIN, Value: vinValue, ChecksumOK: true},
		VIN:      &vinValue,
		VINValid: &valid,
	})
	agg.apply(Patch{Facts: &decode.Facts{Make: "HONDA"}})
	hits := []search.Hit{}
	agg.apply(Patch{WebHits: &hits})

	if agg.VIN != vinValue || agg.VINValid == nil || !*agg.VINValid {
		t.Errorf("earlier patch fields lost: %+v", agg)
	}
	if agg.Facts == nil || agg.Facts.Make != "HONDA" {
		t.Errorf("Facts = %+v", agg.Facts)
	}
	if agg.WebHits == nil || len(agg.WebHits) != 0 {
		t.Errorf("WebHits = %#v, want present and empty", agg.WebHits)
	}
	if agg.Report != "" || agg.Markers != nil {
		t.Errorf("unset fields must stay zero: %+v", agg)
	}
}

func TestApplyEmptyPatchIsNoOp(t *testing.T) {
	agg := &Aggregate{RunID: "r1", Raw: "AB1234CD", Plate: "AB1234CD"}
	before := *agg
	agg.apply(Patch{})
	if diff := cmp.Diff(before, *agg); diff != "" {
		t.Errorf("empty patch changed aggregate (-before +after):\n%s", diff)
	}
}
