// Package pipeline runs the fixed-order enrichment sequence that turns a
// raw vehicle identifier into an intelligence report.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/markers"
	"github.com/vinscope/vinscope/pkg/report"
	"github.com/vinscope/vinscope/pkg/risk"
	"github.com/vinscope/vinscope/pkg/search"
	"github.com/vinscope/vinscope/pkg/shared/stringutil"
	"github.com/vinscope/vinscope/pkg/vin"
)

// Stage names, in execution order. They annotate stage failures and logs.
const (
	StageNormalize = "normalize"
	StageVINInfo   = "vin_info"
	StageWebSearch = "web_search"
	StageRisks     = "risks"
	StageMarkers   = "markers"
	StageReport    = "report"
)

// Searcher looks an identifier up on the web. Hits come back in the
// provider's relevance order.
type Searcher interface {
	Search(ctx context.Context, query string) ([]search.Hit, error)
}

// Pipeline owns the stage sequence and the collaborator clients. One
// Pipeline serves many runs; each run gets its own Aggregate.
type Pipeline struct {
	decoder    decode.Decoder
	searcher   Searcher
	summarizer report.Summarizer
	log        zerolog.Logger
}

// New wires the collaborators into a pipeline.
func New(decoder decode.Decoder, searcher Searcher, summarizer report.Summarizer, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		decoder:    decoder,
		searcher:   searcher,
		summarizer: summarizer,
		log:        log.With().Str("component", "pipeline").Logger(),
	}
}

// stage is one pipeline step: it reads a copy of the aggregate and answers
// with a patch for the fields it owns.
type stage struct {
	name string
	run  func(ctx context.Context, view Aggregate) (Patch, error)
}

// Run executes the six stages in order, merging each stage's patch into
// the aggregate. The first stage error aborts the remaining stages and
// propagates, annotated with the stage name; missing decodes and empty
// search results are data outcomes, not errors.
func (p *Pipeline) Run(ctx context.Context, raw string) (*Aggregate, error) {
	agg := &Aggregate{
		RunID: xid.New().String(),
		Raw:   strings.TrimSpace(raw),
	}
	log := p.log.With().Str("run_id", agg.RunID).Logger()

	for _, st := range p.stages() {
		start := time.Now()
		patch, err := st.run(ctx, *agg)
		if err != nil {
			classified := classifyStageError(st.name, err)
			log.Error().Err(err).Str("stage", st.name).Msg("stage failed, aborting run")
			return nil, classified
		}
		agg.apply(patch)
		log.Debug().
			Str("stage", st.name).
			Dur("took", time.Since(start)).
			Msg("stage complete")
	}
	return agg, nil
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{name: StageNormalize, run: p.normalizeStage},
		{name: StageVINInfo, run: p.vinInfoStage},
		{name: StageWebSearch, run: p.webSearchStage},
		{name: StageRisks, run: p.risksStage},
		{name: StageMarkers, run: p.markersStage},
		{name: StageReport, run: p.reportStage},
	}
}

func (p *Pipeline) normalizeStage(ctx context.Context, view Aggregate) (Patch, error) {
	normalized := vin.Normalize(view.Raw)
	patch := Patch{Input: &normalized}
	switch normalized.Kind {
	case vin.KindVIN:
		patch.VIN = &normalized.Value
		checksumOK := normalized.ChecksumOK
		patch.VINValid = &checksumOK
	case vin.KindPlate:
		patch.Plate = &normalized.Value
	}
	return patch, nil
}

// vinInfoStage decodes the VIN against the registry. For plates and
// unknown input the stage is skipped but still patches empty facts so the
// aggregate keeps a stable shape.
func (p *Pipeline) vinInfoStage(ctx context.Context, view Aggregate) (Patch, error) {
	if view.Input == nil || view.Input.Kind != vin.KindVIN {
		return Patch{Facts: &decode.Facts{}}, nil
	}
	facts, err := p.decoder.Decode(ctx, view.VIN)
	if err != nil {
		return Patch{}, err
	}
	return Patch{Facts: &facts}, nil
}

// webSearchStage queries the web for the normalized value, falling back to
// the raw input when cleaning stripped everything classifiable. It is
// skipped only when no usable search term exists.
func (p *Pipeline) webSearchStage(ctx context.Context, view Aggregate) (Patch, error) {
	term := ""
	if view.Input != nil {
		term = view.Input.Value
	}
	term = stringutil.FirstNonEmpty(term, view.Raw)
	if strings.TrimSpace(term) == "" {
		empty := []search.Hit{}
		return Patch{WebHits: &empty}, nil
	}
	hits, err := p.searcher.Search(ctx, term)
	if err != nil {
		return Patch{}, err
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return Patch{WebHits: &hits}, nil
}

func (p *Pipeline) risksStage(ctx context.Context, view Aggregate) (Patch, error) {
	facts := decode.Facts{}
	if view.Facts != nil {
		facts = *view.Facts
	}
	labels := risk.Evaluate(facts, view.WebHits)
	return Patch{Risks: &labels}, nil
}

func (p *Pipeline) markersStage(ctx context.Context, view Aggregate) (Patch, error) {
	normalized := vin.NormalizedInput{Kind: vin.KindUnknown}
	if view.Input != nil {
		normalized = *view.Input
	}
	facts := decode.Facts{}
	if view.Facts != nil {
		facts = *view.Facts
	}
	return Patch{Markers: markers.Compute(normalized, facts, view.WebHits, view.Risks)}, nil
}

func (p *Pipeline) reportStage(ctx context.Context, view Aggregate) (Patch, error) {
	normalized := vin.NormalizedInput{Kind: vin.KindUnknown}
	if view.Input != nil {
		normalized = *view.Input
	}
	facts := decode.Facts{}
	if view.Facts != nil {
		facts = *view.Facts
	}
	payload := report.BuildPayload(normalized, facts, view.Markers, view.Risks, view.WebHits)
	text, err := p.summarizer.Summarize(ctx, payload)
	if err != nil {
		return Patch{}, err
	}
	return Patch{Report: &text}, nil
}
