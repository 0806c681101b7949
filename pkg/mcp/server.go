// Package mcp exposes the enrichment pipeline as a Model Context Protocol
// tool over stdio, so agent frontends can run lookups directly.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/vinscope/vinscope/pkg/markers"
	"github.com/vinscope/vinscope/pkg/pipeline"
	"github.com/vinscope/vinscope/pkg/search"
)

// Server wraps the MCP SDK server around one pipeline instance.
type Server struct {
	MCPServer *sdkmcp.Server

	pipe *pipeline.Pipeline
	log  zerolog.Logger
}

// NewServer builds an MCP server exposing the lookup_vehicle tool.
func NewServer(pipe *pipeline.Pipeline, version string, log zerolog.Logger) *Server {
	s := &Server{
		pipe: pipe,
		log:  log.With().Str("component", "mcp").Logger(),
	}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "vinscope", Version: version},
		nil,
	)
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "lookup_vehicle",
		Description: "Enrich a VIN or license plate into an intelligence report: decoded facts, web evidence, risk flags, quality markers and a narrative summary.",
	}, s.handleLookup)
	return s
}

// Run serves the MCP protocol over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

type lookupInput struct {
	Identifier string `json:"identifier" jsonschema:"VIN or license plate to enrich"`
}

type lookupOutput struct {
	RunID      string                   `json:"run_id"`
	Kind       string                   `json:"kind"`
	VIN        string                   `json:"vin,omitempty"`
	Plate      string                   `json:"plate,omitempty"`
	ChecksumOK *bool                    `json:"vin_checksum_ok,omitempty"`
	Facts      map[string]string        `json:"facts,omitempty"`
	Markers    map[string]markers.Entry `json:"markers"`
	Risks      []string                 `json:"risks"`
	WebHits    []search.Hit             `json:"web_hits"`
	Report     string                   `json:"report,omitempty"`
}

func (s *Server) handleLookup(ctx context.Context, _ *sdkmcp.CallToolRequest, input lookupInput) (*sdkmcp.CallToolResult, lookupOutput, error) {
	if input.Identifier == "" {
		return nil, lookupOutput{}, &pipeline.UsageError{}
	}
	s.log.Info().Str("identifier", input.Identifier).Msg("lookup requested")
	agg, err := s.pipe.Run(ctx, input.Identifier)
	if err != nil {
		return nil, lookupOutput{}, fmt.Errorf("lookup failed: %w", err)
	}

	out := lookupOutput{
		RunID:   agg.RunID,
		Kind:    string(agg.Input.Kind),
		VIN:     agg.VIN,
		Plate:   agg.Plate,
		Markers: make(map[string]markers.Entry, agg.Markers.Len()),
		Risks:   agg.Risks,
		WebHits: agg.WebHits,
		Report:  agg.Report,
	}
	if agg.VINValid != nil {
		out.ChecksumOK = agg.VINValid
	}
	if agg.Facts != nil {
		out.Facts = agg.Facts.Fields()
	}
	for _, name := range agg.Markers.Names() {
		entry, _ := agg.Markers.Get(name)
		out.Markers[name] = entry
	}
	return nil, out, nil
}
