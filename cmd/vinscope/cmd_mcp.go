package main

import (
	"github.com/spf13/cobra"

	"github.com/vinscope/vinscope/pkg/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the lookup pipeline as an MCP tool over stdio",
	Long: "Starts a Model Context Protocol server on stdin/stdout exposing the\n" +
		"lookup_vehicle tool, for use from agent frontends.",
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	_, log, pipe, err := setup()
	if err != nil {
		return err
	}

	srv := mcp.NewServer(pipe, version, log)
	log.Info().Msg("serving MCP over stdio")
	return srv.Run(cmd.Context())
}
