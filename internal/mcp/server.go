// Package mcp exposes the registered generators as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"tcg/internal/generator"
)

// Server holds the state for the MCP server.
type Server struct {
	registry *generator.Registry
	sdk      *mcpsdk.Server
}

// NewServer creates an MCP server whose tools run generators from registry.
func NewServer(registry *generator.Registry, version string) *Server {
	s := &Server{
		registry: registry,
		sdk: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    "tcg",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Serve runs the protocol loop over stdin/stdout until the client
// disconnects or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Msg("MCP server listening on stdio")
	return s.sdk.Run(ctx, &mcpsdk.StdioTransport{})
}
