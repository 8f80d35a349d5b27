// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roelfdiedericks/slackclaw/internal/logging"
	"github.com/roelfdiedericks/slackclaw/internal/tools"
)

// DefaultName is the implementation name announced to clients.
const DefaultName = "slack"

// Config holds the configuration for the MCP server.
type Config struct {
	Name    string
	Version string
}

// Server wraps an MCP server with every registry tool bound.
type Server struct {
	mcp *mcp.Server
}

// New creates a server and binds all tools from reg.
func New(cfg Config, reg *tools.Registry) *Server {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)
	reg.BindAll(srv)

	logging.L_debug("mcp: server ready", "name", cfg.Name, "version", cfg.Version, "tools", reg.Count())
	return &Server{mcp: srv}
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Handler returns a Streamable HTTP handler serving this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)
}

// RunStdio serves over stdin/stdout until the client disconnects or ctx is
// done. stdout carries protocol frames only, so logs must go to stderr.
func (s *Server) RunStdio(ctx context.Context) error {
	logging.L_info("mcp: serving on stdio")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.L_info("mcp: stdio session ended")
	return nil
}
