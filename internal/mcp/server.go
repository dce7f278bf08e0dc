// ABOUTME: MCP server initialization and configuration for stufflog.
// ABOUTME: Exposes category and entry operations as tools for AI agent access.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/stufflog/internal/models"
)

// Service is the set of stufflog operations the tools call into.
type Service interface {
	Categories(ctx context.Context) ([]string, error)
	Init(ctx context.Context, category string) error
	Add(ctx context.Context, category, title string, rating int, comment string) (models.Entry, error)
	Delete(ctx context.Context, category, title string) error
	Query(ctx context.Context, category string, filter models.QueryFilter) ([]models.Entry, error)
	Search(ctx context.Context, category, term string) ([]models.Entry, error)
}

// Server wraps the MCP server with a stufflog service.
type Server struct {
	mcp             *gomcp.Server
	svc             Service
	defaultCategory string
	version         string
}

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithDefaultCategory sets the category used when a tool call omits one.
func WithDefaultCategory(category string) ServerOption {
	return func(s *Server) {
		s.defaultCategory = category
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(s *Server) {
		s.version = version
	}
}

// NewServer creates an MCP server exposing stufflog tools.
func NewServer(svc Service, opts ...ServerOption) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("stufflog service is required")
	}

	s := &Server{
		svc:     svc,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "stufflog",
			Version: s.version,
		},
		nil,
	)

	s.registerCategoryTools()
	s.registerEntryTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// category resolves the category argument of a tool call.
func (s *Server) category(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	if s.defaultCategory != "" {
		return s.defaultCategory, nil
	}
	return "", fmt.Errorf("category is required")
}
