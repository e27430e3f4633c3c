// Package mcp exposes the portfolio to AI assistants over the Model Context
// Protocol.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/folio/internal/github"
	"github.com/ziadkadry99/folio/internal/portfolio"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ProjectLister produces the live project listing.
type ProjectLister interface {
	Projects(ctx context.Context) github.Listing
}

// Server wraps an MCP server that answers questions about the portfolio.
type Server struct {
	src      *portfolio.Source
	projects ProjectLister
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server. projects may be nil, in which case the
// bundled project list is served.
func NewServer(src *portfolio.Source, projects ProjectLister) *Server {
	s := &Server{
		src:      src,
		projects: projects,
	}

	s.mcp = server.NewMCPServer(
		"folio",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(getProfileTool, s.handleGetProfile)
	s.mcp.AddTool(listProjectsTool, s.handleListProjects)
	s.mcp.AddTool(getSkillsTool, s.handleGetSkills)
	s.mcp.AddTool(getEducationTool, s.handleGetEducation)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
