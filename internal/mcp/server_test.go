package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/folio/internal/github"
	"github.com/ziadkadry99/folio/internal/portfolio"
)

type fakeLister struct {
	listing github.Listing
	calls   int
}

func (f *fakeLister) Projects(context.Context) github.Listing {
	f.calls++
	return f.listing
}

func liveListing() github.Listing {
	return github.Listing{
		Origin:  github.OriginLive,
		Message: "Successfully fetched 3 repositories",
		Projects: []github.Project{
			{Name: "folio", URL: "https://github.com/u/folio", Stars: 4, Tags: []string{"Go", "web"},
				LastUpdated: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Description: "Portfolio server"},
			{Name: "notebooks", Stars: 1, Tags: []string{"Python"}},
			{Name: "scripts", Tags: []string{"Shell", "go"}},
		},
	}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func call(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		tool     mcp.Tool
		wantName string
	}{
		{getProfileTool, "get_profile"},
		{listProjectsTool, "list_projects"},
		{getSkillsTool, "get_skills"},
		{getEducationTool, "get_education"},
	}

	for _, tt := range tests {
		t.Run(tt.wantName, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	src := portfolio.MustDefault()
	srv := NewServer(src, nil)
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.src != src {
		t.Error("source not set correctly")
	}
}

func TestHandleGetProfile(t *testing.T) {
	src := portfolio.MustDefault()
	srv := NewServer(src, nil)

	res := call(t, srv.handleGetProfile, nil)
	if res.IsError {
		t.Fatalf("unexpected tool error: %v", res.Content)
	}
	text := textOf(t, res)
	if !strings.Contains(text, src.Profile().Name) {
		t.Errorf("profile missing name %q:\n%s", src.Profile().Name, text)
	}
	if !strings.Contains(text, src.Profile().Email) {
		t.Errorf("profile missing email:\n%s", text)
	}
}

func TestHandleListProjects(t *testing.T) {
	t.Run("live listing", func(t *testing.T) {
		lister := &fakeLister{listing: liveListing()}
		srv := NewServer(portfolio.MustDefault(), lister)

		text := textOf(t, call(t, srv.handleListProjects, nil))
		if lister.calls != 1 {
			t.Errorf("expected 1 lister call, got %d", lister.calls)
		}
		if !strings.Contains(text, "Found 3 project(s) (source: live)") {
			t.Errorf("unexpected header:\n%s", text)
		}
		if !strings.Contains(text, "Updated: 2025-03-01") {
			t.Errorf("missing update date:\n%s", text)
		}
	})

	t.Run("tag filter is case-insensitive", func(t *testing.T) {
		srv := NewServer(portfolio.MustDefault(), &fakeLister{listing: liveListing()})

		text := textOf(t, call(t, srv.handleListProjects, map[string]any{"tag": "GO"}))
		if !strings.Contains(text, "Found 2 project(s)") {
			t.Errorf("expected 2 Go projects:\n%s", text)
		}
		if strings.Contains(text, "notebooks") {
			t.Errorf("Python project should be filtered out:\n%s", text)
		}
	})

	t.Run("fuzzy query", func(t *testing.T) {
		srv := NewServer(portfolio.MustDefault(), &fakeLister{listing: liveListing()})

		text := textOf(t, call(t, srv.handleListProjects, map[string]any{"query": "NTBK"}))
		if !strings.Contains(text, "Found 1 project(s)") || !strings.Contains(text, "notebooks") {
			t.Errorf("expected notebooks only:\n%s", text)
		}

		text = textOf(t, call(t, srv.handleListProjects, map[string]any{"query": "zzz"}))
		if !strings.Contains(text, `No projects match "zzz"`) {
			t.Errorf("unexpected text:\n%s", text)
		}
	})

	t.Run("limit", func(t *testing.T) {
		srv := NewServer(portfolio.MustDefault(), &fakeLister{listing: liveListing()})

		text := textOf(t, call(t, srv.handleListProjects, map[string]any{"limit": 1}))
		if !strings.Contains(text, "Found 1 project(s)") || !strings.Contains(text, "folio") {
			t.Errorf("expected only the first project:\n%s", text)
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		srv := NewServer(portfolio.MustDefault(), nil)
		if res := call(t, srv.handleListProjects, map[string]any{"limit": -2}); !res.IsError {
			t.Error("expected error for negative limit")
		}
	})

	t.Run("no match", func(t *testing.T) {
		srv := NewServer(portfolio.MustDefault(), &fakeLister{listing: liveListing()})
		text := textOf(t, call(t, srv.handleListProjects, map[string]any{"tag": "Haskell"}))
		if !strings.Contains(text, `No projects tagged "Haskell"`) {
			t.Errorf("unexpected text:\n%s", text)
		}
	})

	t.Run("bundled without lister", func(t *testing.T) {
		src := portfolio.MustDefault()
		srv := NewServer(src, nil)

		text := textOf(t, call(t, srv.handleListProjects, nil))
		if !strings.Contains(text, "source: fallback") {
			t.Errorf("expected fallback source:\n%s", text)
		}
		for _, p := range src.Projects() {
			if !strings.Contains(text, p.Name) {
				t.Errorf("missing bundled project %q", p.Name)
			}
		}
	})

	t.Run("fallback message is passed through", func(t *testing.T) {
		l := github.Listing{
			Origin:   github.OriginFallback,
			Message:  "Using fallback project data",
			Err:      errors.New("rate limited"),
			Projects: []github.Project{{Name: "saved"}},
		}
		srv := NewServer(portfolio.MustDefault(), &fakeLister{listing: l})
		text := textOf(t, call(t, srv.handleListProjects, nil))
		if !strings.Contains(text, "Using fallback project data") {
			t.Errorf("message not included:\n%s", text)
		}
	})
}

func TestHandleGetSkills(t *testing.T) {
	src := portfolio.MustDefault()
	srv := NewServer(src, nil)

	text := textOf(t, call(t, srv.handleGetSkills, nil))
	for _, g := range src.Skills() {
		if !strings.Contains(text, g.Name+":") {
			t.Errorf("missing skill group %q", g.Name)
		}
	}
}

func TestHandleGetEducation(t *testing.T) {
	src := portfolio.MustDefault()
	srv := NewServer(src, nil)

	text := textOf(t, call(t, srv.handleGetEducation, nil))
	for _, e := range src.Education() {
		if !strings.Contains(text, e.Institution) {
			t.Errorf("missing institution %q", e.Institution)
		}
	}
	if len(src.Certifications()) > 0 && !strings.Contains(text, "## Certifications") {
		t.Error("missing certifications heading")
	}
}
