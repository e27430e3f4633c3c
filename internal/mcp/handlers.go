package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/folio/internal/github"
)

func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := s.src.Profile()

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", p.Name)
	if p.Pronouns != "" {
		fmt.Fprintf(&sb, "Pronouns: %s\n", p.Pronouns)
	}
	fmt.Fprintf(&sb, "Title: %s\n", p.Title)
	fmt.Fprintf(&sb, "Location: %s\n", p.Location)
	fmt.Fprintf(&sb, "Email: %s\n", p.Email)
	if p.Links.GitHub != "" {
		fmt.Fprintf(&sb, "GitHub: %s\n", p.Links.GitHub)
	}
	if p.Links.LinkedIn != "" {
		fmt.Fprintf(&sb, "LinkedIn: %s\n", p.Links.LinkedIn)
	}
	if p.Summary != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(p.Summary))
		sb.WriteString("\n")
	}
	if hs := s.src.Highlights(); len(hs) > 0 {
		sb.WriteString("\n## Highlights\n")
		for _, h := range hs {
			fmt.Fprintf(&sb, "- %s: %s\n", h.Title, h.Text)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// handleListProjects serves the live listing when a lister is configured.
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)
	if limit < 0 {
		return mcp.NewToolResultError("limit must not be negative"), nil
	}
	tag := strings.TrimSpace(request.GetString("tag", ""))
	query := strings.TrimSpace(request.GetString("query", ""))

	var (
		list   []github.Project
		origin = github.OriginFallback
		note   string
	)
	if s.projects != nil {
		l := s.projects.Projects(ctx)
		list, origin, note = l.Projects, l.Origin, l.Message
	} else {
		list = github.FromPortfolio(s.src.Projects())
	}

	list = rankByName(filterByTag(list, tag), query)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	if len(list) == 0 {
		if query != "" {
			return mcp.NewToolResultText(fmt.Sprintf("No projects match %q.", query)), nil
		}
		if tag != "" {
			return mcp.NewToolResultText(fmt.Sprintf("No projects tagged %q.", tag)), nil
		}
		return mcp.NewToolResultText("No projects available."), nil
	}

	return mcp.NewToolResultText(formatProjects(list, origin, note)), nil
}

func (s *Server) handleGetSkills(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, g := range s.src.Skills() {
		fmt.Fprintf(&sb, "%s: %s\n", g.Name, strings.Join(g.Items, ", "))
	}
	if langs := s.src.LanguagesSpoken(); len(langs) > 0 {
		fmt.Fprintf(&sb, "Languages spoken: %s\n", strings.Join(langs, ", "))
	}
	if sb.Len() == 0 {
		return mcp.NewToolResultText("No skills listed."), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleGetEducation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	for _, e := range s.src.Education() {
		fmt.Fprintf(&sb, "## %s\n%s (%s)\n", e.Institution, e.Program, e.Dates)
		for _, h := range e.Highlights {
			fmt.Fprintf(&sb, "- %s\n", h)
		}
		sb.WriteString("\n")
	}
	if certs := s.src.Certifications(); len(certs) > 0 {
		sb.WriteString("## Certifications\n")
		for _, c := range certs {
			fmt.Fprintf(&sb, "- %s, %s (%s)\n", c.Name, c.Issuer, c.Issued)
		}
	}
	if sb.Len() == 0 {
		return mcp.NewToolResultText("No education listed."), nil
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func filterByTag(list []github.Project, tag string) []github.Project {
	if tag == "" {
		return list
	}
	var out []github.Project
	for _, p := range list {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// rankByName keeps the projects whose name fuzzy-matches query, closest
// first. Ties keep listing order.
func rankByName(list []github.Project, query string) []github.Project {
	if query == "" {
		return list
	}
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	ranks := fuzzy.RankFindFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	out := make([]github.Project, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, list[r.OriginalIndex])
	}
	return out
}

// formatProjects renders projects as plain text for assistant consumption.
func formatProjects(list []github.Project, origin github.Origin, note string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d project(s) (source: %s)", len(list), origin)
	if note != "" {
		fmt.Fprintf(&sb, ". %s", note)
	}
	sb.WriteString("\n")

	for i, p := range list {
		fmt.Fprintf(&sb, "\n--- Project %d ---\n", i+1)
		fmt.Fprintf(&sb, "Name: %s\n", p.Name)
		if p.URL != "" {
			fmt.Fprintf(&sb, "URL: %s\n", p.URL)
		}
		fmt.Fprintf(&sb, "Stars: %d\n", p.Stars)
		if len(p.Tags) > 0 {
			fmt.Fprintf(&sb, "Tags: %s\n", strings.Join(p.Tags, ", "))
		}
		if !p.LastUpdated.IsZero() {
			fmt.Fprintf(&sb, "Updated: %s\n", p.LastUpdated.Format("2006-01-02"))
		}
		if p.Description != "" {
			fmt.Fprintf(&sb, "\n%s\n", p.Description)
		}
	}
	return sb.String()
}
