package projects

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ziadkadry99/folio/internal/fetch"
	"github.com/ziadkadry99/folio/internal/portfolio"
)

// payload is the body of GET /github/projects.
type payload struct {
	Success  bool           `json:"success"`
	Projects *[]wireProject `json:"projects"`
	Message  string         `json:"message,omitempty"`
}

// wireProject accepts both the "tags" shape and the GitHub-flavoured
// "language"/"topics" shape.
type wireProject struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
	LastUpdated string   `json:"lastUpdated"`
	URL         string   `json:"url"`
	Readme      *string  `json:"readme"`
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func invalid(format string, args ...any) error {
	return fetch.InvalidResponse(http.MethodGet, Path, fmt.Errorf(format, args...))
}

// validate checks the response shape and converts it to projects.
func (p payload) validate() ([]portfolio.Project, error) {
	if !p.Success {
		msg := p.Message
		if msg == "" {
			msg = "success flag not set"
		}
		return nil, invalid("%s", msg)
	}
	if p.Projects == nil {
		return nil, invalid("projects field is missing or null")
	}
	if len(*p.Projects) == 0 {
		// An empty live list would leave the page without projects.
		return nil, invalid("projects list is empty")
	}

	seen := make(map[string]bool, len(*p.Projects))
	out := make([]portfolio.Project, 0, len(*p.Projects))
	for i, wp := range *p.Projects {
		name := strings.TrimSpace(wp.Name)
		if name == "" {
			return nil, invalid("projects[%d]: name is required", i)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, wp.toProject(name))
	}
	return out, nil
}

func (wp wireProject) toProject(name string) portfolio.Project {
	p := portfolio.Project{
		Name:        name,
		Tags:        wp.Tags,
		Stars:       max(wp.Stars, 0),
		LastUpdated: parseDate(wp.LastUpdated),
		URL:         wp.URL,
	}
	if wp.Description != nil {
		p.Description = *wp.Description
	}
	if wp.Readme != nil {
		p.Readme = *wp.Readme
	}
	if len(p.Tags) == 0 {
		if wp.Language != nil && *wp.Language != "" {
			p.Tags = append(p.Tags, *wp.Language)
		}
		p.Tags = append(p.Tags, wp.Topics...)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// parseDate is lenient: lastUpdated is display-only, so an unknown format
// yields the zero time instead of failing the cycle.
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ErrorMessage is the user-facing notice for a failed cycle.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrClosed) {
		return "Project loading stopped."
	}
	switch fetch.KindOf(err) {
	case fetch.KindTimeout:
		return "Live project data timed out; showing saved projects."
	case fetch.KindHTTPStatus:
		code, _ := fetch.StatusCode(err)
		return fmt.Sprintf("Live project data is unavailable (HTTP %d); showing saved projects.", code)
	case fetch.KindInvalidResponse:
		return "Live project data was malformed; showing saved projects."
	default:
		return "Live project data is unavailable; showing saved projects."
	}
}
