// Package github lists a user's public repositories as portfolio projects,
// caching them in SQLite and degrading to stale or bundled data when the
// GitHub API is unavailable.
package github

import (
	"slices"
	"time"
	"unicode/utf8"

	"github.com/ziadkadry99/folio/internal/portfolio"
)

const (
	// ReadmeLimit is the number of characters kept from a README.
	ReadmeLimit = 500
	// ReadmeUnavailable replaces a README that could not be fetched.
	ReadmeUnavailable = "README not available"
)

// Project is one repository as served by /api/github/projects.
type Project struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Stars       int       `json:"stars"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics"`
	Tags        []string  `json:"tags"`
	LastUpdated time.Time `json:"lastUpdated"`
	Readme      string    `json:"readme"`
}

// tagsFor puts the primary language first, followed by the topics.
func tagsFor(language string, topics []string) []string {
	tags := make([]string, 0, len(topics)+1)
	if language != "" {
		tags = append(tags, language)
	}
	for _, t := range topics {
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}

// truncateReadme keeps the first ReadmeLimit characters and marks the cut.
func truncateReadme(s string) string {
	if utf8.RuneCountInString(s) <= ReadmeLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:ReadmeLimit]) + "..."
}

// FromPortfolio converts bundled dataset projects into API projects.
func FromPortfolio(in []portfolio.Project) []Project {
	out := make([]Project, 0, len(in))
	for _, p := range in {
		tags := slices.Clone(p.Tags)
		if tags == nil {
			tags = []string{}
		}
		out = append(out, Project{
			Name:        p.Name,
			Description: p.Description,
			URL:         p.URL,
			Stars:       p.Stars,
			Topics:      tags,
			Tags:        slices.Clone(tags),
			LastUpdated: p.LastUpdated,
			Readme:      p.Readme,
		})
	}
	return out
}

// Portfolio converts the project to the dataset representation.
func (p Project) Portfolio() portfolio.Project {
	tags := p.Tags
	if len(tags) == 0 {
		tags = tagsFor(p.Language, p.Topics)
	}
	return portfolio.Project{
		Name:        p.Name,
		Description: p.Description,
		Tags:        slices.Clone(tags),
		Stars:       p.Stars,
		LastUpdated: p.LastUpdated,
		URL:         p.URL,
		Readme:      p.Readme,
	}
}

func cloneProjects(in []Project) []Project {
	if in == nil {
		return nil
	}
	out := make([]Project, len(in))
	for i, p := range in {
		p.Topics = slices.Clone(p.Topics)
		p.Tags = slices.Clone(p.Tags)
		out[i] = p
	}
	return out
}
