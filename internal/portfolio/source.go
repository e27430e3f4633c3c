// Package portfolio holds the bundled, read-only portfolio dataset. It is the
// initial render state of the page and the fallback for live project data.
package portfolio

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/portfolio.yml
var bundled []byte

// Source is an immutable dataset. Every accessor returns a copy, so callers
// can never mutate what other readers see.
type Source struct {
	data Dataset
}

var (
	defaultOnce sync.Once
	defaultSrc  *Source
	defaultErr  error
)

// Default returns the dataset bundled into the binary. It is parsed once.
func Default() (*Source, error) {
	defaultOnce.Do(func() {
		defaultSrc, defaultErr = Parse(bundled)
	})
	return defaultSrc, defaultErr
}

// MustDefault is Default for callers that treat a broken bundle as a build defect.
func MustDefault() *Source {
	src, err := Default()
	if err != nil {
		panic(err)
	}
	return src
}

// Load reads a dataset from a YAML file on disk.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio data %s: %w", path, err)
	}
	src, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing portfolio data %s: %w", path, err)
	}
	return src, nil
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*Source, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if err := Validate(ds); err != nil {
		return nil, err
	}
	return &Source{data: ds}, nil
}

// Validate checks the invariants the rest of the system relies on.
func Validate(ds Dataset) error {
	if ds.Profile.Name == "" {
		return errors.New("profile.name is required")
	}
	// The loader substitutes these on failure; an empty list would leave the page empty.
	if len(ds.Projects) == 0 {
		return errors.New("at least one fallback project is required")
	}
	for i, p := range ds.Projects {
		if p.Name == "" {
			return fmt.Errorf("projects[%d]: name is required", i)
		}
	}
	if len(ds.Sections) == 0 {
		return errors.New("at least one section is required")
	}
	seen := make(map[string]bool, len(ds.Sections))
	for _, id := range ds.Sections {
		if seen[id] {
			return fmt.Errorf("duplicate section id %q", id)
		}
		seen[id] = true
	}
	for _, nav := range ds.Navigation {
		if !seen[nav.ID] {
			return fmt.Errorf("navigation entry %q does not name a section", nav.ID)
		}
	}
	return nil
}

func (s *Source) Profile() Profile { return s.data.Profile }

func (s *Source) Highlights() []Highlight { return slices.Clone(s.data.Highlights) }

// Projects returns the static fallback project list.
func (s *Source) Projects() []Project { return CloneProjects(s.data.Projects) }

func (s *Source) Skills() []SkillGroup {
	out := make([]SkillGroup, len(s.data.Skills))
	for i, g := range s.data.Skills {
		out[i] = SkillGroup{Name: g.Name, Items: slices.Clone(g.Items)}
	}
	return out
}

func (s *Source) Education() []Education {
	out := make([]Education, len(s.data.Education))
	for i, e := range s.data.Education {
		e.Highlights = slices.Clone(e.Highlights)
		out[i] = e
	}
	return out
}

func (s *Source) Certifications() []Certification { return slices.Clone(s.data.Certifications) }

func (s *Source) LanguagesSpoken() []string { return slices.Clone(s.data.LanguagesSpoken) }

// Sections returns the page section ids in document order.
func (s *Source) Sections() []string { return slices.Clone(s.data.Sections) }

func (s *Source) Navigation() []NavItem { return slices.Clone(s.data.Navigation) }

// CloneProjects deep-copies a project list.
func CloneProjects(in []Project) []Project {
	if in == nil {
		return nil
	}
	out := make([]Project, len(in))
	for i, p := range in {
		p.Tags = slices.Clone(p.Tags)
		out[i] = p
	}
	return out
}
