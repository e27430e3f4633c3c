// Package site renders the portfolio page and its static assets.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/ziadkadry99/folio/internal/portfolio"
)

// ViewPath is the websocket endpoint the page script connects to.
const ViewPath = "/ws/view"

type projectCard struct {
	portfolio.Project
	ReadmeHTML template.HTML
}

type pageData struct {
	Profile        portfolio.Profile
	SummaryHTML    template.HTML
	Highlights     []portfolio.Highlight
	Projects       []projectCard
	Skills         []portfolio.SkillGroup
	Education      []portfolio.Education
	Certifications []portfolio.Certification
	Languages      []string
	Sections       []string
	Navigation     []portfolio.NavItem
	ViewPath       string
}

// Renderer renders the page from a portfolio source. The page is rendered
// once; project cards show the bundled projects until the view channel
// pushes the live list.
type Renderer struct {
	page   []byte
	logger *slog.Logger
}

// NewRenderer renders the page for src.
func NewRenderer(src *portfolio.Source, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"sectionTitle": sectionTitle,
		"join":         strings.Join,
	}).Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	md := newMarkdown()
	data, err := buildPageData(md, src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return &Renderer{page: buf.Bytes(), logger: logger}, nil
}

func buildPageData(md goldmark.Markdown, src *portfolio.Source) (pageData, error) {
	profile := src.Profile()
	summary, err := renderMarkdown(md, profile.Summary)
	if err != nil {
		return pageData{}, fmt.Errorf("summary: %w", err)
	}

	var cards []projectCard
	for _, p := range src.Projects() {
		readme, err := renderMarkdown(md, p.Readme)
		if err != nil {
			return pageData{}, fmt.Errorf("project %s: %w", p.Name, err)
		}
		cards = append(cards, projectCard{Project: p, ReadmeHTML: readme})
	}

	return pageData{
		Profile:        profile,
		SummaryHTML:    summary,
		Highlights:     src.Highlights(),
		Projects:       cards,
		Skills:         src.Skills(),
		Education:      src.Education(),
		Certifications: src.Certifications(),
		Languages:      src.LanguagesSpoken(),
		Sections:       src.Sections(),
		Navigation:     src.Navigation(),
		ViewPath:       ViewPath,
	}, nil
}

// sectionTitle turns a section id into a heading.
func sectionTitle(id string) string {
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

// RegisterRoutes mounts the page and its assets on the given router.
func RegisterRoutes(r chi.Router, rnd *Renderer) {
	r.Get("/", rnd.servePage)
	r.Get("/static/script.js", serveAsset("application/javascript", jsContent))
	r.Get("/static/style.css", serveAsset("text/css", cssContent))
}

func (rnd *Renderer) servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(rnd.page); err != nil {
		rnd.logger.DebugContext(r.Context(), "Failed to write page", "error", err)
	}
}

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType+"; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Write([]byte(body))
	}
}
