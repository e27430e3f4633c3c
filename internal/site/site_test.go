package site

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/folio/internal/portfolio"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	rnd, err := NewRenderer(portfolio.MustDefault(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, rnd)
	return r
}

func fetchPath(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestPageRendersSectionsInOrder(t *testing.T) {
	w := fetchPath(t, newTestRouter(t), "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}

	body := w.Body.String()
	last := -1
	for _, id := range portfolio.MustDefault().Sections() {
		marker := `<section id="` + id + `" data-section>`
		idx := strings.Index(body, marker)
		if idx < 0 {
			t.Fatalf("section %q not rendered", id)
		}
		if idx < last {
			t.Errorf("section %q rendered out of order", id)
		}
		last = idx
	}
}

func TestPageContent(t *testing.T) {
	src := portfolio.MustDefault()
	body := fetchPath(t, newTestRouter(t), "/").Body.String()

	if !strings.Contains(body, src.Profile().Name) {
		t.Error("profile name missing")
	}
	for _, nav := range src.Navigation() {
		if !strings.Contains(body, `data-nav="`+nav.ID+`"`) {
			t.Errorf("nav item %q missing", nav.ID)
		}
	}
	for _, p := range src.Projects() {
		if !strings.Contains(body, `data-project="`+p.Name+`"`) {
			t.Errorf("fallback project %q missing", p.Name)
		}
	}
	// The summary is markdown; bold text becomes <strong>.
	if !strings.Contains(body, "<strong>") {
		t.Error("summary markdown was not rendered")
	}
	if !strings.Contains(body, `data-view-path="/ws/view"`) {
		t.Error("view path missing")
	}
}

func TestStaticAssets(t *testing.T) {
	r := newTestRouter(t)

	js := fetchPath(t, r, "/static/script.js")
	if js.Code != http.StatusOK || !strings.Contains(js.Header().Get("Content-Type"), "javascript") {
		t.Fatalf("script: %d %q", js.Code, js.Header().Get("Content-Type"))
	}
	for _, want := range []string{`type: "layout"`, `type: "scroll"`, `type: "retry"`} {
		if !strings.Contains(js.Body.String(), want) {
			t.Errorf("script does not send %s", want)
		}
	}

	css := fetchPath(t, r, "/static/style.css")
	if css.Code != http.StatusOK || !strings.Contains(css.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("style: %d %q", css.Code, css.Header().Get("Content-Type"))
	}
}

func TestRenderMarkdownHighlightsCode(t *testing.T) {
	out, err := renderMarkdown(newMarkdown(), "# Title\n\n```go\nfunc main() {}\n```\n")
	if err != nil {
		t.Fatalf("renderMarkdown: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, `<h1 id="title">`) {
		t.Errorf("expected heading with id, got %s", html)
	}
	if !strings.Contains(html, "<pre") || !strings.Contains(html, "func") {
		t.Errorf("expected highlighted code block, got %s", html)
	}
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	out, err := renderMarkdown(newMarkdown(), "hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("renderMarkdown: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("raw HTML should be omitted, got %s", out)
	}
}

func TestSectionTitle(t *testing.T) {
	if got := sectionTitle("projects"); got != "Projects" {
		t.Errorf("got %q", got)
	}
	if got := sectionTitle(""); got != "" {
		t.Errorf("got %q", got)
	}
}
