// Package api serves the portfolio JSON API consumed by the page.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/folio/internal/db"
	"github.com/ziadkadry99/folio/internal/github"
	"github.com/ziadkadry99/folio/internal/portfolio"
)

// ProjectLister produces the project listing; *github.Service satisfies it.
type ProjectLister interface {
	Projects(ctx context.Context) github.Listing
}

// ProjectsResponse is the body of GET /api/github/projects.
type ProjectsResponse struct {
	Success  bool             `json:"success"`
	Projects []github.Project `json:"projects"`
	Message  string           `json:"message,omitempty"`
	Source   github.Origin    `json:"source,omitempty"`
}

// UserData is the body of GET /api/user.
type UserData struct {
	Profile         portfolio.Profile         `json:"profile"`
	Highlights      []portfolio.Highlight     `json:"highlights"`
	Skills          []portfolio.SkillGroup    `json:"skills"`
	Education       []portfolio.Education     `json:"education"`
	Certifications  []portfolio.Certification `json:"certifications"`
	LanguagesSpoken []string                  `json:"languagesSpoken"`
}

// Health is the body of GET /api/health.
type Health struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Deps are the collaborators the API handlers read from. DB may be nil
// when the project cache is disabled.
type Deps struct {
	Projects ProjectLister
	Source   *portfolio.Source
	DB       *db.DB
	Now      func() time.Time
}

// RegisterRoutes mounts the API endpoints on the given router.
func RegisterRoutes(r chi.Router, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r.Route("/api", func(r chi.Router) {
		r.Get("/", rootHandler())
		r.Get("/github/projects", projectsHandler(deps.Projects))
		r.Get("/user", userHandler(deps.Source))
		r.Get("/health", healthHandler(deps))
	})
}

func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Portfolio API is running!"})
	}
}

func projectsHandler(lister ProjectLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var listing github.Listing
		if lister != nil {
			listing = lister.Projects(r.Context())
		}
		if len(listing.Projects) == 0 {
			writeJSON(w, http.StatusServiceUnavailable, ProjectsResponse{
				Success:  false,
				Projects: []github.Project{},
				Message:  "No project data available",
			})
			return
		}
		writeJSON(w, http.StatusOK, ProjectsResponse{
			Success:  true,
			Projects: listing.Projects,
			Message:  listing.Message,
			Source:   listing.Origin,
		})
	}
}

func userHandler(src *portfolio.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": UserData{
				Profile:         src.Profile(),
				Highlights:      src.Highlights(),
				Skills:          src.Skills(),
				Education:       src.Education(),
				Certifications:  src.Certifications(),
				LanguagesSpoken: src.LanguagesSpoken(),
			},
		})
	}
}

func healthHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := map[string]string{
			"database":   "disabled",
			"github_api": "available",
		}
		status := "healthy"
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				services["database"] = "unavailable"
				status = "degraded"
			} else {
				services["database"] = "connected"
			}
		}
		if deps.Projects == nil {
			services["github_api"] = "not_configured"
		}
		writeJSON(w, http.StatusOK, Health{
			Status:    status,
			Timestamp: deps.Now().UTC(),
			Services:  services,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
