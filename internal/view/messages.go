package view

import (
	"github.com/ziadkadry99/folio/internal/portfolio"
	"github.com/ziadkadry99/folio/internal/projects"
	"github.com/ziadkadry99/folio/internal/tracker"
)

// Inbound message types.
const (
	TypeLayout = "layout"
	TypeScroll = "scroll"
	TypeRetry  = "retry"
)

// Outbound message types.
const (
	TypeActive   = "active"
	TypeProjects = "projects"
	TypeError    = "error"
)

// ClientMessage is sent by the page. Sections is only set on layout;
// DocumentHeight is optional on scroll.
type ClientMessage struct {
	Type           string            `json:"type"`
	Sections       []tracker.Section `json:"sections,omitempty"`
	ScrollY        float64           `json:"scrollY"`
	ViewportHeight float64           `json:"viewportHeight"`
	DocumentHeight float64           `json:"documentHeight,omitempty"`
}

// ActiveMessage reports the highlighted navigation entry.
type ActiveMessage struct {
	Type     string  `json:"type"`
	Active   string  `json:"active"`
	Progress float64 `json:"progress"`
}

// ProjectsMessage reports the project loader state.
type ProjectsMessage struct {
	Type     string              `json:"type"`
	Loading  bool                `json:"loading"`
	Error    string              `json:"error,omitempty"`
	Source   projects.Source     `json:"source,omitempty"`
	Projects []portfolio.Project `json:"projects"`
}

// ErrorMessage reports a rejected client message.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func activeMessage(s tracker.Snapshot) ActiveMessage {
	return ActiveMessage{Type: TypeActive, Active: s.Active, Progress: s.Progress}
}

func projectsMessage(s projects.State) ProjectsMessage {
	list := s.Projects
	if list == nil {
		list = []portfolio.Project{}
	}
	return ProjectsMessage{
		Type:     TypeProjects,
		Loading:  s.Loading,
		Error:    projects.ErrorMessage(s.LastError),
		Source:   s.Source,
		Projects: list,
	}
}
