package portfolio

import "time"

// Project is one entry of the project showcase. Within a single load cycle
// projects are identified by Name.
type Project struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Tags        []string  `yaml:"tags" json:"tags"`
	Stars       int       `yaml:"stars" json:"stars"`
	LastUpdated time.Time `yaml:"last_updated" json:"lastUpdated"`
	URL         string    `yaml:"url" json:"url"`
	Readme      string    `yaml:"readme,omitempty" json:"readme,omitempty"`
}

// Links holds the external profile links shown in the hero and contact sections.
type Links struct {
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	GitHub   string `yaml:"github" json:"github"`
}

// Profile is the personal information rendered across the page.
type Profile struct {
	Name     string `yaml:"name" json:"name"`
	Pronouns string `yaml:"pronouns" json:"pronouns"`
	Title    string `yaml:"title" json:"title"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email"`
	Links    Links  `yaml:"links" json:"links"`
	Summary  string `yaml:"summary" json:"summary"`
}

type Highlight struct {
	Title string `yaml:"title" json:"title"`
	Text  string `yaml:"text" json:"text"`
}

type Education struct {
	Institution string   `yaml:"institution" json:"institution"`
	Program     string   `yaml:"program" json:"program"`
	Dates       string   `yaml:"dates" json:"dates"`
	Highlights  []string `yaml:"highlights" json:"highlights"`
}

type Certification struct {
	Name   string `yaml:"name" json:"name"`
	Issuer string `yaml:"issuer" json:"issuer"`
	Issued string `yaml:"issued" json:"issued"`
}

// SkillGroup is a labeled list of skills, e.g. "Programming".
type SkillGroup struct {
	Name  string   `yaml:"name" json:"name"`
	Items []string `yaml:"items" json:"items"`
}

// NavItem pairs a page section id with its navigation label.
type NavItem struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

// Dataset is the document stored in the bundled YAML file.
type Dataset struct {
	Profile         Profile         `yaml:"profile"`
	Highlights      []Highlight     `yaml:"highlights"`
	Projects        []Project       `yaml:"projects"`
	Skills          []SkillGroup    `yaml:"skills"`
	Education       []Education     `yaml:"education"`
	Certifications  []Certification `yaml:"certifications"`
	LanguagesSpoken []string        `yaml:"languages_spoken"`
	Sections        []string        `yaml:"sections"`
	Navigation      []NavItem       `yaml:"navigation"`
}
