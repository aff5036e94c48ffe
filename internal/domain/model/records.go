// Package model contains the portfolio record schemas and their decoders.
package model

// Dataset names one independently fetched JSON source.
type Dataset string

const (
	DatasetExperience Dataset = "experience"
	DatasetSkills     Dataset = "skills"
	DatasetProjects   Dataset = "projects"
	DatasetEducation  Dataset = "education"
)

// Datasets lists every dataset in page order.
func Datasets() []Dataset {
	return []Dataset{DatasetExperience, DatasetSkills, DatasetProjects, DatasetEducation}
}

// DefaultProjectIcon is used when a project has no icon of its own.
const DefaultProjectIcon = "fas fa-code"

// ExperienceEntry is one job on the experience timeline.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
	// Responsibilities is nil when the source omits it or sets it to null.
	Responsibilities []string `json:"responsibilities,omitempty"`
}

// HasResponsibilities reports whether a responsibility list should be rendered.
// A present but empty list still counts.
func (e ExperienceEntry) HasResponsibilities() bool {
	return e.Responsibilities != nil
}

// SkillCategory groups skills under a labelled icon.
type SkillCategory struct {
	Category string   `json:"category"`
	Icon     string   `json:"icon"`
	Skills   []string `json:"skills"`
}

// Project is one card in the projects grid.
type Project struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Icon         string   `json:"icon,omitempty"`
	GitHub       string   `json:"github,omitempty"`
	Demo         string   `json:"demo,omitempty"`
}

// IconClass returns the project icon, falling back to DefaultProjectIcon.
func (p Project) IconClass() string {
	if p.Icon == "" {
		return DefaultProjectIcon
	}
	return p.Icon
}

// Link is an action link on a project card.
type Link struct {
	Label string
	URL   string
	Icon  string
}

// Links returns the code link then the demo link, each only when set.
func (p Project) Links() []Link {
	links := make([]Link, 0, 2)
	if p.GitHub != "" {
		links = append(links, Link{Label: "View Code", URL: p.GitHub, Icon: "fab fa-github"})
	}
	if p.Demo != "" {
		links = append(links, Link{Label: "Live Demo", URL: p.Demo, Icon: "fas fa-external-link-alt"})
	}
	return links
}

// EducationEntry is one degree or programme.
type EducationEntry struct {
	Degree  string `json:"degree"`
	School  string `json:"school"`
	Period  string `json:"period"`
	Details string `json:"details,omitempty"`
}

// Certification is one certificate, optionally with its issuer.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
}

// EducationDocument holds the two independent sequences of education.json.
type EducationDocument struct {
	Education      []EducationEntry `json:"education"`
	Certifications []Certification  `json:"certifications"`
}
