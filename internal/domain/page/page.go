// Package page models the portfolio document: a fixed set of containers that
// accumulate rendered fragments.
package page

import (
	"html/template"
	"strings"
	"sync"

	"github.com/okian/folio/internal/domain/render"
)

// Container identifiers of the portfolio shell.
const (
	ExperienceTimeline = "experienceTimeline"
	SkillsGrid         = "skillsGrid"
	ProjectsGrid       = "projectsGrid"
	EducationGrid      = "educationGrid"
	CertGrid           = "certGrid"
)

// ContainerIDs lists every container in document order.
func ContainerIDs() []string {
	return []string{ExperienceTimeline, SkillsGrid, ProjectsGrid, EducationGrid, CertGrid}
}

// Container accumulates fragments for one dataset.
type Container interface {
	ID() string
	// Append adds fragments after the existing ones, keeping their order.
	Append(frags ...render.Fragment)
	// Replace swaps the content for frags in one step.
	Replace(frags ...render.Fragment)
	Clear()
	Len() int
	// Fragments returns a copy of the current content.
	Fragments() []render.Fragment
	// HTML returns the concatenated outer markup of all fragments.
	HTML() template.HTML
}

type memContainer struct {
	id    string
	mu    sync.RWMutex
	frags []render.Fragment
}

// NewContainer creates an empty in-memory container.
func NewContainer(id string) Container {
	return &memContainer{id: id}
}

func (c *memContainer) ID() string { return c.id }

func (c *memContainer) Append(frags ...render.Fragment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frags = append(c.frags, frags...)
}

func (c *memContainer) Replace(frags ...render.Fragment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frags = append([]render.Fragment(nil), frags...)
}

func (c *memContainer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frags = nil
}

func (c *memContainer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.frags)
}

func (c *memContainer) Fragments() []render.Fragment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]render.Fragment, len(c.frags))
	copy(out, c.frags)
	return out
}

func (c *memContainer) HTML() template.HTML {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var b strings.Builder
	for _, f := range c.frags {
		b.WriteString(string(f.Outer()))
	}
	return template.HTML(b.String()) //nolint:gosec // fragments are template output
}

// Page owns the containers of one portfolio document.
type Page struct {
	containers map[string]Container
}

// New creates a page with one empty container per shell slot.
func New() *Page {
	p := &Page{containers: make(map[string]Container, len(ContainerIDs()))}
	for _, id := range ContainerIDs() {
		p.containers[id] = NewContainer(id)
	}
	return p
}

// Container returns the container with id, or nil when the shell has none.
func (p *Page) Container(id string) Container {
	if p == nil {
		return nil
	}
	return p.containers[id]
}

// Sections exposes container markup keyed by id, for the shell template.
func (p *Page) Sections() map[string]template.HTML {
	out := make(map[string]template.HTML, len(p.containers))
	for id, c := range p.containers {
		out[id] = c.HTML()
	}
	return out
}
