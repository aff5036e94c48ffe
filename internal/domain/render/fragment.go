// Package render maps portfolio records to HTML fragments.
//
// Builders are pure: the same record always yields the same fragment, and
// every text value goes through html/template escaping.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ecodeclub/ekit/slice"

	"github.com/okian/folio/internal/domain/model"
)

// Fragment is the markup produced for one record.
type Fragment struct {
	// Class is the class of the fragment's outer element.
	Class string
	// HTML is the inner markup of the outer element.
	HTML template.HTML
}

// Outer returns the fragment wrapped in its outer element.
func (f Fragment) Outer() template.HTML {
	return template.HTML(`<div class="` + template.HTMLEscapeString(f.Class) + `">` + string(f.HTML) + `</div>`) //nolint:gosec // inner HTML is template output
}

// Outer element classes.
const (
	ClassExperience    = "timeline-item"
	ClassSkill         = "skill-category"
	ClassProject       = "project-card"
	ClassEducation     = "education-item"
	ClassCertification = "cert-item"
)

// Experience builds the timeline fragment of one job.
func Experience(e model.ExperienceEntry) (Fragment, error) {
	return build(ClassExperience, "experience", e)
}

// Skill builds the fragment of one skill category.
func Skill(c model.SkillCategory) (Fragment, error) {
	return build(ClassSkill, "skill", c)
}

// Project builds the card of one project.
func Project(p model.Project) (Fragment, error) {
	return build(ClassProject, "project", p)
}

// Education builds the fragment of one education entry.
func Education(e model.EducationEntry) (Fragment, error) {
	return build(ClassEducation, "education", e)
}

// Certification builds the fragment of one certification.
func Certification(c model.Certification) (Fragment, error) {
	return build(ClassCertification, "certification", c)
}

// All maps records to fragments in input order and stops at the first error.
func All[T any](records []T, fn func(T) (Fragment, error)) ([]Fragment, error) {
	var firstErr error
	frags := slice.Map(records, func(idx int, src T) Fragment {
		if firstErr != nil {
			return Fragment{}
		}
		f, err := fn(src)
		if err != nil {
			firstErr = fmt.Errorf("record %d: %w", idx, err)
		}
		return f
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return frags, nil
}

func build(class, name string, data any) (Fragment, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return Fragment{}, fmt.Errorf("render %s: %w", name, err)
	}
	return Fragment{Class: class, HTML: template.HTML(buf.String())}, nil //nolint:gosec // produced by html/template
}
