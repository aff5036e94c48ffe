package service

import (
	"time"

	"github.com/okian/folio/internal/domain/model"
)

// Sources holds the dataset paths, resolved against the fetcher origin.
type Sources struct {
	Experience string
	Skills     string
	Projects   string
	Education  string
}

// DefaultSources returns the conventional data/*.json layout.
func DefaultSources() Sources {
	return Sources{
		Experience: "data/experience.json",
		Skills:     "data/skills.json",
		Projects:   "data/projects.json",
		Education:  "data/education.json",
	}
}

// Path returns the source of ds, or "" for an unknown dataset.
func (s Sources) Path(ds model.Dataset) string {
	switch ds {
	case model.DatasetExperience:
		return s.Experience
	case model.DatasetSkills:
		return s.Skills
	case model.DatasetProjects:
		return s.Projects
	case model.DatasetEducation:
		return s.Education
	default:
		return ""
	}
}

// Result describes one dataset load.
type Result struct {
	Dataset model.Dataset
	URL     string
	// Records is the number of decoded records.
	Records int
	// Fragments is the number of fragments written to containers.
	Fragments int
	Err       error
	Duration  time.Duration
}

// OK reports whether the dataset rendered.
func (r Result) OK() bool { return r.Err == nil }

// Report collects the results of one LoadAll pass in page order.
type Report struct {
	PassID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []Result
}

// OK reports whether every dataset rendered.
func (r Report) OK() bool {
	return len(r.Failed()) == 0
}

// Failed returns the results that carry an error.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Result looks up the result of ds.
func (r Report) Result(ds model.Dataset) (Result, bool) {
	for _, res := range r.Results {
		if res.Dataset == ds {
			return res, true
		}
	}
	return Result{}, false
}
