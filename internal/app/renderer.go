// Package service runs the content renderer: it fetches the portfolio
// datasets, renders one fragment per record and appends the fragments to the
// page containers.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/folio/internal/adapters/fetch"
	"github.com/okian/folio/internal/domain/model"
	"github.com/okian/folio/internal/domain/page"
	"github.com/okian/folio/internal/domain/render"
	"github.com/okian/folio/pkg/logger"
	"github.com/okian/folio/pkg/metrics"
)

// Failure kinds reported in logs, metrics and the status endpoint.
const (
	KindTransport = "transport"
	KindStatus    = "status"
	KindDecode    = "decode"
	KindSchema    = "schema"
	KindUnknown   = "unknown"
)

// ErrorKind classifies a load failure. It returns "" for a nil error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fetch.ErrTransport):
		return KindTransport
	case errors.Is(err, fetch.ErrStatus):
		return KindStatus
	case errors.Is(err, model.ErrSchema):
		return KindSchema
	case errors.Is(err, model.ErrDecode):
		return KindDecode
	default:
		return KindUnknown
	}
}

// Renderer loads datasets into page containers.
type Renderer struct {
	mu sync.RWMutex

	fetcher fetch.Fetcher
	decoder *model.Decoder
	replace bool
	logger  logger.Logger

	last *Report
}

// Option applies a configuration option to the Renderer.
type Option func(*Renderer)

// WithLogger sets a custom logger for the renderer.
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDecoder sets the record decoder.
func WithDecoder(d *model.Decoder) Option {
	return func(r *Renderer) {
		if d != nil {
			r.decoder = d
		}
	}
}

// WithStrict toggles schema enforcement on the default decoder.
func WithStrict(strict bool) Option {
	return func(r *Renderer) {
		r.decoder = model.NewDecoder(model.WithStrict(strict))
	}
}

// WithReplace makes every load replace the container content instead of
// appending to it.
func WithReplace(replace bool) Option {
	return func(r *Renderer) {
		r.replace = replace
	}
}

// New constructs a Renderer reading datasets through f.
func New(f fetch.Fetcher, opts ...Option) *Renderer {
	r := &Renderer{
		fetcher: f,
		decoder: model.NewDecoder(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("renderer")
	}
	return r
}

// Origin describes where dataset paths are resolved.
func (r *Renderer) Origin() string {
	return r.fetcher.Origin()
}

// Strict reports whether missing required fields fail a dataset.
func (r *Renderer) Strict() bool {
	return r.decoder.Strict()
}

// target pairs a container with the fragments destined for it.
type target struct {
	container page.Container
	frags     []render.Fragment
}

// LoadExperience renders the experience timeline into c.
func (r *Renderer) LoadExperience(ctx context.Context, url string, c page.Container) Result {
	return r.run(ctx, model.DatasetExperience, url, func(body []byte) (int, []target, error) {
		recs, err := r.decoder.Experience(body)
		if err != nil {
			return 0, nil, err
		}
		frags, err := render.All(recs, render.Experience)
		if err != nil {
			return 0, nil, err
		}
		return len(recs), []target{{c, frags}}, nil
	})
}

// LoadSkills renders the skill categories into c.
func (r *Renderer) LoadSkills(ctx context.Context, url string, c page.Container) Result {
	return r.run(ctx, model.DatasetSkills, url, func(body []byte) (int, []target, error) {
		recs, err := r.decoder.Skills(body)
		if err != nil {
			return 0, nil, err
		}
		frags, err := render.All(recs, render.Skill)
		if err != nil {
			return 0, nil, err
		}
		return len(recs), []target{{c, frags}}, nil
	})
}

// LoadProjects renders the project cards into c.
func (r *Renderer) LoadProjects(ctx context.Context, url string, c page.Container) Result {
	return r.run(ctx, model.DatasetProjects, url, func(body []byte) (int, []target, error) {
		recs, err := r.decoder.Projects(body)
		if err != nil {
			return 0, nil, err
		}
		frags, err := render.All(recs, render.Project)
		if err != nil {
			return 0, nil, err
		}
		return len(recs), []target{{c, frags}}, nil
	})
}

// LoadEducation renders the education sequence into edu and the
// certifications into certs. Both come from one document.
func (r *Renderer) LoadEducation(ctx context.Context, url string, edu, certs page.Container) Result {
	return r.run(ctx, model.DatasetEducation, url, func(body []byte) (int, []target, error) {
		doc, err := r.decoder.Education(body)
		if err != nil {
			return 0, nil, err
		}
		eduFrags, err := render.All(doc.Education, render.Education)
		if err != nil {
			return 0, nil, err
		}
		certFrags, err := render.All(doc.Certifications, render.Certification)
		if err != nil {
			return 0, nil, err
		}
		return len(doc.Education) + len(doc.Certifications), []target{{edu, eduFrags}, {certs, certFrags}}, nil
	})
}

// run fetches url and hands the body to produce. Containers are touched only
// once every fragment of the dataset has been built.
func (r *Renderer) run(ctx context.Context, ds model.Dataset, url string, produce func([]byte) (int, []target, error)) Result {
	start := time.Now()
	res := Result{Dataset: ds, URL: url}

	body, err := r.fetcher.Fetch(ctx, url)
	if err == nil {
		var targets []target
		res.Records, targets, err = produce(body)
		if err == nil {
			res.Fragments = r.commit(targets)
		}
	}
	res.Err = err
	res.Duration = time.Since(start)

	r.observe(ctx, res)
	return res
}

func (r *Renderer) commit(targets []target) int {
	n := 0
	for _, t := range targets {
		if t.container == nil {
			continue
		}
		if r.replace {
			t.container.Replace(t.frags...)
		} else {
			t.container.Append(t.frags...)
		}
		n += len(t.frags)
	}
	return n
}

func (r *Renderer) observe(ctx context.Context, res Result) {
	ds := string(res.Dataset)
	ms := float64(res.Duration.Microseconds()) / 1000

	if res.Err != nil {
		kind := ErrorKind(res.Err)
		metrics.RecordDatasetLoad(ds, "failure", ms)
		metrics.RecordDatasetError(ds, kind)
		r.logger.Error(ctx, "dataset load failed",
			logger.String("dataset", ds),
			logger.String("url", res.URL),
			logger.String("kind", kind),
			logger.Error(res.Err),
		)
		return
	}

	metrics.RecordDatasetLoad(ds, "success", ms)
	metrics.RecordFragments(ds, res.Fragments)
	r.logger.Debug(ctx, "dataset loaded",
		logger.String("dataset", ds),
		logger.String("url", res.URL),
		logger.Int("records", res.Records),
		logger.Int("fragments", res.Fragments),
		logger.Duration("duration", res.Duration),
	)
}

// LoadAll runs the four loads concurrently against the containers of p and
// waits for all of them. A failing dataset never cancels the others.
func (r *Renderer) LoadAll(ctx context.Context, src Sources, p *page.Page) Report {
	report := Report{
		PassID:    uuid.NewString(),
		StartedAt: time.Now(),
	}
	results := make([]Result, len(model.Datasets()))

	var g errgroup.Group
	g.Go(func() error {
		results[0] = r.LoadExperience(ctx, src.Experience, p.Container(page.ExperienceTimeline))
		return nil
	})
	g.Go(func() error {
		results[1] = r.LoadSkills(ctx, src.Skills, p.Container(page.SkillsGrid))
		return nil
	})
	g.Go(func() error {
		results[2] = r.LoadProjects(ctx, src.Projects, p.Container(page.ProjectsGrid))
		return nil
	})
	g.Go(func() error {
		results[3] = r.LoadEducation(ctx, src.Education, p.Container(page.EducationGrid), p.Container(page.CertGrid))
		return nil
	})
	_ = g.Wait()

	report.Results = results
	report.FinishedAt = time.Now()

	r.mu.Lock()
	r.last = &report
	r.mu.Unlock()

	metrics.RecordRenderPass()
	r.logger.Info(ctx, "render pass finished",
		logger.String("pass", report.PassID),
		logger.Int("failed", len(report.Failed())),
		logger.Duration("duration", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report
}

// LastReport returns the report of the most recent LoadAll pass.
func (r *Renderer) LastReport() (Report, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.last == nil {
		return Report{}, false
	}
	return *r.last, true
}
