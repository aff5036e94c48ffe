package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/domain/page"
)

// Fragment sets served by /fragments/{dataset}. Education and certifications
// share one source document.
const (
	setExperience     = "experience"
	setSkills         = "skills"
	setProjects       = "projects"
	setEducation      = "education"
	setCertifications = "certifications"
)

// FragmentsHandler renders one dataset on demand.
type FragmentsHandler struct {
	deps    Dependencies
	sources service.Sources
}

// NewFragmentsHandler creates a new fragments handler.
func NewFragmentsHandler(deps Dependencies, sources service.Sources) *FragmentsHandler {
	return &FragmentsHandler{deps: deps, sources: sources}
}

// HandleFragments handles GET /fragments/{dataset} requests. The body is the
// concatenated fragment markup, ready to be appended to the container.
func (h *FragmentsHandler) HandleFragments(w http.ResponseWriter, r *http.Request) {
	set := chi.URLParam(r, "dataset")
	ctx := r.Context()

	var (
		res service.Result
		out page.Container
	)
	switch set {
	case setExperience:
		out = page.NewContainer(page.ExperienceTimeline)
		res = h.deps.LoadExperience(ctx, h.sources.Experience, out)
	case setSkills:
		out = page.NewContainer(page.SkillsGrid)
		res = h.deps.LoadSkills(ctx, h.sources.Skills, out)
	case setProjects:
		out = page.NewContainer(page.ProjectsGrid)
		res = h.deps.LoadProjects(ctx, h.sources.Projects, out)
	case setEducation:
		out = page.NewContainer(page.EducationGrid)
		res = h.deps.LoadEducation(ctx, h.sources.Education, out, nil)
	case setCertifications:
		out = page.NewContainer(page.CertGrid)
		res = h.deps.LoadEducation(ctx, h.sources.Education, nil, out)
	default:
		writeError(w, http.StatusNotFound, "unknown_dataset", fmt.Errorf("%w: %q", ErrUnknownDataset, set))
		return
	}

	if !res.OK() {
		writeError(w, http.StatusBadGateway, service.ErrorKind(res.Err), res.Err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Fragment-Count", fmt.Sprint(out.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out.HTML()))
}
