package service_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/mock/gomock"

	"github.com/okian/folio/internal/adapters/fetch"
	fetchmocks "github.com/okian/folio/internal/adapters/fetch/mocks"
	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/domain/model"
	"github.com/okian/folio/internal/domain/page"
	"github.com/okian/folio/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const (
	experienceJSON = `[{"title":"Engineer","company":"Acme","period":"2020-2022","description":"Built things.","responsibilities":["Shipped X","Led Y"]},
		{"title":"Intern","company":"Beta","period":"2019","description":"Learned."}]`
	skillsJSON     = `[{"category":"Languages","icon":"fas fa-code","skills":["Go","SQL"]},{"category":"Cloud","icon":"fas fa-cloud","skills":[]}]`
	projectsJSON   = `[{"title":"folio","description":"Renderer","technologies":["Go"],"github":"https://github.com/okian/folio","demo":"https://folio.example.com"}]`
	educationJSON  = `{"education":[{"degree":"BSc","school":"Uni","period":"2014-2018"}],"certifications":[{"name":"CKA","issuer":"CNCF"},{"name":"Scrum"}]}`
)

func expectAll(f *fetchmocks.MockFetcher, src service.Sources, override map[string]func() ([]byte, error)) {
	bodies := map[string]string{
		src.Experience: experienceJSON,
		src.Skills:     skillsJSON,
		src.Projects:   projectsJSON,
		src.Education:  educationJSON,
	}
	for path, body := range bodies {
		if fn, ok := override[path]; ok {
			f.EXPECT().Fetch(gomock.Any(), path).DoAndReturn(func(context.Context, string) ([]byte, error) {
				return fn()
			})
			continue
		}
		f.EXPECT().Fetch(gomock.Any(), path).Return([]byte(body), nil)
	}
}

func notFound(path string) func() ([]byte, error) {
	return func() ([]byte, error) {
		return nil, &fetch.StatusError{Code: http.StatusNotFound, URL: path}
	}
}

func TestRenderer_LoadExperience(t *testing.T) {
	Convey("Given the Engineer at Acme entry", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := fetchmocks.NewMockFetcher(ctrl)
		f.EXPECT().Fetch(gomock.Any(), "data/experience.json").Return([]byte(experienceJSON), nil)

		r := service.New(f)
		c := page.NewContainer(page.ExperienceTimeline)

		Convey("When loading experience", func() {
			res := r.LoadExperience(context.Background(), "data/experience.json", c)

			Convey("Then one fragment per entry is appended in order", func() {
				So(res.OK(), ShouldBeTrue)
				So(res.Dataset, ShouldEqual, model.DatasetExperience)
				So(res.Records, ShouldEqual, 2)
				So(res.Fragments, ShouldEqual, 2)
				frags := c.Fragments()
				So(len(frags), ShouldEqual, 2)
				So(string(frags[0].HTML), ShouldContainSubstring, "Engineer")
				So(string(frags[1].HTML), ShouldContainSubstring, "Intern")
			})

			Convey("And the first entry carries every text and an ordered list", func() {
				html := string(c.Fragments()[0].HTML)
				for _, text := range []string{"Engineer", "Acme", "2020-2022", "Built things."} {
					So(html, ShouldContainSubstring, text)
				}
				So(html, ShouldContainSubstring, "<ul><li>Shipped X</li><li>Led Y</li></ul>")
			})

			Convey("And an entry without responsibilities has no list", func() {
				So(string(c.Fragments()[1].HTML), ShouldNotContainSubstring, "<ul>")
			})
		})
	})
}

func TestRenderer_Failures(t *testing.T) {
	Convey("Given a renderer over a failing origin", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := fetchmocks.NewMockFetcher(ctrl)
		r := service.New(f)
		ctx := context.Background()
		c := page.NewContainer(page.ProjectsGrid)

		Convey("When the dataset is missing", func() {
			f.EXPECT().Fetch(gomock.Any(), "data/projects.json").Return(nil, &fetch.StatusError{Code: http.StatusNotFound})
			res := r.LoadProjects(ctx, "data/projects.json", c)

			Convey("Then the result carries a status error and the container is untouched", func() {
				So(res.OK(), ShouldBeFalse)
				So(errors.Is(res.Err, fetch.ErrNotFound), ShouldBeTrue)
				So(service.ErrorKind(res.Err), ShouldEqual, service.KindStatus)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the transport fails", func() {
			f.EXPECT().Fetch(gomock.Any(), "data/projects.json").Return(nil, fetch.ErrTransport)
			res := r.LoadProjects(ctx, "data/projects.json", c)

			Convey("Then the failure is classified as transport", func() {
				So(service.ErrorKind(res.Err), ShouldEqual, service.KindTransport)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the body is not JSON", func() {
			f.EXPECT().Fetch(gomock.Any(), "data/projects.json").Return([]byte(`<html>`), nil)
			res := r.LoadProjects(ctx, "data/projects.json", c)

			Convey("Then the failure is a decode error", func() {
				So(errors.Is(res.Err, model.ErrDecode), ShouldBeTrue)
				So(service.ErrorKind(res.Err), ShouldEqual, service.KindDecode)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a later record misses a required field", func() {
			f.EXPECT().Fetch(gomock.Any(), "data/projects.json").
				Return([]byte(`[{"title":"a","description":"d","technologies":[]},{"title":"b","technologies":[]}]`), nil)
			res := r.LoadProjects(ctx, "data/projects.json", c)

			Convey("Then nothing is appended, not even the valid first record", func() {
				So(errors.Is(res.Err, model.ErrSchema), ShouldBeTrue)
				So(res.Err.Error(), ShouldContainSubstring, `projects[1]: field "description" is required`)
				So(c.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestRenderer_Lenient(t *testing.T) {
	Convey("Given a lenient renderer", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := fetchmocks.NewMockFetcher(ctrl)
		f.EXPECT().Fetch(gomock.Any(), "data/skills.json").Return([]byte(`[{"icon":"fas fa-code","skills":["Go"]}]`), nil)
		r := service.New(f, service.WithStrict(false))
		c := page.NewContainer(page.SkillsGrid)

		Convey("When a category label is missing", func() {
			res := r.LoadSkills(context.Background(), "data/skills.json", c)

			Convey("Then it renders as undefined", func() {
				So(r.Strict(), ShouldBeFalse)
				So(res.OK(), ShouldBeTrue)
				So(string(c.HTML()), ShouldContainSubstring, "undefined</h3>")
			})
		})
	})
}

func TestRenderer_Reinvocation(t *testing.T) {
	Convey("Given a skills origin loaded twice", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := fetchmocks.NewMockFetcher(ctrl)
		ctx := context.Background()
		c := page.NewContainer(page.SkillsGrid)

		Convey("When appending is the default", func() {
			f.EXPECT().Fetch(gomock.Any(), "data/skills.json").Return([]byte(skillsJSON), nil).Times(2)
			r := service.New(f)
			r.LoadSkills(ctx, "data/skills.json", c)
			r.LoadSkills(ctx, "data/skills.json", c)

			Convey("Then the fragments are duplicated", func() {
				So(c.Len(), ShouldEqual, 4)
			})
		})

		Convey("When replace mode is on", func() {
			f.EXPECT().Fetch(gomock.Any(), "data/skills.json").Return([]byte(skillsJSON), nil).Times(2)
			r := service.New(f, service.WithReplace(true))
			r.LoadSkills(ctx, "data/skills.json", c)
			r.LoadSkills(ctx, "data/skills.json", c)

			Convey("Then the second pass does not duplicate", func() {
				So(c.Len(), ShouldEqual, 2)
			})
		})

		Convey("When a replace reload fails", func() {
			gomock.InOrder(
				f.EXPECT().Fetch(gomock.Any(), "data/skills.json").Return([]byte(skillsJSON), nil),
				f.EXPECT().Fetch(gomock.Any(), "data/skills.json").Return([]byte(`[`), nil),
			)
			r := service.New(f, service.WithReplace(true))
			r.LoadSkills(ctx, "data/skills.json", c)
			res := r.LoadSkills(ctx, "data/skills.json", c)

			Convey("Then the previous content survives", func() {
				So(res.OK(), ShouldBeFalse)
				So(c.Len(), ShouldEqual, 2)
			})
		})
	})
}

func TestRenderer_NilContainer(t *testing.T) {
	Convey("Given a page without the target container", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := fetchmocks.NewMockFetcher(ctrl)
		f.EXPECT().Fetch(gomock.Any(), "data/skills.json").Return([]byte(skillsJSON), nil)
		r := service.New(f)

		Convey("Then loading is a no-op on the document", func() {
			res := r.LoadSkills(context.Background(), "data/skills.json", nil)
			So(res.OK(), ShouldBeTrue)
			So(res.Records, ShouldEqual, 2)
			So(res.Fragments, ShouldEqual, 0)
		})
	})
}

func TestRenderer_LoadAll(t *testing.T) {
	Convey("Given all four datasets", t, func() {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		f := fetchmocks.NewMockFetcher(ctrl)
		src := service.DefaultSources()
		r := service.New(f)
		p := page.New()
		ctx := context.Background()

		_, ok := r.LastReport()
		So(ok, ShouldBeFalse)

		Convey("When every dataset is available", func() {
			expectAll(f, src, nil)
			report := r.LoadAll(ctx, src, p)

			Convey("Then every container is filled", func() {
				So(report.OK(), ShouldBeTrue)
				So(report.PassID, ShouldNotBeEmpty)
				So(report.FinishedAt.Before(report.StartedAt), ShouldBeFalse)
				So(len(report.Results), ShouldEqual, 4)
				So(p.Container(page.ExperienceTimeline).Len(), ShouldEqual, 2)
				So(p.Container(page.SkillsGrid).Len(), ShouldEqual, 2)
				So(p.Container(page.ProjectsGrid).Len(), ShouldEqual, 1)
				So(p.Container(page.EducationGrid).Len(), ShouldEqual, 1)
				So(p.Container(page.CertGrid).Len(), ShouldEqual, 2)
			})

			Convey("And the education result counts both sequences", func() {
				res, ok := report.Result(model.DatasetEducation)
				So(ok, ShouldBeTrue)
				So(res.Records, ShouldEqual, 3)
				So(res.Fragments, ShouldEqual, 3)
			})

			Convey("And the report is kept as the last one", func() {
				last, ok := r.LastReport()
				So(ok, ShouldBeTrue)
				So(last.PassID, ShouldEqual, report.PassID)
			})

			Convey("And project links keep their order", func() {
				html := string(p.Container(page.ProjectsGrid).HTML())
				So(strings.Index(html, "View Code"), ShouldBeLessThan, strings.Index(html, "Live Demo"))
			})
		})

		Convey("When projects is missing", func() {
			expectAll(f, src, map[string]func() ([]byte, error){src.Projects: notFound(src.Projects)})
			report := r.LoadAll(ctx, src, p)

			Convey("Then only projects stays empty", func() {
				So(report.OK(), ShouldBeFalse)
				So(len(report.Failed()), ShouldEqual, 1)
				So(report.Failed()[0].Dataset, ShouldEqual, model.DatasetProjects)
				So(p.Container(page.ProjectsGrid).Len(), ShouldEqual, 0)
				So(p.Container(page.ExperienceTimeline).Len(), ShouldEqual, 2)
				So(p.Container(page.SkillsGrid).Len(), ShouldEqual, 2)
				So(p.Container(page.CertGrid).Len(), ShouldEqual, 2)
			})
		})

		Convey("When education is malformed", func() {
			expectAll(f, src, map[string]func() ([]byte, error){
				src.Education: func() ([]byte, error) { return []byte(`{"education":`), nil },
			})
			report := r.LoadAll(ctx, src, p)

			Convey("Then both education containers stay empty and the rest render", func() {
				res, _ := report.Result(model.DatasetEducation)
				So(errors.Is(res.Err, model.ErrDecode), ShouldBeTrue)
				So(p.Container(page.EducationGrid).Len(), ShouldEqual, 0)
				So(p.Container(page.CertGrid).Len(), ShouldEqual, 0)
				So(p.Container(page.ProjectsGrid).Len(), ShouldEqual, 1)
			})
		})
	})
}

func TestSources(t *testing.T) {
	Convey("Given the default sources", t, func() {
		src := service.DefaultSources()

		Convey("Then every dataset has a path", func() {
			for _, ds := range model.Datasets() {
				So(src.Path(ds), ShouldEqual, "data/"+string(ds)+".json")
			}
			So(src.Path("unknown"), ShouldEqual, "")
		})
	})
}
