package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHTTPFetcher(t *testing.T) {
	Convey("Given a data origin served over HTTP", t, func() {
		accepts := make(chan string, 1)
		mux := http.NewServeMux()
		mux.HandleFunc("/site/data/skills.json", func(w http.ResponseWriter, r *http.Request) {
			select {
			case accepts <- r.Header.Get("Accept"):
			default:
			}
			_, _ = w.Write([]byte(`[{"category":"Go"}]`))
		})
		mux.HandleFunc("/site/data/broken.json", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		mux.HandleFunc("/site/data/slow.json", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`[]`))
		})
		mux.HandleFunc("/site/data/big.json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		f, err := NewHTTPFetcher(srv.URL+"/site", WithTimeout(50*time.Millisecond), WithMaxBodyBytes(32))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("Then the origin gains a trailing slash", func() {
			So(f.Origin(), ShouldEqual, srv.URL+"/site/")
		})

		Convey("When fetching an existing dataset by relative path", func() {
			body, err := f.Fetch(ctx, "data/skills.json")

			Convey("Then the body is returned", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, `[{"category":"Go"}]`)
			})

			Convey("And JSON is requested", func() {
				var accept string
				select {
				case accept = <-accepts:
				case <-time.After(time.Second):
				}
				So(accept, ShouldEqual, "application/json")
			})
		})

		Convey("When the dataset does not exist", func() {
			_, err := f.Fetch(ctx, "data/missing.json")

			Convey("Then a 404 status error is returned", func() {
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				var se *StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When the origin fails", func() {
			_, err := f.Fetch(ctx, "data/broken.json")

			Convey("Then the status error is not a not-found", func() {
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
				So(errors.Is(err, ErrNotFound), ShouldBeFalse)
				So(err.Error(), ShouldContainSubstring, "500")
			})
		})

		Convey("When the origin is too slow", func() {
			_, err := f.Fetch(ctx, "data/slow.json")

			Convey("Then a transport error is returned", func() {
				So(errors.Is(err, ErrTransport), ShouldBeTrue)
			})
		})

		Convey("When the body is larger than allowed", func() {
			_, err := f.Fetch(ctx, "data/big.json")

			Convey("Then a transport error is returned", func() {
				So(errors.Is(err, ErrTransport), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "exceeds")
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := f.Fetch(cctx, "data/skills.json")

			Convey("Then a transport error is returned", func() {
				So(errors.Is(err, ErrTransport), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unreachable origin", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		f, err := NewHTTPFetcher(addr)
		So(err, ShouldBeNil)

		Convey("Then fetching reports a transport error", func() {
			_, err := f.Fetch(context.Background(), "data/skills.json")
			So(errors.Is(err, ErrTransport), ShouldBeTrue)
		})
	})

	Convey("Given an invalid base URL", t, func() {
		_, err := NewHTTPFetcher("not a url")

		Convey("Then construction fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFSFetcher(t *testing.T) {
	Convey("Given a filesystem origin", t, func() {
		fsys := fstest.MapFS{
			"data/projects.json": &fstest.MapFile{Data: []byte(`[]`)},
		}
		f := NewFSFetcher(fsys, "embedded")
		ctx := context.Background()

		So(f.Origin(), ShouldEqual, "embedded")

		Convey("When fetching an existing file with a leading slash", func() {
			body, err := f.Fetch(ctx, "/data/projects.json")

			Convey("Then the content is returned", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, "[]")
			})
		})

		Convey("When the file is missing", func() {
			_, err := f.Fetch(ctx, "data/skills.json")

			Convey("Then it behaves like a 404", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
			})
		})

		Convey("When the path escapes the root", func() {
			_, err := f.Fetch(ctx, "../secrets.json")

			Convey("Then it is rejected as a transport error", func() {
				So(errors.Is(err, ErrTransport), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := f.Fetch(cctx, "data/projects.json")

			Convey("Then nothing is read", func() {
				So(errors.Is(err, ErrTransport), ShouldBeTrue)
			})
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given origins of both kinds", t, func() {
		Convey("Then http origins get an HTTP fetcher", func() {
			f, err := New("https://example.com", WithTimeout(time.Second))
			So(err, ShouldBeNil)
			_, ok := f.(*HTTPFetcher)
			So(ok, ShouldBeTrue)
		})

		Convey("And directories get a filesystem fetcher", func() {
			f, err := New(t.TempDir())
			So(err, ShouldBeNil)
			_, ok := f.(*FSFetcher)
			So(ok, ShouldBeTrue)
		})
	})
}
