package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// FSFetcher reads dataset bodies from a filesystem, e.g. a content directory
// or the embedded site.
type FSFetcher struct {
	fsys   fs.FS
	origin string
}

// NewFSFetcher creates a fetcher over fsys. origin is only used in logs.
func NewFSFetcher(fsys fs.FS, origin string) *FSFetcher {
	return &FSFetcher{fsys: fsys, origin: origin}
}

// NewDirFetcher creates a fetcher rooted at dir.
func NewDirFetcher(dir string) *FSFetcher {
	if dir == "" {
		dir = "."
	}
	return NewFSFetcher(os.DirFS(dir), dir)
}

// Origin returns the filesystem description.
func (f *FSFetcher) Origin() string { return f.origin }

// Fetch reads path. A missing file reports a 404 StatusError, like a static file server.
func (f *FSFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	const op = "fetch.fs"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}

	name := path.Clean(strings.TrimPrefix(p, "/"))
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%s: %w: invalid path %q", op, ErrTransport, p)
	}

	body, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, &StatusError{Code: http.StatusNotFound, URL: name})
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}
	return body, nil
}
