// Package fetch retrieves dataset bodies from a data origin.
package fetch

import (
	"context"
	"strings"
)

//go:generate mockgen -source=./fetcher.go -destination=./mocks/fetcher.mock.go -package=fetchmocks Fetcher

// Fetcher retrieves the raw body stored at a path relative to its origin.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
	// Origin describes where paths are resolved, for logs.
	Origin() string
}

// New picks an HTTP fetcher for http(s) origins and a directory fetcher otherwise.
func New(origin string, opts ...Option) (Fetcher, error) {
	if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
		return NewHTTPFetcher(origin, opts...)
	}
	return NewDirFetcher(origin), nil
}
