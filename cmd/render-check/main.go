package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/folio/internal/adapters/fetch"
	"github.com/okian/folio/internal/adapters/http/site"
	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/domain/page"
	"github.com/okian/folio/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout = 10 * time.Second
	embeddedSource = "embedded"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run performs one render pass and prints a line per dataset. It returns the
// process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("render-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		source  = fs.String("source", embeddedSource, "Data origin: base URL, directory, or \"embedded\"")
		timeout = fs.Duration("timeout", defaultTimeout, "Timeout for the whole pass")
		strict  = fs.Bool("strict", true, "Reject records with missing required fields")
		verbose = fs.Bool("v", false, "Enable debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := logger.InitWithWriter(stderr, "text"); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging:", err)
		return 1
	}
	level := "warn"
	if *verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	var fetcher fetch.Fetcher
	if *source == embeddedSource {
		fetcher = fetch.NewFSFetcher(site.FS(), embeddedSource)
	} else {
		f, err := fetch.New(*source, fetch.WithTimeout(*timeout))
		if err != nil {
			fmt.Fprintln(stderr, "invalid source:", err)
			return 1
		}
		fetcher = f
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	renderer := service.New(fetcher, service.WithStrict(*strict))
	report := renderer.LoadAll(ctx, service.DefaultSources(), page.New())

	fmt.Fprintf(stdout, "origin %s pass %s\n", renderer.Origin(), report.PassID)
	for _, res := range report.Results {
		if res.OK() {
			fmt.Fprintf(stdout, "ok   %-10s records=%d fragments=%d %s\n",
				res.Dataset, res.Records, res.Fragments, res.Duration.Round(time.Microsecond))
			continue
		}
		fmt.Fprintf(stdout, "FAIL %-10s kind=%s %v\n", res.Dataset, service.ErrorKind(res.Err), res.Err)
	}

	if !report.OK() {
		return 1
	}
	return 0
}
