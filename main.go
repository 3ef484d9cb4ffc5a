package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
	"golang.org/x/sync/errgroup"

	"github.com/nbhansali/drivefeed/internal/config"
	"github.com/nbhansali/drivefeed/internal/feed"
	"github.com/nbhansali/drivefeed/internal/fetcher"
	"github.com/nbhansali/drivefeed/internal/logger"
	"github.com/nbhansali/drivefeed/internal/parser"
	"github.com/nbhansali/drivefeed/internal/repository"
	"github.com/nbhansali/drivefeed/internal/staging"
	"github.com/nbhansali/drivefeed/internal/tui"
	httpPkg "github.com/nbhansali/drivefeed/pkg/http"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging")
	shapeName := flag.String("shape", "rows", "Result shape: rows or records")
	withHeader := flag.Bool("header", false, "Treat the first line as a header (records shape only)")
	asJSON := flag.Bool("json", false, "Print results as JSON")
	withTUI := flag.Bool("tui", false, "Browse the first result interactively")
	probeOnly := flag.Bool("probe", false, "Only check that the shared files are reachable")
	flag.Parse()

	links := flag.Args()
	if len(links) == 0 {
		fmt.Fprintln(os.Stderr, "usage: drivefeed [flags] <share-link> [<share-link> ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatalf("Error reading configuration: %v\n", err)
	}

	err = logger.Init(*debug, filepath.Join(xdg.StateHome, "drivefeed", "drivefeed.log"))
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v\n", err)
	}
	defer logger.Close()

	area, err := staging.NewArea(cfg.StagingDir)
	if err != nil {
		log.Fatalf("Error preparing staging directory: %v\n", err)
	}

	var repo repository.MetadataRepository

	if bolt, err := repository.NewBboltRepository(cfg.MetadataDB); err != nil {
		logger.Warnf("Metadata store unavailable, continuing without it: %v", err)
	} else {
		repo = bolt
		defer bolt.Close()
	}

	client := httpPkg.NewClient().WithUserAgent(cfg.UserAgent)
	fetch := fetcher.New(client, area, repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shape := parser.ParseShape(*shapeName)

	if *probeOnly {
		os.Exit(runProbes(ctx, fetch, links))
	}

	results, failed := runFetches(ctx, fetch, links, cfg.MaxConcurrentFetches, shape, *withHeader)

	for i, link := range links {
		if results[i] == nil {
			continue
		}

		if err := printResult(link, *results[i], *asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", link, err)
			failed = true
		}
	}

	if *withTUI && results[0] != nil {
		if err := tui.Run(links[0], *results[0]); err != nil {
			fmt.Fprintln(os.Stderr, tui.RenderError(err))
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

// runProbes checks reachability of every link and reports per link. The
// probe never errors; an unreachable link only flips the exit code.
func runProbes(ctx context.Context, fetch *fetcher.Fetcher, links []string) int {
	code := 0

	for _, link := range links {
		f, err := feed.New(link, fetch)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", link, err)
			code = 1

			continue
		}

		if f.IsAccessible(ctx) {
			fmt.Printf("%s: reachable\n", link)
		} else {
			fmt.Printf("%s: unreachable\n", link)
			code = 1
		}
	}

	return code
}

// runFetches fetches and parses every link, at most maxConcurrent at a
// time. One link failing does not stop the others.
func runFetches(ctx context.Context, fetch *fetcher.Fetcher, links []string, maxConcurrent int, shape parser.Shape, withHeader bool) ([]*parser.Result, bool) {
	results := make([]*parser.Result, len(links))
	failed := false

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			f, err := feed.New(link, fetch)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", link, err)
				return nil
			}

			res, err := f.Start(ctx, shape, withHeader)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", link, err)
				return nil
			}

			results[i] = &res

			return nil
		})
	}

	g.Wait()

	for _, r := range results {
		if r == nil {
			failed = true
		}
	}

	return results, failed
}

func printResult(link string, res parser.Result, asJSON bool) error {
	if asJSON {
		var payload any

		switch res.Shape() {
		case parser.ShapeRows:
			payload = res.Rows()
		case parser.ShapeRecords:
			payload = res.Records()
		default:
			payload = nil
		}

		b, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(b))

		return nil
	}

	fmt.Printf("%s (%d %s)\n", link, res.Len(), res.Shape())

	switch res.Shape() {
	case parser.ShapeRows:
		for _, row := range res.Rows() {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = c.String()
			}

			fmt.Println("  " + strings.Join(cells, " | "))
		}
	case parser.ShapeRecords:
		for _, record := range res.Records() {
			pairs := make([]string, 0, len(record))
			for k, c := range record {
				pairs = append(pairs, k+"="+c.String())
			}

			fmt.Println("  " + strings.Join(pairs, " "))
		}
	}

	return nil
}
