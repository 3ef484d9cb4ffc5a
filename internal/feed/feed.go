// Package feed ties the pipeline together: a validated share link, the
// fetcher that stages its content, and the parser that structures it.
package feed

import (
	"context"

	"github.com/nbhansali/drivefeed/internal/fetcher"
	"github.com/nbhansali/drivefeed/internal/logger"
	"github.com/nbhansali/drivefeed/internal/parser"
	"github.com/nbhansali/drivefeed/pkg/gdrive"
)

// Feed is a public share-link file treated as a structured data source.
// A Feed is immutable after construction and safe for concurrent use; each
// Start call stages and releases its own temporary file.
type Feed struct {
	link    gdrive.Link
	fetcher *fetcher.Fetcher
}

// New validates rawLink and returns a feed over it. An input that does not
// match the share-link pattern fails with a format error.
func New(rawLink string, f *fetcher.Fetcher) (*Feed, error) {
	link, err := gdrive.ParseLink(rawLink)
	if err != nil {
		return nil, err
	}

	return &Feed{link: link, fetcher: f}, nil
}

// Link returns the validated share link.
func (f *Feed) Link() gdrive.Link {
	return f.link
}

// IsAccessible probes whether the shared file answers with success. It
// never fails; unreachable simply reports false.
func (f *Feed) IsAccessible(ctx context.Context) bool {
	return f.fetcher.IsAccessible(ctx, f.link.ExportURL())
}

// Start fetches the shared file, stages it, parses it into the requested
// shape and releases the staged file before returning, on success and on
// every failure path alike.
func (f *Feed) Start(ctx context.Context, shape parser.Shape, withHeader bool) (parser.Result, error) {
	staged, err := f.fetcher.FetchAndStage(ctx, f.link.ExportURL(), f.link.ResourceID())
	if err != nil {
		return parser.Result{}, err
	}

	defer func() {
		if rerr := staged.Release(); rerr != nil {
			logger.Warnf("Failed to release staged file for %s: %v", f.link.ResourceID(), rerr)
		}
	}()

	text, err := staged.ReadText()
	if err != nil {
		return parser.Result{}, err
	}

	res, err := parser.Parse(text, shape, withHeader)
	if err != nil {
		return parser.Result{}, err
	}

	logger.Infof("Parsed %d %s element(s) for resource %s", res.Len(), res.Shape(), f.link.ResourceID())

	return res, nil
}
