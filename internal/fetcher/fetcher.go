// Package fetcher performs the two HTTP interactions a feed needs: a
// reachability probe and the content download that stages bytes for the
// parser.
package fetcher

import (
	"context"
	"net/http"

	"github.com/nbhansali/drivefeed/internal/errors"
	"github.com/nbhansali/drivefeed/internal/logger"
	"github.com/nbhansali/drivefeed/internal/repository"
	"github.com/nbhansali/drivefeed/internal/staging"
	httpPkg "github.com/nbhansali/drivefeed/pkg/http"
)

// Fetcher downloads share-link content through an injected transport and
// stages it through an injected staging area.
type Fetcher struct {
	client *httpPkg.Client
	area   *staging.Area
	repo   repository.MetadataRepository
}

// New creates a fetcher. repo may be nil; metadata recording is then
// skipped.
func New(client *httpPkg.Client, area *staging.Area, repo repository.MetadataRepository) *Fetcher {
	return &Fetcher{
		client: client,
		area:   area,
		repo:   repo,
	}
}

// IsAccessible probes the export URL with a header-only request. It
// reports reachability and never fails: any transport error or non-200
// status yields false.
func (f *Fetcher) IsAccessible(ctx context.Context, url string) bool {
	resp, err := f.client.Head(ctx, url)
	if err != nil {
		logger.Debugf("Probe failed for %s: %v", url, err)
		return false
	}

	return resp.StatusCode == http.StatusOK
}

// FetchAndStage downloads the export URL and stages the body keyed by
// resourceID. A non-200 status fails with a transport error carrying the
// status code and stages nothing. The returned handle's Release deletes
// the staged file; the caller must run it on every exit path.
func (f *Fetcher) FetchAndStage(ctx context.Context, url, resourceID string) (*staging.Staged, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, errors.NewTransportError(err, url, 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Errorf("Content fetch for %s returned status %d", url, resp.StatusCode)
		return nil, errors.NewTransportError(httpPkg.ClassifyHTTPError(resp.StatusCode), url, resp.StatusCode)
	}

	staged, err := f.area.Stage(resourceID, resp.Body)
	if err != nil {
		return nil, err
	}

	f.recordMetadata(resourceID, resp, staged)

	return staged, nil
}

// recordMetadata stores fetch metadata when a repository is attached.
// Failures are logged, never surfaced; the cache is advisory.
func (f *Fetcher) recordMetadata(resourceID string, resp *http.Response, staged *staging.Staged) {
	if f.repo == nil {
		return
	}

	meta := repository.ResourceMeta{
		ResourceID:   resourceID,
		Filename:     httpPkg.GetFilename(resp),
		ContentType:  resp.Header.Get("Content-Type"),
		ETag:         resp.Header.Get("ETag"),
		Size:         staged.Size(),
		LastModified: httpPkg.ParseLastModified(resp.Header.Get("Last-Modified")),
	}

	if err := f.repo.Save(meta); err != nil {
		logger.Warnf("Failed to record metadata for %s: %v", resourceID, err)
	}
}
