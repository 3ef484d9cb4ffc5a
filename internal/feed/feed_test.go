package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/nbhansali/drivefeed/internal/errors"
	"github.com/nbhansali/drivefeed/internal/feed"
	"github.com/nbhansali/drivefeed/internal/fetcher"
	"github.com/nbhansali/drivefeed/internal/parser"
	"github.com/nbhansali/drivefeed/internal/staging"
	httpPkg "github.com/nbhansali/drivefeed/pkg/http"
)

const shareLink = "https://drive.google.com/file/d/res1/view?usp=sharing"

// rewriteTransport sends every request to the test server regardless of the
// host the export URL names, so feeds can be exercised against httptest.
type rewriteTransport struct {
	scheme string
	host   string
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = t.scheme
	clone.URL.Host = t.host

	return http.DefaultTransport.RoundTrip(clone)
}

// newTestFeed wires a feed against ts; stagingDir observes leftover files.
func newTestFeed(t *testing.T, ts *httptest.Server, link string) (*feed.Feed, string) {
	t.Helper()

	target, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}

	client := httpPkg.NewClient()
	client.Transport = rewriteTransport{scheme: target.Scheme, host: target.Host}

	dir := t.TempDir()

	area, err := staging.NewArea(dir)
	if err != nil {
		t.Fatalf("NewArea failed: %v", err)
	}

	f, err := feed.New(link, fetcher.New(client, area, nil))
	if err != nil {
		t.Fatalf("feed.New failed: %v", err)
	}

	return f, dir
}

func serveContent(t *testing.T, body string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uc" || r.URL.Query().Get("export") != "download" {
			t.Errorf("unexpected request: %s", r.URL)
			http.NotFound(w, r)

			return
		}

		if r.URL.Query().Get("id") != "res1" {
			http.NotFound(w, r)
			return
		}

		w.Write([]byte(body))
	}))
}

func assertNoLeftovers(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading staging dir: %v", err)
	}

	if len(entries) != 0 {
		t.Errorf("staged files left behind: %v", entries)
	}
}

func TestNewRejectsInvalidLink(t *testing.T) {
	_, err := feed.New("https://example.com/not-a-share-link", nil)
	if err == nil {
		t.Fatal("feed.New accepted an invalid link")
	}

	if !errors.IsFormatError(err) {
		t.Errorf("want format error, got %v", err)
	}
}

func TestStartRowsEndToEnd(t *testing.T) {
	ts := serveContent(t, "img1.jpg,img2.jpg | Obra 1 | https://x/video1 | etiqueta1,etiqueta2\nimg3.jpg | Obra 2 | https://x/video2 | etiqueta3")
	defer ts.Close()

	f, dir := newTestFeed(t, ts, shareLink)

	res, err := f.Start(context.Background(), parser.ShapeRows, false)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if res.Shape() != parser.ShapeRows || res.Len() != 2 {
		t.Fatalf("got shape=%v len=%d; want rows/2", res.Shape(), res.Len())
	}

	first := res.Rows()[0]
	if !first[0].Multi || len(first[0].Parts) != 2 || first[0].Parts[0] != "img1.jpg" {
		t.Errorf("first cell = %#v; want multi [img1.jpg img2.jpg]", first[0])
	}

	if first[1].Value != "Obra 1" {
		t.Errorf("second cell = %#v; want Obra 1", first[1])
	}

	assertNoLeftovers(t, dir)
}

func TestStartRecordsEndToEnd(t *testing.T) {
	ts := serveContent(t, "img|title|url|tags\na.jpg|T|u|x,y")
	defer ts.Close()

	f, dir := newTestFeed(t, ts, shareLink)

	res, err := f.Start(context.Background(), parser.ShapeRecords, true)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if res.Shape() != parser.ShapeRecords || res.Len() != 1 {
		t.Fatalf("got shape=%v len=%d; want records/1", res.Shape(), res.Len())
	}

	record := res.Records()[0]
	if record["img"].Value != "a.jpg" || record["title"].Value != "T" || record["url"].Value != "u" {
		t.Errorf("record = %#v", record)
	}

	tags := record["tags"]
	if !tags.Multi || len(tags.Parts) != 2 || tags.Parts[0] != "x" || tags.Parts[1] != "y" {
		t.Errorf("tags cell = %#v; want multi [x y]", tags)
	}

	assertNoLeftovers(t, dir)
}

func TestStartEmptyContent(t *testing.T) {
	ts := serveContent(t, "\n  \n")
	defer ts.Close()

	f, dir := newTestFeed(t, ts, shareLink)

	res, err := f.Start(context.Background(), parser.ShapeRows, false)
	if err != nil {
		t.Fatalf("Start failed on empty content: %v", err)
	}

	if res.Len() != 0 {
		t.Errorf("Len() = %d; want 0", res.Len())
	}

	assertNoLeftovers(t, dir)
}

func TestStartUnrecognizedShape(t *testing.T) {
	ts := serveContent(t, "a|b")
	defer ts.Close()

	f, dir := newTestFeed(t, ts, shareLink)

	res, err := f.Start(context.Background(), parser.Shape(42), false)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if res.Shape() != parser.ShapeNone || res.Len() != 0 {
		t.Errorf("got shape=%v len=%d; want none/0", res.Shape(), res.Len())
	}

	// The fetch happened and the staged file is still gone.
	assertNoLeftovers(t, dir)
}

func TestStartNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f, dir := newTestFeed(t, ts, shareLink)

	_, err := f.Start(context.Background(), parser.ShapeRows, false)
	if err == nil {
		t.Fatal("Start succeeded against a 404")
	}

	if !errors.IsTransportError(err) {
		t.Errorf("want transport error, got %v", err)
	}

	if errors.StatusCode(err) != http.StatusNotFound {
		t.Errorf("StatusCode = %d; want 404", errors.StatusCode(err))
	}

	assertNoLeftovers(t, dir)
}

func TestIsAccessible(t *testing.T) {
	ts := serveContent(t, "a|b")
	defer ts.Close()

	f, _ := newTestFeed(t, ts, shareLink)

	if !f.IsAccessible(context.Background()) {
		t.Error("IsAccessible() = false for a served feed")
	}

	down, _ := newTestFeed(t, ts, "https://drive.google.com/file/d/other/view")
	if down.IsAccessible(context.Background()) {
		t.Error("IsAccessible() = true for an unknown resource")
	}
}
