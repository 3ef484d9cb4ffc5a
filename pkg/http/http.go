// Package http wraps the standard HTTP client with the transport settings
// and error classification used by the feed fetcher. It exposes exactly the
// two request kinds the fetcher needs: a header-only probe and a full
// content GET.
package http

import (
	"context"
	"mime"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/nbhansali/drivefeed/internal/logger"
)

const (
	defaultConnectTimeout = 30 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	keepAlivePeriod       = 30 * time.Second
	maxIdleConns          = 100
	tlsHandshakeTimeout   = 10 * time.Second
	expectContinueTimeout = 1 * time.Second
	maxConnsPerHost       = 16

	DefaultUserAgent = "drivefeed/1.0"

	defaultResourceName = "resource"
)

type Client struct {
	*http.Client

	userAgent string
}

// NewClient creates a new HTTP client with custom transport settings.
func NewClient() *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultConnectTimeout,
			KeepAlive: keepAlivePeriod,
		}).DialContext,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       defaultIdleTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		MaxConnsPerHost:       maxConnsPerHost,
	}

	return &Client{
		Client:    &http.Client{Transport: transport},
		userAgent: DefaultUserAgent,
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.userAgent = ua
	}

	return c
}

// Head performs a header-only probe against the given URL. The response
// body is closed before returning; only status and headers are meaningful.
func (c *Client) Head(ctx context.Context, urlStr string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	req, err := c.generateRequest(ctx, urlStr, http.MethodHead)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Sending HEAD request to %s", urlStr)

	resp, err := c.Do(req)
	if err != nil {
		logger.Errorf("HEAD request failed for %s: %v", urlStr, err)
		return nil, ClassifyError(err)
	}
	resp.Body.Close()

	logger.Debugf("HEAD response for %s: status=%d", urlStr, resp.StatusCode)

	return resp, nil
}

// Get performs a full content GET. The caller owns the response body and
// decides what each status means; only transport failures are classified
// here.
func (c *Client) Get(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := c.generateRequest(ctx, urlStr, http.MethodGet)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Sending GET request to %s", urlStr)

	resp, err := c.Do(req)
	if err != nil {
		logger.Errorf("GET request failed for %s: %v", urlStr, err)
		return nil, ClassifyError(err)
	}

	logger.Debugf("GET response for %s: status=%d", urlStr, resp.StatusCode)

	return resp, nil
}

func (c *Client) generateRequest(ctx context.Context, urlStr, method string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, http.NoBody)
	if err != nil {
		logger.Errorf("Failed to create %s request for %s: %v", method, urlStr, err)
		return nil, ErrRequestCreation
	}

	req.Header.Set("User-Agent", c.userAgent)

	return req, nil
}

// GetFilename extracts the resource filename from the Content-Disposition
// header or the URL path, falling back to a generic name.
func GetFilename(resp *http.Response) string {
	fileName, ok := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if ok {
		return fileName
	}

	u := resp.Request.URL
	if qname := u.Query().Get("filename"); qname != "" {
		return qname
	}

	base := path.Base(u.Path)
	if base != "" && base != "/" && base != "." {
		return base
	}

	return defaultResourceName
}

func filenameFromContentDisposition(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	if _, params, err := mime.ParseMediaType(header); err == nil {
		if fName, ok := params["filename"]; ok {
			return fName, true
		}

		if fName, ok := params["filename*"]; ok {
			return fName, true
		}
	}

	return "", false
}

// ParseLastModified parses the Last-Modified header (RFC1123 format).
func ParseLastModified(header string) time.Time {
	if header == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC1123, header)
	if err != nil {
		logger.Debugf("Failed to parse Last-Modified header: %s, error: %v", header, err)
		return time.Time{}
	}

	return t
}
