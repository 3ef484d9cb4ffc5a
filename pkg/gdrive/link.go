// Package gdrive resolves public Google Drive share links into direct
// download addresses. Only anonymous "anyone with the link" files are
// supported; no authentication is performed.
package gdrive

import (
	"regexp"

	"github.com/nbhansali/drivefeed/internal/errors"
	"github.com/nbhansali/drivefeed/internal/logger"
)

const exportEndpoint = "https://drive.google.com/uc"

// linkPattern matches share links of the form
// scheme://host/file/d/{id}/view with an optional trailing suffix
// (?usp=sharing and friends). The id is the opaque resource token.
var linkPattern = regexp.MustCompile(`^https?://[^/]+/file/d/([A-Za-z0-9_-]+)/view`)

// Link is an immutable, validated share link.
type Link struct {
	raw        string
	resourceID string
}

// Validate reports whether raw matches the expected share-link pattern.
func Validate(raw string) bool {
	return linkPattern.MatchString(raw)
}

// ResourceID extracts the resource identifier token from raw, or returns
// the empty string when raw does not match the pattern. It never fails;
// callers that need a hard failure should go through ParseLink.
func ResourceID(raw string) string {
	m := linkPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}

// ExportURL builds the direct-download address for a resource identifier.
// Pure function, no I/O.
func ExportURL(resourceID string) string {
	return exportEndpoint + "?export=download&id=" + resourceID
}

// ParseLink validates raw and returns an immutable Link. An input that does
// not match the share-link pattern yields a format error and no Link.
func ParseLink(raw string) (Link, error) {
	if !Validate(raw) {
		logger.Debugf("Share link failed validation: %s", raw)
		return Link{}, errors.NewFormatError(errors.ErrInvalidShareLink, raw)
	}

	return Link{raw: raw, resourceID: ResourceID(raw)}, nil
}

// Raw returns the original share link text.
func (l Link) Raw() string {
	return l.raw
}

// ResourceID returns the captured identifier token. Non-empty for any Link
// produced by ParseLink.
func (l Link) ResourceID() string {
	return l.resourceID
}

// ExportURL returns the direct-download address for this link.
func (l Link) ExportURL() string {
	return ExportURL(l.resourceID)
}
