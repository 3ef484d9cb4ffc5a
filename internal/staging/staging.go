// Package staging owns the transient files that fetched content passes
// through before parsing. Every staged file is scoped: its release is
// guaranteed to run exactly once, on every exit path of the operation that
// created it.
package staging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/nbhansali/drivefeed/internal/errors"
	"github.com/nbhansali/drivefeed/internal/logger"
)

// Area is a directory that staged files are written under.
type Area struct {
	dir string
}

// NewArea ensures dir exists and returns a staging area rooted there.
func NewArea(dir string) (*Area, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewIOError(fmt.Errorf("failed to create staging directory: %w", err), dir)
	}

	return &Area{dir: dir}, nil
}

// Dir returns the directory staged files are written under.
func (a *Area) Dir() string {
	return a.dir
}

// Stage copies r into a fresh staged file keyed by resourceID. The file
// name carries a random suffix so concurrent fetches of the same resource
// never collide; any stale file at the exact target path is removed first.
// On any write failure the partial file is deleted and nothing is staged.
func (a *Area) Stage(resourceID string, r io.Reader) (*Staged, error) {
	name := fmt.Sprintf("%s-%s.txt", resourceID, uuid.NewString())
	path := filepath.Join(a.dir, name)

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, errors.NewIOError(err, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIOError(err, path)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(path)
		return nil, errors.NewIOError(err, path)
	}

	logger.Debugf("Staged %d bytes for resource %s at %s", written, resourceID, path)

	return &Staged{
		resourceID: resourceID,
		path:       path,
		size:       written,
	}, nil
}

// Staged is a scoped handle over one staged file.
type Staged struct {
	resourceID string
	path       string
	size       int64

	releaseOnce sync.Once
	releaseErr  error
}

// ResourceID returns the resource identifier the file was staged for.
func (s *Staged) ResourceID() string {
	return s.resourceID
}

// Path returns the staged file location.
func (s *Staged) Path() string {
	return s.path
}

// Size returns the number of bytes staged.
func (s *Staged) Size() int64 {
	return s.size
}

// ReadText reads the staged bytes back as UTF-8 text.
func (s *Staged) ReadText() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", errors.NewIOError(err, s.path)
	}

	return string(b), nil
}

// Release deletes the staged file. It is safe to call multiple times and
// from deferred cleanup paths; only the first call performs the deletion.
func (s *Staged) Release() error {
	s.releaseOnce.Do(func() {
		logger.Debugf("Releasing staged file %s", s.path)

		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			s.releaseErr = errors.NewIOError(err, s.path)
		}
	})

	return s.releaseErr
}
