package repository

import "time"

// ResourceMeta records what the last successful fetch of a resource looked
// like. It is advisory bookkeeping; the staged content itself is never
// persisted.
type ResourceMeta struct {
	ResourceID   string    `json:"resourceId"`
	Filename     string    `json:"filename,omitempty"`
	ContentType  string    `json:"contentType,omitempty"`
	ETag         string    `json:"etag,omitempty"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified,omitempty"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// MetadataRepository persists per-resource fetch metadata.
type MetadataRepository interface {
	Save(meta ResourceMeta) error
	Find(resourceID string) (ResourceMeta, error)
	FindAll() ([]ResourceMeta, error)
	Delete(resourceID string) error
	Close() error
}
