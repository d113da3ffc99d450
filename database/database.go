package database

import (
	"context"
	"errors"
)

var (
	// ErrObjectNotFound is returned when a requested object does not exist.
	ErrObjectNotFound = errors.New("object not found")
	// ErrAccessDenied is returned when the store rejects the caller's
	// credentials for an operation.
	ErrAccessDenied = errors.New("access denied")
)

// ObjectEntry is one object in a listing.
type ObjectEntry struct {
	Key  string
	Size int64
}

// ListResult holds the entries and common prefixes of a single listing call.
type ListResult struct {
	Entries        []ObjectEntry
	CommonPrefixes []string
}

// ObjectStore defines the object storage operations the application
// consumes. Folders and documents are represented purely as key prefixes.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	// ListObjects lists keys under prefix. delimiter groups keys into
	// common prefixes; maxKeys <= 0 means no limit.
	ListObjects(ctx context.Context, bucket, prefix, delimiter string, maxKeys int32) (*ListResult, error)
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	DeleteObject(ctx context.Context, bucket, key string) error
}
