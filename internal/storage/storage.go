package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains document storage abstractions. Two backends are
// provided: an S3-compatible object store (MinIO) and the local filesystem.
// Implementations rely on streaming I/O; callers never hold whole files in memory.

// ErrPresignUnsupported is returned by backends that cannot produce
// credential-less download URLs (the local filesystem backend).
var ErrPresignUnsupported = errors.New("presigned URLs are not supported by this backend")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the document byte-store interface shared by all backends.
// Methods use context and streaming readers/writers.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object
	// without credentials. Backends without URL support return ErrPresignUnsupported.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
