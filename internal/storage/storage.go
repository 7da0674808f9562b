// Package storage persists uploaded resumes in S3-compatible object storage or
// on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("object not found")

// Blob stores opaque objects by key
type Blob interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Config selects and configures a Blob backend
type Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Dir       string
}

// New returns an S3 backend when a bucket is configured, otherwise a disk backend.
func New(ctx context.Context, cfg Config) (Blob, error) {
	if cfg.Bucket != "" {
		return NewS3(ctx, cfg)
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("storage: either a bucket or an upload directory is required")
	}
	return NewDisk(cfg.Dir)
}

// ResumeKey builds the object key for an uploaded resume. Only the extension of
// the client-supplied filename is kept.
func ResumeKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "resumes/" + uuid.New().String() + ext
}
