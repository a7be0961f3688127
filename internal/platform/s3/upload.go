package s3

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

// Target is a parsed s3://bucket/prefix destination.
type Target struct {
	Bucket string
	Prefix string
}

func (t Target) String() string {
	if t.Prefix == "" {
		return "s3://" + t.Bucket
	}
	return "s3://" + t.Bucket + "/" + t.Prefix
}

// Key returns the object key of name for a run.
func (t Target) Key(runID, name string) string {
	return path.Join(t.Prefix, runID, name)
}

// ParseURL parses an s3://bucket[/prefix] URL.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("invalid upload URL %q: %w", raw, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Target{}, fmt.Errorf("invalid upload URL %q: expected s3://bucket[/prefix]", raw)
	}
	return Target{Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
}

// ObjectWriter is the part of Client used by Upload.
type ObjectWriter interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, key string, data []byte) error
}

// Upload copies files to target under <prefix>/<runID>/ and returns the
// keys written. Files that do not exist are skipped.
func Upload(ctx context.Context, w ObjectWriter, target Target, runID string, files []string) ([]string, error) {
	logger := logr.FromContextOrDiscard(ctx)

	exists, err := w.BucketExists(ctx, target.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", target.Bucket)
	}

	var keys []string
	for _, file := range files {
		data, err := os.ReadFile(file)
		if errors.Is(err, os.ErrNotExist) {
			logger.V(1).Info("Skipping missing artifact", "file", file)
			continue
		}
		if err != nil {
			return keys, fmt.Errorf("failed to read %s: %w", file, err)
		}

		key := target.Key(runID, filepath.Base(file))
		if err := w.PutObject(ctx, target.Bucket, key, data); err != nil {
			return keys, err
		}
		logger.Info("Uploaded artifact", "bucket", target.Bucket, "key", key)
		keys = append(keys, key)
	}
	return keys, nil
}
