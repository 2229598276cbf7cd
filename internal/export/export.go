package export

import (
	"context"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vango-dev/lifecycle/internal/config"
	"github.com/vango-dev/lifecycle/internal/errors"
)

// Store writes named objects.
type Store interface {
	// Put stores the contents of r under name and returns where it was
	// written.
	Put(ctx context.Context, name, contentType string, r io.Reader) (location string, err error)
}

// ContentType guesses the content type of name from its extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Resolve returns the Store and object name for dest. dest is an
// s3://bucket/key URL or a file path; relative paths are placed in
// cfg.Dir.
func Resolve(dest string, cfg config.ExportConfig) (Store, string, error) {
	if strings.HasPrefix(dest, "s3://") {
		u, err := url.Parse(dest)
		if err != nil {
			return nil, "", errors.New("E148").WithDetail("invalid destination " + dest).Wrap(err)
		}
		bucket := u.Host
		if bucket == "" {
			bucket = cfg.S3.Bucket
		}
		key := strings.TrimPrefix(u.Path, "/")
		if bucket == "" || key == "" {
			return nil, "", errors.New("E148").
				WithDetail("s3 destination needs a bucket and a key: " + dest).
				WithSuggestion("Use s3://bucket/key or set export.s3.bucket")
		}
		return NewS3Store(NewS3Client(cfg.S3), bucket, cfg.S3.Prefix), key, nil
	}

	dir, name := cfg.Dir, dest
	if filepath.IsAbs(dest) {
		dir, name = filepath.Dir(dest), filepath.Base(dest)
	}
	store, err := NewDiskStore(dir)
	if err != nil {
		return nil, "", err
	}
	return store, name, nil
}
