package export

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vango-dev/lifecycle/internal/errors"
)

// DiskStore stores objects on the local filesystem. Each object has a
// JSON sidecar named <object>.meta.
type DiskStore struct {
	dir string
}

// Meta describes a stored object.
type Meta struct {
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewDiskStore creates a DiskStore writing below dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.New("E148").Wrap(err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *DiskStore) Dir() string {
	return s.dir
}

// Put implements Store. The object is written to a temporary file and
// renamed into place, so readers never see partial output.
func (s *DiskStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if !filepath.IsLocal(name) {
		return "", errors.New("E148").WithDetail("object name escapes the export directory: " + name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.New("E148").Wrap(err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return "", errors.New("E148").Wrap(err)
	}
	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", errors.New("E148").Wrap(err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return "", errors.New("E148").Wrap(err)
	}

	meta := &Meta{ContentType: contentType, Size: written, CreatedAt: time.Now()}
	if err := s.saveMeta(name, meta); err != nil {
		return "", errors.New("E148").Wrap(err)
	}
	return path, nil
}

// Stat returns the metadata stored for name.
func (s *DiskStore) Stat(name string) (*Meta, error) {
	data, err := os.ReadFile(s.metaPath(name))
	if err != nil {
		return nil, err
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *DiskStore) metaPath(name string) string {
	return filepath.Join(s.dir, name+".meta")
}

func (s *DiskStore) saveMeta(name string, meta *Meta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(name), data, 0644)
}
