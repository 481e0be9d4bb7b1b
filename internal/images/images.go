// Package images stores story images and maps them to public URLs.
package images

import (
	"context"
	"errors"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("image not found")
	ErrNoFile   = errors.New("no image uploaded")
)

// Object is a stored image as seen by the orphan sweep.
type Object struct {
	URL     string
	ModTime time.Time
}

// Store is implemented by the disk and MinIO backends.
type Store interface {
	// Save stores r under a generated name and returns its public URL.
	Save(ctx context.Context, originalName, contentType string, r io.Reader, size int64) (string, error)
	// Delete removes the image the URL points at. A missing image yields ErrNotFound.
	Delete(ctx context.Context, imageURL string) error
	// Owns reports whether imageURL was produced by this store.
	Owns(imageURL string) bool
	List(ctx context.Context) ([]Object, error)
}

// generateName keeps the original extension so static serving picks a
// sensible content type.
func generateName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// ObjectName extracts the stored name from an image URL. Only the last path
// segment is used, so a URL can never address anything outside the store.
func ObjectName(imageURL string) (string, bool) {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	name := path.Base(p)
	if name == "." || name == "/" || name == ".." || name == "" {
		return "", false
	}
	return name, true
}

func hasBase(imageURL, base string) bool {
	return base != "" && strings.HasPrefix(imageURL, base+"/")
}
