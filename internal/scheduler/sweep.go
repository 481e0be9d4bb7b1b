package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/travel-journal/internal/images"
	"github.com/crucial707/travel-journal/internal/metrics"
)

// ReferenceSource reports which image URLs are still used by stories.
type ReferenceSource interface {
	ImageURLs(ctx context.Context) (map[string]struct{}, error)
}

// ImageSweeper removes stored images that no story references. Images
// younger than Grace are kept so an upload has time to be attached to a story.
type ImageSweeper struct {
	Store images.Store
	Refs  ReferenceSource
	Grace time.Duration

	now func() time.Time
}

func NewImageSweeper(store images.Store, refs ReferenceSource, grace time.Duration) *ImageSweeper {
	return &ImageSweeper{Store: store, Refs: refs, Grace: grace, now: time.Now}
}

// Sweep deletes orphaned images and returns how many were removed.
func (s *ImageSweeper) Sweep(ctx context.Context) (int, error) {
	objects, err := s.Store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list images: %w", err)
	}
	// references are read after listing so an image attached meanwhile is seen
	refs, err := s.Refs.ImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("load image references: %w", err)
	}

	// matched by stored name; the public base URL may have changed since upload
	used := make(map[string]struct{}, len(refs))
	for u := range refs {
		if name, ok := images.ObjectName(u); ok {
			used[name] = struct{}{}
		}
	}

	cutoff := s.now().Add(-s.Grace)
	removed := 0
	for _, obj := range objects {
		name, ok := images.ObjectName(obj.URL)
		if !ok || obj.ModTime.After(cutoff) {
			continue
		}
		if _, referenced := used[name]; referenced {
			continue
		}
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		err := s.Store.Delete(ctx, obj.URL)
		if err != nil && !errors.Is(err, images.ErrNotFound) {
			slog.Warn("sweep: delete image failed", "image_url", obj.URL, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		metrics.AddImagesSwept(removed)
		slog.Info("sweep: removed orphaned images", "count", removed)
	}
	return removed, nil
}

// Job adapts Sweep to Scheduler.Add.
func (s *ImageSweeper) Job(ctx context.Context) error {
	_, err := s.Sweep(ctx)
	return err
}
