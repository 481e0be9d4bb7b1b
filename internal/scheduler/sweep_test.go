package scheduler

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/crucial707/travel-journal/internal/images"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	objects   []images.Object
	listErr   error
	deleted   []string
	deleteErr map[string]error
}

func (f *fakeStore) Save(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeStore) Delete(_ context.Context, u string) error {
	if err := f.deleteErr[u]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, u)
	return nil
}
func (f *fakeStore) Owns(string) bool { return true }
func (f *fakeStore) List(context.Context) ([]images.Object, error) {
	return f.objects, f.listErr
}

type fakeRefs struct {
	urls map[string]struct{}
	err  error
}

func (f fakeRefs) ImageURLs(context.Context) (map[string]struct{}, error) { return f.urls, f.err }

func TestImageSweeper_RemovesOldUnreferenced(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)
	store := &fakeStore{objects: []images.Object{
		{URL: "u/orphan.jpg", ModTime: old},
		{URL: "u/used.jpg", ModTime: old},
		{URL: "u/fresh.jpg", ModTime: now.Add(-time.Hour)},
	}}
	refs := fakeRefs{urls: map[string]struct{}{"u/used.jpg": {}}}

	s := NewImageSweeper(store, refs, 24*time.Hour)
	s.now = func() time.Time { return now }

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"u/orphan.jpg"}, store.deleted)
}

func TestImageSweeper_MatchesReferencesByName(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)
	store := &fakeStore{objects: []images.Object{
		{URL: "https://new.example.com/uploads/kept.jpg", ModTime: old},
		{URL: "https://new.example.com/uploads/orphan.jpg", ModTime: old},
	}}
	// stories still carry the URL issued before PUBLIC_URL changed
	refs := fakeRefs{urls: map[string]struct{}{
		"http://old.example.com:8000/uploads/kept.jpg": {},
	}}

	s := NewImageSweeper(store, refs, 24*time.Hour)
	s.now = func() time.Time { return now }

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"https://new.example.com/uploads/orphan.jpg"}, store.deleted)
}

func TestImageSweeper_DeleteErrorsAreSkipped(t *testing.T) {
	now := time.Now()
	old := now.Add(-time.Hour)
	store := &fakeStore{
		objects: []images.Object{{URL: "a", ModTime: old}, {URL: "b", ModTime: old}, {URL: "c", ModTime: old}},
		deleteErr: map[string]error{
			"a": errors.New("permission denied"),
			"b": images.ErrNotFound,
		},
	}
	s := NewImageSweeper(store, fakeRefs{urls: map[string]struct{}{}}, time.Minute)

	n, err := s.Sweep(context.Background())
	require.NoError(t, err)
	// b vanished on its own and counts as removed
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"c"}, store.deleted)
}

func TestImageSweeper_Errors(t *testing.T) {
	_, err := NewImageSweeper(&fakeStore{listErr: errors.New("boom")}, fakeRefs{}, 0).Sweep(context.Background())
	assert.ErrorContains(t, err, "list images")

	store := &fakeStore{objects: []images.Object{{URL: "a"}}}
	_, err = NewImageSweeper(store, fakeRefs{err: errors.New("db down")}, 0).Sweep(context.Background())
	assert.ErrorContains(t, err, "load image references")
	assert.Empty(t, store.deleted, "nothing may be deleted without references")
}

func TestImageSweeper_StopsOnCancel(t *testing.T) {
	store := &fakeStore{objects: []images.Object{{URL: "a"}, {URL: "b"}}}
	s := NewImageSweeper(store, fakeRefs{urls: map[string]struct{}{}}, 0)
	s.now = func() time.Time { return time.Now().Add(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.deleted)
}
