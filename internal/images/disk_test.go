package images

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const uploadsURL = "http://localhost:8000/uploads"

func TestDiskStore_SaveAndDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewDiskStore(dir, uploadsURL+"/")
	require.NoError(t, err)

	u, err := s.Save(ctx, "Beach.JPG", "image/jpeg", strings.NewReader("pixels"), 6)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, uploadsURL+"/"))
	assert.True(t, strings.HasSuffix(u, ".jpg"))
	assert.True(t, s.Owns(u))

	name := filepath.Base(u)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	require.NoError(t, s.Delete(ctx, u))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, s.Delete(ctx, u), ErrNotFound)
}

func TestDiskStore_SaveNilReader(t *testing.T) {
	s, err := NewDiskStore(t.TempDir(), uploadsURL)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "a.png", "", nil, 0)
	assert.ErrorIs(t, err, ErrNoFile)
}

func TestDiskStore_DeleteStaysInsideDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "uploads")
	s, err := NewDiskStore(dir, uploadsURL)
	require.NoError(t, err)

	secret := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("x"), 0o600))

	err = s.Delete(context.Background(), uploadsURL+"/../secret.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = os.Stat(secret)
	assert.NoError(t, err)
}

func TestDiskStore_List(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewDiskStore(dir, uploadsURL)
	require.NoError(t, err)

	u1, err := s.Save(ctx, "a.png", "", strings.NewReader("a"), 1)
	require.NoError(t, err)
	u2, err := s.Save(ctx, "b", "", strings.NewReader("b"), 1)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	objects, err := s.List(ctx)
	require.NoError(t, err)
	var urls []string
	for _, o := range objects {
		urls = append(urls, o.URL)
		assert.False(t, o.ModTime.IsZero())
	}
	assert.ElementsMatch(t, []string{u1, u2}, urls)
}

func TestOwns(t *testing.T) {
	s := &DiskStore{BaseURL: uploadsURL}
	assert.True(t, s.Owns(uploadsURL+"/x.png"))
	assert.False(t, s.Owns("http://localhost:8000/assests/placeholder1.jpeg"))
	assert.False(t, s.Owns("https://cdn.example.com/uploads/x.png"))
	assert.False(t, (&DiskStore{}).Owns("/x.png"))
}

func TestGenerateName(t *testing.T) {
	assert.True(t, strings.HasSuffix(generateName("photo.PNG"), ".png"))
	assert.NotContains(t, generateName("noext"), ".")
	assert.NotEqual(t, generateName("a.jpg"), generateName("a.jpg"))
	assert.NotContains(t, generateName("x.averyveryverylongextension"), "long")
}
