package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bucketURL = "http://localhost:9000/travel-images"

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      bool

	putKey  string
	putBody string
	putSize int64
	putOpts minio.PutObjectOptions
	putErr  error

	removed   []string
	removeErr error

	statErr error

	listed []minio.ObjectInfo
}

func (f *fakeMinio) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) MakeBucket(_ context.Context, _ string, _ minio.MakeBucketOptions) error {
	f.madeBucket = true
	return f.makeBucketErr
}
func (f *fakeMinio) PutObject(_ context.Context, _ string, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	if f.putErr != nil {
		return minio.UploadInfo{}, f.putErr
	}
	b, _ := io.ReadAll(r)
	f.putKey, f.putBody, f.putSize, f.putOpts = key, string(b), size, opts
	return minio.UploadInfo{Key: key, Size: int64(len(b))}, nil
}
func (f *fakeMinio) RemoveObject(_ context.Context, _ string, key string, _ minio.RemoveObjectOptions) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, key)
	return nil
}
func (f *fakeMinio) StatObject(_ context.Context, _ string, key string, _ minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return minio.ObjectInfo{Key: key}, f.statErr
}
func (f *fakeMinio) ListObjects(_ context.Context, _ string, _ minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(f.listed))
	for _, o := range f.listed {
		ch <- o
	}
	close(ch)
	return ch
}

func TestNewMinioStore_CreatesMissingBucket(t *testing.T) {
	api := &fakeMinio{}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL)
	require.NoError(t, err)
	assert.True(t, api.madeBucket)
	assert.Equal(t, "b", s.bucket)
}

func TestNewMinioStore_BucketErrors(t *testing.T) {
	_, err := newMinioStoreWithAPI(context.Background(), &fakeMinio{bucketExistsErr: errors.New("boom")}, "b", bucketURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket existence")

	_, err = newMinioStoreWithAPI(context.Background(), &fakeMinio{makeBucketErr: errors.New("fail")}, "b", bucketURL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create bucket")
}

func TestMinioStore_Save(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL+"/")
	require.NoError(t, err)

	u, err := s.Save(context.Background(), "pic.png", "image/png", strings.NewReader("data"), 4)
	require.NoError(t, err)
	assert.Equal(t, bucketURL+"/"+api.putKey, u)
	assert.Equal(t, "data", api.putBody)
	assert.Equal(t, int64(4), api.putSize)
	assert.Equal(t, "image/png", api.putOpts.ContentType)
	assert.True(t, s.Owns(u))

	_, err = s.Save(context.Background(), "pic.png", "", strings.NewReader("data"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), api.putSize)
}

func TestMinioStore_SaveError(t *testing.T) {
	api := &fakeMinio{bucketExists: true, putErr: errors.New("disk full")}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "a.png", "", strings.NewReader("x"), 1)
	assert.ErrorContains(t, err, "failed to upload object")
}

func TestMinioStore_Delete(t *testing.T) {
	api := &fakeMinio{bucketExists: true}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL)
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), bucketURL+"/abc.png"))
	assert.Equal(t, []string{"abc.png"}, api.removed)
}

func TestMinioStore_DeleteMissing(t *testing.T) {
	api := &fakeMinio{bucketExists: true, statErr: minio.ErrorResponse{Code: "NoSuchKey"}}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Delete(context.Background(), bucketURL+"/gone.png"), ErrNotFound)
	assert.Empty(t, api.removed)
}

func TestMinioStore_DeleteStatError(t *testing.T) {
	api := &fakeMinio{bucketExists: true, statErr: errors.New("timeout")}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL)
	require.NoError(t, err)

	err = s.Delete(context.Background(), bucketURL+"/x.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMinioStore_List(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	api := &fakeMinio{bucketExists: true, listed: []minio.ObjectInfo{
		{Key: "a.png", LastModified: ts},
		{Key: "b.jpg", LastModified: ts},
	}}
	s, err := newMinioStoreWithAPI(context.Background(), api, "b", bucketURL)
	require.NoError(t, err)

	objects, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Object{
		{URL: bucketURL + "/a.png", ModTime: ts},
		{URL: bucketURL + "/b.jpg", ModTime: ts},
	}, objects)

	api.listed = []minio.ObjectInfo{{Err: errors.New("denied")}}
	_, err = s.List(context.Background())
	assert.ErrorContains(t, err, "failed to list objects")
}
