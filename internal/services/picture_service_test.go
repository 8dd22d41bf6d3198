package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BradenHooton/userservice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pictureFixture struct {
	user  *models.User
	repo  *MockUserRepository
	blobs *MockBlobStore
	cache *MockPictureCache
	tx    *MockTransactor
	svc   *PictureService
}

func newPictureFixture() *pictureFixture {
	f := &pictureFixture{
		user:  NewTestUser(42, "jane@example.com", "Jane"),
		blobs: NewMockBlobStore(),
		cache: NewMockPictureCache(),
		tx:    &MockTransactor{},
	}
	f.repo = &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			if id != f.user.ID {
				return nil, models.ErrNotFound
			}
			copied := *f.user
			return &copied, nil
		},
		SetProfilePicturePathFunc: func(ctx context.Context, id int64, path string) error {
			f.user.ProfilePicturePath = path
			return nil
		},
	}
	f.svc = NewPictureService(f.repo, f.blobs, f.cache, f.tx, newTestAudit(), newTestLogger())
	return f
}

func TestPictureService_AddProfilePicture_StoresUnderUserKey(t *testing.T) {
	f := newPictureFixture()

	user, err := f.svc.AddProfilePicture(context.Background(), 42, []byte("png-bytes"), "photo.png")

	require.NoError(t, err)
	assert.Equal(t, "pictureUserId_42.png", user.ProfilePicturePath)
	assert.Equal(t, "pictureUserId_42.png", f.user.ProfilePicturePath)
	assert.Equal(t, []byte("png-bytes"), f.blobs.Objects["pictureUserId_42.png"])
}

func TestPictureService_AddProfilePicture_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
	}{
		{name: "executable", data: []byte("MZ"), filename: "virus.exe"},
		{name: "no extension", data: []byte("x"), filename: "photo"},
		{name: "empty file", data: nil, filename: "photo.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPictureFixture()

			user, err := f.svc.AddProfilePicture(context.Background(), 42, tt.data, tt.filename)

			assert.Nil(t, user)
			assert.ErrorIs(t, err, models.ErrInvalidPicture)
			assert.Empty(t, f.blobs.Objects)
		})
	}
}

func TestPictureService_AddProfilePicture_ExtensionIsCaseInsensitive(t *testing.T) {
	f := newPictureFixture()

	user, err := f.svc.AddProfilePicture(context.Background(), 42, []byte("jpeg"), "Holiday.JPG")

	require.NoError(t, err)
	assert.Equal(t, "pictureUserId_42.jpg", user.ProfilePicturePath)
}

func TestPictureService_AddProfilePicture_ReplacingDropsOldObject(t *testing.T) {
	f := newPictureFixture()
	ctx := context.Background()

	_, err := f.svc.AddProfilePicture(ctx, 42, []byte("gif"), "a.gif")
	require.NoError(t, err)
	_, err = f.svc.AddProfilePicture(ctx, 42, []byte("png"), "b.png")
	require.NoError(t, err)

	assert.NotContains(t, f.blobs.Objects, "pictureUserId_42.gif")
	assert.Contains(t, f.blobs.Objects, "pictureUserId_42.png")
}

func TestPictureService_AddProfilePicture_UnknownUser(t *testing.T) {
	f := newPictureFixture()

	_, err := f.svc.AddProfilePicture(context.Background(), 7, []byte("x"), "a.png")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPictureService_DeleteProfilePicture_NoPictureIsFalse(t *testing.T) {
	f := newPictureFixture()

	deleted, err := f.svc.DeleteProfilePicture(context.Background(), 42)

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPictureService_DeleteProfilePicture_RemovesBlobAndPath(t *testing.T) {
	f := newPictureFixture()
	ctx := context.Background()
	_, err := f.svc.AddProfilePicture(ctx, 42, []byte("png"), "me.png")
	require.NoError(t, err)

	deleted, err := f.svc.DeleteProfilePicture(ctx, 42)

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, f.user.ProfilePicturePath)
	assert.Empty(t, f.blobs.Objects)
	assert.Equal(t, 1, f.tx.Commits)
}

func TestPictureService_DeleteProfilePicture_BlobFailureRollsBack(t *testing.T) {
	f := newPictureFixture()
	ctx := context.Background()
	_, err := f.svc.AddProfilePicture(ctx, 42, []byte("png"), "me.png")
	require.NoError(t, err)
	f.blobs.Err = fmt.Errorf("%w: bucket offline", models.ErrServiceUnavailable)

	deleted, err := f.svc.DeleteProfilePicture(ctx, 42)

	assert.False(t, deleted)
	assert.ErrorIs(t, err, models.ErrServiceUnavailable)
	assert.Equal(t, 1, f.tx.Rollbacks)
}

func TestPictureService_GetProfilePicture_ReadsThroughCache(t *testing.T) {
	f := newPictureFixture()
	ctx := context.Background()
	_, err := f.svc.AddProfilePicture(ctx, 42, []byte("png"), "me.png")
	require.NoError(t, err)

	first, err := f.svc.GetProfilePicture(ctx, 42)
	require.NoError(t, err)
	second, err := f.svc.GetProfilePicture(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, "image/png", first.MediaType)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, f.blobs.Gets)
}

func TestPictureService_GetProfilePicture_CacheFailureFallsBackToStore(t *testing.T) {
	f := newPictureFixture()
	ctx := context.Background()
	_, err := f.svc.AddProfilePicture(ctx, 42, []byte("jpeg"), "me.jpeg")
	require.NoError(t, err)
	f.cache.Err = errors.New("redis down")

	image, err := f.svc.GetProfilePicture(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", image.MediaType)
	assert.Equal(t, []byte("jpeg"), image.Data)
}

func TestPictureService_GetProfilePicture_Errors(t *testing.T) {
	f := newPictureFixture()
	ctx := context.Background()

	_, err := f.svc.GetProfilePicture(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound, "no picture set")

	f.user.ProfilePicturePath = "pictureUserId_42.gif"
	_, err = f.svc.GetProfilePicture(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound, "object missing from store")

	f.blobs.Err = fmt.Errorf("%w: timeout", models.ErrServiceUnavailable)
	_, err = f.svc.GetProfilePicture(ctx, 42)
	assert.ErrorIs(t, err, models.ErrServiceUnavailable)
}

func TestMediaTypeForKey(t *testing.T) {
	assert.Equal(t, "image/png", MediaTypeForKey("pictureUserId_1.png"))
	assert.Equal(t, "image/jpeg", MediaTypeForKey("pictureUserId_1.jpg"))
	assert.Equal(t, "image/jpeg", MediaTypeForKey("pictureUserId_1.jpeg"))
	assert.Equal(t, "application/octet-stream", MediaTypeForKey("pictureUserId_1.gif"))
	assert.Equal(t, "application/octet-stream", MediaTypeForKey("pictureUserId_1.bmp"))
}
