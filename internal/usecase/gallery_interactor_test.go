package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/messaging/payloads"
	"github.com/stretchr/testify/require"
)

func newGalleryFixture() (GalleryUseCase, *memStore, *fakeFileStorage, *fakePublisher) {
	store := newMemStore()
	files := newFakeFileStorage()
	publisher := &fakePublisher{}
	uc := NewGalleryUseCase(store, store, files, publisher, newTestLogger())
	return uc, store, files, publisher
}

func uploadTestImage(t *testing.T, uc GalleryUseCase, ownerID string, params UploadParams) *domain.Image {
	t.Helper()
	image, err := uc.UploadImage(context.Background(), ownerID, strings.NewReader("png-bytes"), params)
	require.NoError(t, err)
	return image
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("WithoutPost", func(t *testing.T) {
		uc, store, files, _ := newGalleryFixture()

		image := uploadTestImage(t, uc, "user-1", UploadParams{
			Prompt:    "a cat in space",
			ArtStyle:  "digital",
			ColorTone: "bright",
			Tags:      []string{"cat", "space"},
			FileName:  "cat.png",
		})

		require.NotZero(t, image.ID)
		require.Equal(t, "user-1", image.UserID)
		require.Nil(t, image.Post)
		require.True(t, strings.HasPrefix(image.FilePath, "user-1/"))
		require.True(t, strings.HasSuffix(image.FilePath, ".png"))

		stored, err := store.GetImageForOwner(ctx, image.ID, "user-1")
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Contains(t, files.objects, image.FilePath)
	})

	t.Run("WithPost", func(t *testing.T) {
		uc, store, _, _ := newGalleryFixture()

		image := uploadTestImage(t, uc, "user-1", UploadParams{
			Prompt:          "sunset",
			FileName:        "sunset.webp",
			PostTitle:       "My sunset",
			PostDescription: "generated yesterday",
		})

		require.NotNil(t, image.Post)
		require.Equal(t, "My sunset", image.Post.Title)
		require.NotNil(t, image.Post.Description)

		post, err := store.GetPostByImageID(ctx, image.ID)
		require.NoError(t, err)
		require.NotNil(t, post)
	})

	t.Run("WithoutIdentity", func(t *testing.T) {
		uc, _, _, _ := newGalleryFixture()

		_, err := uc.UploadImage(ctx, "", strings.NewReader("x"), UploadParams{FileName: "a.png"})
		require.True(t, domain.IsCode(err, domain.CodeUnauthorized))
	})

	t.Run("BlobCleanedUpOnInsertFailure", func(t *testing.T) {
		uc, store, files, _ := newGalleryFixture()
		store.failCreateImage = true

		_, err := uc.UploadImage(ctx, "user-1", strings.NewReader("x"), UploadParams{FileName: "a.png"})
		require.Error(t, err)
		require.Empty(t, files.objects)
		require.Len(t, files.deleted, 1)
	})
}

func TestListImagesPagination(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newGalleryFixture()

	for i := 0; i < 25; i++ {
		uploadTestImage(t, uc, "user-1", UploadParams{FileName: "img.png", ArtStyle: "digital"})
	}
	filter := domain.GalleryFilter{OwnerID: "user-1"}

	t.Run("Defaults", func(t *testing.T) {
		page, err := uc.ListImages(ctx, filter, 0, 0, "")
		require.NoError(t, err)
		require.Len(t, page.Images, 12)
		require.Equal(t, 25, page.TotalCount)
		require.True(t, page.HasMore)
	})

	t.Run("LastPage", func(t *testing.T) {
		page, err := uc.ListImages(ctx, filter, 3, 12, "")
		require.NoError(t, err)
		require.Len(t, page.Images, 1)
		require.False(t, page.HasMore)
	})

	t.Run("BeyondEnd", func(t *testing.T) {
		page, err := uc.ListImages(ctx, filter, 10, 12, "")
		require.NoError(t, err)
		require.Empty(t, page.Images)
		require.False(t, page.HasMore)
	})

	t.Run("SortOldestFirst", func(t *testing.T) {
		page, err := uc.ListImages(ctx, filter, 1, 5, "oldest")
		require.NoError(t, err)
		require.Len(t, page.Images, 5)
		require.Equal(t, int64(1), page.Images[0].ID)
	})

	t.Run("SortLatestByDefault", func(t *testing.T) {
		page, err := uc.ListImages(ctx, filter, 1, 5, "")
		require.NoError(t, err)
		require.Equal(t, int64(25), page.Images[0].ID)
	})

	t.Run("FilterMismatch", func(t *testing.T) {
		page, err := uc.ListImages(ctx, domain.GalleryFilter{OwnerID: "user-1", ArtStyle: "oil"}, 1, 12, "")
		require.NoError(t, err)
		require.Empty(t, page.Images)
		require.Equal(t, 0, page.TotalCount)
	})
}

func TestUpdateImage(t *testing.T) {
	ctx := context.Background()
	uc, _, _, _ := newGalleryFixture()

	image := uploadTestImage(t, uc, "user-1", UploadParams{
		FileName:  "a.png",
		ArtStyle:  "digital",
		ColorTone: "bright",
		PostTitle: "Original title",
	})

	t.Run("PartialPatch", func(t *testing.T) {
		style := "oil"
		updated, err := uc.UpdateImage(ctx, image.ID, "user-1", domain.ImagePatch{ArtStyle: &style})
		require.NoError(t, err)
		require.Equal(t, "oil", updated.ArtStyle)
		// нетронутые поля остаются как были
		require.Equal(t, "bright", updated.ColorTone)
	})

	t.Run("PostFields", func(t *testing.T) {
		title := "New title"
		_, err := uc.UpdateImage(ctx, image.ID, "user-1", domain.ImagePatch{PostTitle: &title})
		require.NoError(t, err)

		page, err := uc.ListImages(ctx, domain.GalleryFilter{OwnerID: "user-1"}, 1, 12, "")
		require.NoError(t, err)
		require.NotNil(t, page.Images[0].Post)
		require.Equal(t, "New title", page.Images[0].Post.Title)
	})

	t.Run("NotOwner", func(t *testing.T) {
		style := "pen"
		_, err := uc.UpdateImage(ctx, image.ID, "user-2", domain.ImagePatch{ArtStyle: &style})
		require.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("Missing", func(t *testing.T) {
		style := "pen"
		_, err := uc.UpdateImage(ctx, 9999, "user-1", domain.ImagePatch{ArtStyle: &style})
		require.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}

func TestDeleteImage(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesBlobAndCascades", func(t *testing.T) {
		uc, store, files, _ := newGalleryFixture()

		image := uploadTestImage(t, uc, "user-1", UploadParams{FileName: "a.png"})
		post, err := uc.ShareImage(ctx, image.ID, "user-1", "Shared", "", nil)
		require.NoError(t, err)

		_, err = store.ToggleLike(ctx, post.ID, "user-2")
		require.NoError(t, err)
		require.NoError(t, store.CreateComment(ctx, &domain.Comment{PostID: post.ID, UserID: "user-2", Content: "nice"}))

		require.NoError(t, uc.DeleteImage(ctx, image.ID, "user-1"))

		require.NotContains(t, files.objects, image.FilePath)
		gone, err := store.GetPostByID(ctx, post.ID)
		require.NoError(t, err)
		require.Nil(t, gone)

		state, err := store.GetLikeState(ctx, post.ID, "user-2")
		require.NoError(t, err)
		require.Zero(t, state.Likes)

		comments, err := store.ListComments(ctx, post.ID)
		require.NoError(t, err)
		require.Empty(t, comments)
	})

	t.Run("NotOwner", func(t *testing.T) {
		uc, _, _, _ := newGalleryFixture()
		image := uploadTestImage(t, uc, "user-1", UploadParams{FileName: "a.png"})

		err := uc.DeleteImage(ctx, image.ID, "user-2")
		require.True(t, domain.IsCode(err, domain.CodeNotFound))
	})

	t.Run("RowKeptWhenBlobDeleteFails", func(t *testing.T) {
		uc, store, files, _ := newGalleryFixture()
		image := uploadTestImage(t, uc, "user-1", UploadParams{FileName: "a.png"})
		files.failDelete = true

		err := uc.DeleteImage(ctx, image.ID, "user-1")
		require.True(t, domain.IsCode(err, domain.CodeStorageError))

		kept, err := store.GetImageForOwner(ctx, image.ID, "user-1")
		require.NoError(t, err)
		require.NotNil(t, kept)
	})
}

func TestShareImage(t *testing.T) {
	ctx := context.Background()

	t.Run("PublishesAndFlipsVisibility", func(t *testing.T) {
		uc, store, _, publisher := newGalleryFixture()
		image := uploadTestImage(t, uc, "user-1", UploadParams{
			FileName: "a.png",
			Prompt:   "a fox",
			ArtStyle: "watercolor",
		})

		post, err := uc.ShareImage(ctx, image.ID, "user-1", "My fox", "watercolor fox", []string{"fox"})
		require.NoError(t, err)
		require.NotZero(t, post.ID)
		require.NotNil(t, post.Image)
		require.Equal(t, "a fox", post.Image.Prompt)

		stored, err := store.GetImageForOwner(ctx, image.ID, "user-1")
		require.NoError(t, err)
		require.True(t, stored.IsPublic)

		events := publisher.published()
		require.Len(t, events, 1)
		require.Equal(t, payloads.ActivityPostShared, events[0].Kind)
		require.Equal(t, post.ID, events[0].PostID)
	})

	t.Run("TitleRequired", func(t *testing.T) {
		uc, _, _, _ := newGalleryFixture()
		image := uploadTestImage(t, uc, "user-1", UploadParams{FileName: "a.png"})

		_, err := uc.ShareImage(ctx, image.ID, "user-1", "   ", "", nil)
		require.True(t, domain.IsCode(err, domain.CodeInvalidRequest))
	})

	t.Run("DoubleShare", func(t *testing.T) {
		uc, _, _, _ := newGalleryFixture()
		image := uploadTestImage(t, uc, "user-1", UploadParams{FileName: "a.png"})

		_, err := uc.ShareImage(ctx, image.ID, "user-1", "First", "", nil)
		require.NoError(t, err)

		_, err = uc.ShareImage(ctx, image.ID, "user-1", "Second", "", nil)
		require.True(t, domain.IsCode(err, domain.CodeAlreadyShared))
	})

	t.Run("NotOwner", func(t *testing.T) {
		uc, _, _, _ := newGalleryFixture()
		image := uploadTestImage(t, uc, "user-1", UploadParams{FileName: "a.png"})

		_, err := uc.ShareImage(ctx, image.ID, "user-2", "Stolen", "", nil)
		require.True(t, domain.IsCode(err, domain.CodeNotFound))
	})
}
