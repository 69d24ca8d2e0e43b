package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newEngagementStore поднимает хранилище на sqlite в памяти.
// Составной ключ likes и семантика дубликатов те же, что в Postgres.
func newEngagementStore(t *testing.T) *GormEngagementStorage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Like{}, &domain.Comment{}))

	return NewGormEngagementStorage(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("ToggleTwiceRoundTrip", func(t *testing.T) {
		store := newEngagementStore(t)

		state, err := store.ToggleLike(ctx, 1, "user-1")
		require.NoError(t, err)
		require.True(t, state.IsLiked)
		require.Equal(t, 1, state.Likes)

		state, err = store.ToggleLike(ctx, 1, "user-1")
		require.NoError(t, err)
		require.False(t, state.IsLiked)
		require.Zero(t, state.Likes)
	})

	t.Run("IndependentUsers", func(t *testing.T) {
		store := newEngagementStore(t)

		_, err := store.ToggleLike(ctx, 1, "user-1")
		require.NoError(t, err)
		state, err := store.ToggleLike(ctx, 1, "user-2")
		require.NoError(t, err)
		require.Equal(t, 2, state.Likes)

		// снятие одного лайка не трогает второй
		state, err = store.ToggleLike(ctx, 1, "user-1")
		require.NoError(t, err)
		require.Equal(t, 1, state.Likes)
		require.False(t, state.IsLiked)

		other, err := store.GetLikeState(ctx, 1, "user-2")
		require.NoError(t, err)
		require.True(t, other.IsLiked)
	})

	t.Run("IndependentPosts", func(t *testing.T) {
		store := newEngagementStore(t)

		_, err := store.ToggleLike(ctx, 1, "user-1")
		require.NoError(t, err)

		state, err := store.GetLikeState(ctx, 2, "user-1")
		require.NoError(t, err)
		require.Zero(t, state.Likes)
		require.False(t, state.IsLiked)
	})
}

func TestComments_GormStore(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateAssignsID", func(t *testing.T) {
		store := newEngagementStore(t)

		comment := &domain.Comment{PostID: 1, UserID: "user-1", Content: "nice"}
		require.NoError(t, store.CreateComment(ctx, comment))
		require.NotZero(t, comment.ID)
		require.False(t, comment.CreatedAt.IsZero())
	})

	t.Run("NewestFirst", func(t *testing.T) {
		store := newEngagementStore(t)

		base := time.Now().Add(-time.Hour)
		for i, content := range []string{"first", "second", "third"} {
			comment := &domain.Comment{
				PostID:    1,
				UserID:    "user-1",
				Content:   content,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, store.CreateComment(ctx, comment))
		}

		comments, err := store.ListComments(ctx, 1)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		require.Equal(t, "third", comments[0].Content)
		require.Equal(t, "first", comments[2].Content)
	})

	t.Run("FilteredByPost", func(t *testing.T) {
		store := newEngagementStore(t)

		require.NoError(t, store.CreateComment(ctx, &domain.Comment{PostID: 1, UserID: "u", Content: "a"}))
		require.NoError(t, store.CreateComment(ctx, &domain.Comment{PostID: 2, UserID: "u", Content: "b"}))

		comments, err := store.ListComments(ctx, 1)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		require.Equal(t, "a", comments[0].Content)
	})
}
