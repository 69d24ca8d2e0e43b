package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostStorage реализует ports.PostStorage поверх PostgreSQL (sqlx).
type PostStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostStorage(db *sqlx.DB, logger *slog.Logger) *PostStorage {
	return &PostStorage{db: db, logger: logger}
}

const uniqueViolation = "23505"

// PublishImage вставляет пост и поднимает флаг is_public изображения
// в одной транзакции. Публикация — односторонний переход: повторная
// попытка упирается в UNIQUE(image_id) и дает ALREADY_SHARED.
func (s *PostStorage) PublishImage(ctx context.Context, post *domain.Post) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowxContext(ctx, `
	INSERT INTO posts (image_id, user_id, title, description)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at, updated_at
	`, post.ImageID, post.UserID, post.Title, post.Description)
	if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			s.logger.Warn("image already shared", "image_id", post.ImageID)
			return domain.NewError(domain.CodeAlreadyShared, "Image is already shared")
		}
		s.logger.Error("failed to insert post", "image_id", post.ImageID, "error", err)
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
	UPDATE images SET is_public = TRUE, updated_at = now() WHERE id = $1
	`, post.ImageID); err != nil {
		s.logger.Error("failed to publish image", "image_id", post.ImageID, "error", err)
		return fmt.Errorf("ошибка при публикации изображения: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	s.logger.Info("image published successfully",
		"post_id", post.ID,
		"image_id", post.ImageID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetPostByID возвращает пост или (nil, nil), если его нет.
func (s *PostStorage) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	err := s.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get post by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении поста по ID: %w", err)
	}
	return &post, nil
}

// GetPostByImageID возвращает пост изображения или (nil, nil).
func (s *PostStorage) GetPostByImageID(ctx context.Context, imageID int64) (*domain.Post, error) {
	var post domain.Post
	err := s.db.GetContext(ctx, &post, `SELECT * FROM posts WHERE image_id = $1`, imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get post by image id", "image_id", imageID, "error", err)
		return nil, fmt.Errorf("ошибка при получении поста по изображению: %w", err)
	}
	return &post, nil
}

// ListFeed возвращает страницу проекций публичных постов: счетчики
// лайков/комментариев и isLiked для зрителя считаются подзапросами.
func (s *PostStorage) ListFeed(ctx context.Context, viewerID string, limit, offset int, sortAsc bool) ([]domain.FeedPost, error) {
	start := time.Now()

	order := "DESC"
	if sortAsc {
		order = "ASC"
	}

	q := fmt.Sprintf(`
	SELECT p.id AS post_id,
	       i.file_path,
	       p.user_id,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)    AS likes,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments,
	       EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1) AS is_liked,
	       i.prompt,
	       p.created_at
	FROM posts p
	JOIN images i ON i.id = p.image_id
	WHERE i.is_public = TRUE
	ORDER BY p.created_at %s
	LIMIT $2 OFFSET $3
	`, order)

	var posts []domain.FeedPost
	if err := s.db.SelectContext(ctx, &posts, q, viewerID, limit, offset); err != nil {
		s.logger.Error("failed to list feed", "viewer_id", viewerID, "error", err)
		return nil, fmt.Errorf("ошибка при получении ленты: %w", err)
	}

	s.logger.Info("feed listed successfully",
		"count", len(posts),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return posts, nil
}

// CountFeed возвращает общее число публичных постов.
func (s *PostStorage) CountFeed(ctx context.Context) (int, error) {
	var count int
	q := `
	SELECT COUNT(*)
	FROM posts p
	JOIN images i ON i.id = p.image_id
	WHERE i.is_public = TRUE
	`
	if err := s.db.GetContext(ctx, &count, q); err != nil {
		s.logger.Error("failed to count feed", "error", err)
		return 0, fmt.Errorf("ошибка при подсчете постов ленты: %w", err)
	}
	return count, nil
}

// GetFeedPost возвращает проекцию одного поста с полями деталей.
// Флаг публичности здесь не проверяется: страница деталей доступна
// по прямому id, самого существования поста достаточно.
func (s *PostStorage) GetFeedPost(ctx context.Context, postID int64, viewerID string) (*domain.FeedPost, error) {
	var post domain.FeedPost
	q := `
	SELECT p.id AS post_id,
	       i.file_path,
	       p.user_id,
	       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id)    AS likes,
	       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments,
	       EXISTS (SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $2) AS is_liked,
	       i.prompt,
	       p.created_at,
	       p.title,
	       p.description,
	       i.art_style,
	       i.color_tone,
	       i.tags
	FROM posts p
	JOIN images i ON i.id = p.image_id
	WHERE p.id = $1
	`
	if err := s.db.GetContext(ctx, &post, q, postID, viewerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get feed post", "post_id", postID, "error", err)
		return nil, fmt.Errorf("ошибка при получении поста ленты: %w", err)
	}
	return &post, nil
}
