package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ImageStorage реализует ports.ImageStorage поверх PostgreSQL (sqlx).
type ImageStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewImageStorage(db *sqlx.DB, logger *slog.Logger) *ImageStorage {
	return &ImageStorage{db: db, logger: logger}
}

// CreateImage вставляет изображение и, опционально, его пост в одной транзакции.
func (s *ImageStorage) CreateImage(ctx context.Context, image *domain.Image, post *domain.Post) error {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	if image.Tags == nil {
		image.Tags = pq.StringArray{}
	}

	row := tx.QueryRowxContext(ctx, `
	INSERT INTO images (user_id, file_path, prompt, art_style, color_tone, tags, is_public)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at
	`, image.UserID, image.FilePath, image.Prompt, image.ArtStyle, image.ColorTone, image.Tags, image.IsPublic)
	if err := row.Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt); err != nil {
		s.logger.Error("failed to insert image", "user_id", image.UserID, "error", err)
		return fmt.Errorf("ошибка при сохранении изображения: %w", err)
	}

	if post != nil {
		post.ImageID = image.ID
		row := tx.QueryRowxContext(ctx, `
		INSERT INTO posts (image_id, user_id, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
		`, post.ImageID, post.UserID, post.Title, post.Description)
		if err := row.Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt); err != nil {
			s.logger.Error("failed to insert post for uploaded image", "image_id", image.ID, "error", err)
			return fmt.Errorf("ошибка при сохранении поста загруженного изображения: %w", err)
		}
		image.Post = post
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	s.logger.Info("image saved successfully",
		"id", image.ID,
		"user_id", image.UserID,
		"with_post", post != nil,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// GetImageForOwner возвращает изображение владельца ownerID вместе с постом.
// Чужое и несуществующее изображение неразличимы: оба дают (nil, nil).
func (s *ImageStorage) GetImageForOwner(ctx context.Context, id int64, ownerID string) (*domain.Image, error) {
	var image domain.Image
	err := s.db.GetContext(ctx, &image, `SELECT * FROM images WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		s.logger.Error("failed to get image for owner", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении изображения по ID: %w", err)
	}

	if err := s.attachPosts(ctx, []*domain.Image{&image}); err != nil {
		return nil, err
	}
	return &image, nil
}

// ListImages возвращает страницу изображений по фильтру с привязанными постами.
func (s *ImageStorage) ListImages(ctx context.Context, filter domain.GalleryFilter, limit, offset int, sortAsc bool) ([]domain.Image, error) {
	start := time.Now()

	where, args := buildGalleryWhere(filter)
	order := "DESC"
	if sortAsc {
		order = "ASC"
	}

	q := fmt.Sprintf(`SELECT * FROM images %s ORDER BY created_at %s LIMIT $%d OFFSET $%d`,
		where, order, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var images []domain.Image
	if err := s.db.SelectContext(ctx, &images, q, args...); err != nil {
		s.logger.Error("failed to list images", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка изображений: %w", err)
	}

	refs := make([]*domain.Image, len(images))
	for i := range images {
		refs[i] = &images[i]
	}
	if err := s.attachPosts(ctx, refs); err != nil {
		return nil, err
	}

	s.logger.Info("listed images successfully",
		"count", len(images),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return images, nil
}

// CountImages возвращает общее число изображений по фильтру.
func (s *ImageStorage) CountImages(ctx context.Context, filter domain.GalleryFilter) (int, error) {
	where, args := buildGalleryWhere(filter)

	var count int
	q := fmt.Sprintf(`SELECT COUNT(*) FROM images %s`, where)
	if err := s.db.GetContext(ctx, &count, q, args...); err != nil {
		s.logger.Error("failed to count images", "error", err)
		return 0, fmt.Errorf("ошибка при подсчете изображений: %w", err)
	}
	return count, nil
}

// UpdateImage применяет патч к изображению владельца и к его посту
// в одной транзакции. (nil, nil) — изображение не найдено или чужое.
func (s *ImageStorage) UpdateImage(ctx context.Context, id int64, ownerID string, patch domain.ImagePatch) (*domain.Image, error) {
	start := time.Now()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	var tags interface{}
	if patch.Tags != nil {
		tags = pq.StringArray(*patch.Tags)
	}

	res, err := tx.ExecContext(ctx, `
	UPDATE images
	SET art_style  = COALESCE($1, art_style),
	    color_tone = COALESCE($2, color_tone),
	    tags       = COALESCE($3, tags),
	    is_public  = COALESCE($4, is_public),
	    updated_at = now()
	WHERE id = $5 AND user_id = $6
	`, patch.ArtStyle, patch.ColorTone, tags, patch.IsPublic, id, ownerID)
	if err != nil {
		s.logger.Error("failed to update image", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при обновлении изображения: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке результата обновления: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	if patch.HasPostFields() {
		_, err := tx.ExecContext(ctx, `
		UPDATE posts
		SET title       = COALESCE($1, title),
		    description = COALESCE($2, description),
		    updated_at  = now()
		WHERE image_id = $3
		`, patch.PostTitle, patch.PostDescription, id)
		if err != nil {
			s.logger.Error("failed to update post of image", "image_id", id, "error", err)
			return nil, fmt.Errorf("ошибка при обновлении поста изображения: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	image, err := s.GetImageForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("image updated successfully",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return image, nil
}

// DeleteImage удаляет строку изображения; связанные пост, лайки
// и комментарии удаляются каскадом.
func (s *ImageStorage) DeleteImage(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id); err != nil {
		s.logger.Error("failed to delete image", "id", id, "error", err)
		return fmt.Errorf("ошибка при удалении изображения: %w", err)
	}
	s.logger.Info("image deleted", "id", id)
	return nil
}

// attachPosts одним запросом подтягивает посты для пачки изображений.
func (s *ImageStorage) attachPosts(ctx context.Context, images []*domain.Image) error {
	if len(images) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(images))
	byImageID := make(map[int64]*domain.Image, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
		byImageID[img.ID] = img
	}

	var posts []domain.Post
	err := s.db.SelectContext(ctx, &posts, `SELECT * FROM posts WHERE image_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		s.logger.Error("failed to load posts for images", "error", err)
		return fmt.Errorf("ошибка при загрузке постов изображений: %w", err)
	}

	for i := range posts {
		if img, ok := byImageID[posts[i].ImageID]; ok {
			p := posts[i]
			img.Post = &p
		}
	}
	return nil
}

// buildGalleryWhere собирает WHERE-условие и аргументы по фильтру галереи.
func buildGalleryWhere(filter domain.GalleryFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.OwnerID != "" {
		add("user_id = $%d", filter.OwnerID)
	}
	if filter.ArtStyle != "" {
		add("art_style = $%d", filter.ArtStyle)
	}
	if filter.ColorTone != "" {
		add("color_tone = $%d", filter.ColorTone)
	}
	if filter.PublicOnly {
		conditions = append(conditions, "is_public = TRUE")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
