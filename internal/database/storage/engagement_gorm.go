package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"gorm.io/gorm"
)

// GormEngagementStorage реализует ports.EngagementStorage с использованием GORM.
// Лайки и комментарии живут отдельно от sqlx-хранилищ изображений и постов.
type GormEngagementStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormEngagementStorage(db *gorm.DB, logger *slog.Logger) *GormEngagementStorage {
	return &GormEngagementStorage{db: db, logger: logger}
}

// ToggleLike снимает лайк, если он есть, иначе ставит новый.
// Пара конкурентных "поставить" упирается в составной первичный ключ:
// дубликат вставки трактуем как уже поставленный лайк, счетчик
// не задваивается. Возвращает состояние после мутации.
func (s *GormEngagementStorage) ToggleLike(ctx context.Context, postID int64, userID string) (domain.LikeState, error) {
	start := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&domain.Like{})
		if res.Error != nil {
			return fmt.Errorf("ошибка при снятии лайка: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}

		like := domain.Like{PostID: postID, UserID: userID, CreatedAt: time.Now()}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// проиграли гонку такому же запросу; лайк уже стоит
				return nil
			}
			return fmt.Errorf("ошибка при установке лайка: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to toggle like", "post_id", postID, "user_id", userID, "error", err)
		return domain.LikeState{}, err
	}

	state, err := s.GetLikeState(ctx, postID, userID)
	if err != nil {
		return domain.LikeState{}, err
	}

	s.logger.Info("like toggled",
		"post_id", postID,
		"is_liked", state.IsLiked,
		"likes", state.Likes,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return state, nil
}

// GetLikeState возвращает число лайков поста и статус лайка для userID.
func (s *GormEngagementStorage) GetLikeState(ctx context.Context, postID int64, userID string) (domain.LikeState, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.Like{}).
		Where("post_id = ?", postID).
		Count(&total).Error; err != nil {
		s.logger.Error("failed to count likes", "post_id", postID, "error", err)
		return domain.LikeState{}, fmt.Errorf("ошибка при подсчете лайков: %w", err)
	}

	var mine int64
	if err := s.db.WithContext(ctx).Model(&domain.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&mine).Error; err != nil {
		s.logger.Error("failed to check like state", "post_id", postID, "error", err)
		return domain.LikeState{}, fmt.Errorf("ошибка при проверке лайка: %w", err)
	}

	return domain.LikeState{Likes: int(total), IsLiked: mine > 0}, nil
}

// CreateComment вставляет комментарий; id и created_at назначает бд.
func (s *GormEngagementStorage) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		s.logger.Error("failed to create comment", "post_id", comment.PostID, "error", err)
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}
	s.logger.Info("comment created", "id", comment.ID, "post_id", comment.PostID)
	return nil
}

// ListComments возвращает все комментарии поста, новые первыми.
func (s *GormEngagementStorage) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		s.logger.Error("failed to list comments", "post_id", postID, "error", err)
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}
	return comments, nil
}
