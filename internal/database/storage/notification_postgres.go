package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/jmoiron/sqlx"
)

// NotificationStorage реализует ports.NotificationStorage поверх PostgreSQL.
type NotificationStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewNotificationStorage(db *sqlx.DB, logger *slog.Logger) *NotificationStorage {
	return &NotificationStorage{db: db, logger: logger}
}

// SaveNotification вставляет запись об активности для получателя.
func (s *NotificationStorage) SaveNotification(ctx context.Context, n *domain.Notification) error {
	row := s.db.QueryRowxContext(ctx, `
	INSERT INTO notifications (recipient_id, actor_id, kind, post_id)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`, n.RecipientID, n.ActorID, n.Kind, n.PostID)
	if err := row.Scan(&n.ID, &n.CreatedAt); err != nil {
		s.logger.Error("failed to save notification", "recipient_id", n.RecipientID, "error", err)
		return fmt.Errorf("ошибка при сохранении уведомления: %w", err)
	}
	return nil
}

// ListNotifications возвращает последние уведомления получателя.
func (s *NotificationStorage) ListNotifications(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []domain.Notification
	err := s.db.SelectContext(ctx, &notifications, `
	SELECT * FROM notifications
	WHERE recipient_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`, recipientID, limit)
	if err != nil {
		s.logger.Error("failed to list notifications", "recipient_id", recipientID, "error", err)
		return nil, fmt.Errorf("ошибка при получении уведомлений: %w", err)
	}
	return notifications, nil
}
