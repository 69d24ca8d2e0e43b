package usecase

import (
	"context"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// IdentityDirectory определяет интерфейс для получения отображаемых данных
// пользователей от identity-провайдера. Резолв пачкой: один вызов на список,
// а не по одному на запись.
type IdentityDirectory interface {
	ResolveProfiles(ctx context.Context, userIDs []string) (map[string]domain.UserProfile, error)
}

// CommunityUseCase определяет бизнес-логику ленты сообщества и вовлеченности.
type CommunityUseCase interface {
	// GetFeed возвращает страницу публичных постов для зрителя viewerID.
	// Зритель обязателен: без него не посчитать isLiked.
	GetFeed(ctx context.Context, viewerID string, page, pageSize int, sortBy string) (*domain.FeedPage, error)

	// GetPostDetail возвращает проекцию одного поста с полями деталей.
	GetPostDetail(ctx context.Context, postID int64, viewerID string) (*domain.FeedPost, error)

	// ToggleLike снимает или ставит лайк и возвращает состояние после
	// мутации. Чистый переключатель: два вызова подряд возвращают
	// исходное состояние.
	ToggleLike(ctx context.Context, postID int64, userID string) (*domain.LikeState, error)

	// GetLikeState возвращает текущее число лайков и статус для userID.
	GetLikeState(ctx context.Context, postID int64, userID string) (*domain.LikeState, error)

	// AddComment добавляет комментарий; контент обрезается по пробелам,
	// пустой после обрезки — INVALID_CONTENT.
	AddComment(ctx context.Context, postID int64, userID, content string) (*domain.CommentView, error)

	// ListComments возвращает комментарии поста, новые первыми,
	// с отображаемыми данными авторов.
	ListComments(ctx context.Context, postID int64) ([]domain.CommentView, error)

	// ListNotifications возвращает последние уведомления пользователя.
	ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
}
