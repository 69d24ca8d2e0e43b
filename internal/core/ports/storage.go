package ports

import (
	"context"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// ImageStorage определяет методы для взаимодействия с хранилищем изображений
type ImageStorage interface {
	// CreateImage вставляет изображение и, если post не nil, его пост
	// в одной транзакции.
	CreateImage(ctx context.Context, image *domain.Image, post *domain.Post) error

	// GetImageForOwner возвращает изображение по id, но только если его
	// владелец совпадает с ownerID. Возвращает (nil, nil), если изображение
	// отсутствует ИЛИ принадлежит другому пользователю: чужие и несуществующие
	// изображения снаружи неразличимы.
	GetImageForOwner(ctx context.Context, id int64, ownerID string) (*domain.Image, error)

	// ListImages возвращает страницу изображений по фильтру с привязанными постами.
	ListImages(ctx context.Context, filter domain.GalleryFilter, limit, offset int, sortAsc bool) ([]domain.Image, error)

	// CountImages возвращает общее число изображений по фильтру.
	CountImages(ctx context.Context, filter domain.GalleryFilter) (int, error)

	// UpdateImage применяет патч к изображению владельца ownerID и к его посту,
	// если патч затрагивает поля поста, в одной транзакции.
	// Возвращает (nil, nil), если изображение не найдено или не принадлежит ownerID.
	UpdateImage(ctx context.Context, id int64, ownerID string, patch domain.ImagePatch) (*domain.Image, error)

	// DeleteImage удаляет строку изображения; пост, лайки и комментарии
	// уходят каскадом по внешним ключам.
	DeleteImage(ctx context.Context, id int64) error
}

// PostStorage определяет методы для взаимодействия с хранилищем постов сообщества
type PostStorage interface {
	// PublishImage вставляет пост и поднимает флаг is_public изображения
	// в одной транзакции. Если пост для изображения уже существует,
	// возвращает ошибку с кодом ALREADY_SHARED (подстраховано UNIQUE
	// на posts.image_id).
	PublishImage(ctx context.Context, post *domain.Post) error

	// GetPostByID возвращает пост или (nil, nil), если его нет.
	GetPostByID(ctx context.Context, id int64) (*domain.Post, error)

	// GetPostByImageID возвращает пост изображения или (nil, nil).
	GetPostByImageID(ctx context.Context, imageID int64) (*domain.Post, error)

	// ListFeed возвращает страницу проекций публичных постов
	// со счетчиками лайков/комментариев и isLiked для viewerID.
	ListFeed(ctx context.Context, viewerID string, limit, offset int, sortAsc bool) ([]domain.FeedPost, error)

	// CountFeed возвращает общее число публичных постов.
	CountFeed(ctx context.Context) (int, error)

	// GetFeedPost возвращает проекцию одного поста с полями деталей
	// или (nil, nil), если поста нет.
	GetFeedPost(ctx context.Context, postID int64, viewerID string) (*domain.FeedPost, error)
}

// EngagementStorage определяет методы для лайков и комментариев
type EngagementStorage interface {
	// ToggleLike снимает лайк, если он есть, иначе ставит.
	// Дубликат вставки при гонке гасится составным ключом и считается
	// уже поставленным лайком. Возвращает состояние после мутации.
	ToggleLike(ctx context.Context, postID int64, userID string) (domain.LikeState, error)

	// GetLikeState возвращает текущее число лайков и статус для userID.
	GetLikeState(ctx context.Context, postID int64, userID string) (domain.LikeState, error)

	// CreateComment вставляет комментарий; id и created_at назначает сервер.
	CreateComment(ctx context.Context, comment *domain.Comment) error

	// ListComments возвращает все комментарии поста, новые первыми.
	ListComments(ctx context.Context, postID int64) ([]domain.Comment, error)
}

// NotificationStorage определяет методы для записей об активности
type NotificationStorage interface {
	SaveNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)
}
