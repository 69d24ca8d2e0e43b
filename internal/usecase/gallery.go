package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// FileStorage определяет интерфейс для работы с файловым хранилищем (MinIO/S3).
// Порт для бинарных данных изображений; ключи имеют вид {userId}/{имя файла}.
type FileStorage interface {
	// UploadFile загружает объект и возвращает его ключ в хранилище.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)

	// DeleteFile удаляет объект по ключу.
	DeleteFile(ctx context.Context, key string) error

	// PublicURL возвращает отображаемый URL объекта по ключу.
	PublicURL(key string) string
}

// UploadParams — метаданные загружаемого изображения.
// Если PostTitle непустой, вместе с изображением создается пост.
type UploadParams struct {
	Prompt          string
	ArtStyle        string
	ColorTone       string
	Tags            []string
	IsPublic        bool
	FileName        string
	ContentType     string
	PostTitle       string
	PostDescription string
}

// GalleryUseCase определяет бизнес-логику личной галереи и публикации.
type GalleryUseCase interface {
	// ListImages возвращает страницу изображений по фильтру.
	// Невалидные page/pageSize заменяются дефолтами (1 и 12),
	// sortBy "oldest" дает сортировку по возрастанию created_at,
	// любое другое значение — по убыванию.
	ListImages(ctx context.Context, filter domain.GalleryFilter, page, pageSize int, sortBy string) (*domain.GalleryPage, error)

	// UploadImage сохраняет байты в файловое хранилище, затем вставляет
	// строку изображения (и опциональный пост) одной транзакцией.
	UploadImage(ctx context.Context, ownerID string, file io.Reader, params UploadParams) (*domain.Image, error)

	// UpdateImage применяет патч к изображению владельца ownerID.
	// Чужое или несуществующее изображение — NOT_FOUND, без различия.
	UpdateImage(ctx context.Context, imageID int64, ownerID string, patch domain.ImagePatch) (*domain.Image, error)

	// DeleteImage удаляет блоб, затем строку изображения (каскадом пост,
	// лайки, комментарии). При ошибке удаления блоба строка остается.
	DeleteImage(ctx context.Context, imageID int64, ownerID string) error

	// ShareImage публикует изображение: создает пост и поднимает is_public
	// одной транзакцией. Повторная публикация — ALREADY_SHARED.
	ShareImage(ctx context.Context, imageID int64, ownerID, title, description string, tags []string) (*domain.Post, error)
}
