package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/core/ports"
	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/messaging/payloads"
	"github.com/google/uuid"
)

const (
	defaultPage     = 1
	defaultPageSize = 12

	sortOldest = "oldest"
)

// galleryUseCase implements GalleryUseCase
type galleryUseCase struct {
	imageStorage ports.ImageStorage
	postStorage  ports.PostStorage
	fileStorage  FileStorage
	publisher    ports.ActivityPublisher
	logger       *slog.Logger
}

// NewGalleryUseCase создает новый экземпляр GalleryUseCase
func NewGalleryUseCase(
	imageStorage ports.ImageStorage,
	postStorage ports.PostStorage,
	fileStorage FileStorage,
	publisher ports.ActivityPublisher,
	logger *slog.Logger,
) GalleryUseCase {
	return &galleryUseCase{
		imageStorage: imageStorage,
		postStorage:  postStorage,
		fileStorage:  fileStorage,
		publisher:    publisher,
		logger:       logger,
	}
}

// normalizePage приводит параметры пагинации к валидным значениям.
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return page, pageSize
}

// ListImages возвращает страницу изображений галереи по фильтру.
func (uc *galleryUseCase) ListImages(ctx context.Context, filter domain.GalleryFilter, page, pageSize int, sortBy string) (*domain.GalleryPage, error) {
	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	sortAsc := sortBy == sortOldest

	total, err := uc.imageStorage.CountImages(ctx, filter)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to list gallery images", err)
	}

	images, err := uc.imageStorage.ListImages(ctx, filter, pageSize, offset, sortAsc)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to list gallery images", err)
	}
	if images == nil {
		images = []domain.Image{}
	}

	return &domain.GalleryPage{
		Images:     images,
		TotalCount: total,
		HasMore:    offset+pageSize < total,
	}, nil
}

// UploadImage сохраняет блоб, затем строку изображения и опциональный пост.
// Вставка в бд и пост — одна транзакция; блоб живет вне нее, поэтому
// при ошибке бд свежезагруженный объект прибираем best-effort.
func (uc *galleryUseCase) UploadImage(ctx context.Context, ownerID string, file io.Reader, params UploadParams) (*domain.Image, error) {
	if ownerID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "Unauthorized access")
	}

	key := buildObjectKey(ownerID, params.FileName)
	contentType := params.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	filePath, err := uc.fileStorage.UploadFile(ctx, key, file, contentType)
	if err != nil {
		return nil, domain.WrapError(domain.CodeStorageError, "Failed to store image file", err)
	}

	image := &domain.Image{
		UserID:    ownerID,
		FilePath:  filePath,
		Prompt:    params.Prompt,
		ArtStyle:  params.ArtStyle,
		ColorTone: params.ColorTone,
		Tags:      params.Tags,
		IsPublic:  params.IsPublic,
	}

	var post *domain.Post
	if params.PostTitle != "" {
		post = &domain.Post{
			UserID: ownerID,
			Title:  params.PostTitle,
		}
		if params.PostDescription != "" {
			description := params.PostDescription
			post.Description = &description
		}
	}

	if err := uc.imageStorage.CreateImage(ctx, image, post); err != nil {
		if deleteErr := uc.fileStorage.DeleteFile(ctx, filePath); deleteErr != nil {
			uc.logger.Error("failed to clean up blob after insert failure",
				"key", filePath, "error", deleteErr)
		}
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to save image", err)
	}

	uc.logger.Info("image uploaded", "image_id", image.ID, "owner_id", ownerID, "with_post", post != nil)
	return image, nil
}

// UpdateImage применяет патч к изображению владельца.
func (uc *galleryUseCase) UpdateImage(ctx context.Context, imageID int64, ownerID string, patch domain.ImagePatch) (*domain.Image, error) {
	image, err := uc.imageStorage.UpdateImage(ctx, imageID, ownerID, patch)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to update image", err)
	}
	if image == nil {
		// чужое и несуществующее изображение дают один и тот же ответ
		return nil, domain.NewError(domain.CodeNotFound, "Image not found or unauthorized")
	}
	return image, nil
}

// DeleteImage удаляет блоб, затем строку изображения.
// Порядок именно такой: при ошибке удаления блоба строка в бд остается,
// чтобы не получить запись, ссылающуюся на уже исчезнувший объект.
func (uc *galleryUseCase) DeleteImage(ctx context.Context, imageID int64, ownerID string) error {
	image, err := uc.imageStorage.GetImageForOwner(ctx, imageID, ownerID)
	if err != nil {
		return domain.WrapError(domain.CodeInternalError, "Failed to delete image", err)
	}
	if image == nil {
		return domain.NewError(domain.CodeNotFound, "Image not found or unauthorized")
	}

	if err := uc.fileStorage.DeleteFile(ctx, image.FilePath); err != nil {
		return domain.WrapError(domain.CodeStorageError, "Failed to delete image file", err)
	}

	if err := uc.imageStorage.DeleteImage(ctx, imageID); err != nil {
		return domain.WrapError(domain.CodeInternalError, "Failed to delete image", err)
	}

	uc.logger.Info("image deleted with its post and engagement", "image_id", imageID, "owner_id", ownerID)
	return nil
}

// ShareImage публикует изображение в ленту сообщества.
// Публикация — односторонний переход, повторный вызов дает ALREADY_SHARED.
func (uc *galleryUseCase) ShareImage(ctx context.Context, imageID int64, ownerID, title, description string, tags []string) (*domain.Post, error) {
	if strings.TrimSpace(title) == "" {
		return nil, domain.NewError(domain.CodeInvalidRequest, "Title is required")
	}

	image, err := uc.imageStorage.GetImageForOwner(ctx, imageID, ownerID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to share image", err)
	}
	if image == nil {
		return nil, domain.NewError(domain.CodeNotFound, "Image not found or unauthorized")
	}

	existing, err := uc.postStorage.GetPostByImageID(ctx, imageID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to share image", err)
	}
	if existing != nil {
		return nil, domain.NewError(domain.CodeAlreadyShared, "Image is already shared")
	}

	post := &domain.Post{
		ImageID: imageID,
		UserID:  ownerID,
		Title:   title,
	}
	if description != "" {
		post.Description = &description
	}

	if err := uc.postStorage.PublishImage(ctx, post); err != nil {
		if domain.IsCode(err, domain.CodeAlreadyShared) {
			// параллельная публикация успела раньше; UNIQUE сработал
			return nil, err
		}
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to share image", err)
	}

	post.Image = &domain.ImageSnapshot{
		FilePath:  image.FilePath,
		Prompt:    image.Prompt,
		ArtStyle:  image.ArtStyle,
		ColorTone: image.ColorTone,
		Tags:      image.Tags,
	}

	uc.publishActivity(ctx, payloads.ActivityPayload{
		Kind:        payloads.ActivityPostShared,
		PostID:      post.ID,
		ActorID:     ownerID,
		RecipientID: ownerID,
		OccurredAt:  time.Now(),
	})

	uc.logger.Info("image shared to community", "image_id", imageID, "post_id", post.ID)
	return post, nil
}

// publishActivity отправляет событие best-effort: ошибка очереди логируется,
// но операцию не валит.
func (uc *galleryUseCase) publishActivity(ctx context.Context, payload payloads.ActivityPayload) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishActivity(ctx, payload); err != nil {
		uc.logger.Error("failed to publish activity event", "kind", payload.Kind, "error", err)
	}
}

// buildObjectKey собирает ключ объекта: {ownerId}/{uuid}{расширение}.
func buildObjectKey(ownerID, fileName string) string {
	ext := path.Ext(fileName)
	return fmt.Sprintf("%s/%s%s", ownerID, uuid.New().String(), ext)
}
