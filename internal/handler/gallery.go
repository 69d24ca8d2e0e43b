package handler

import (
	"encoding/json"
	"net/http"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/usecase"
)

// maxUploadSize ограничивает размер multipart-тела загрузки.
const maxUploadSize = 10 << 20 // 10 MiB

// GetGallery — возвращает страницу изображений личной галереи.
func (h *Handler) GetGallery(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	page, limit := pageParams(r)
	query := r.URL.Query()

	filter := domain.GalleryFilter{
		OwnerID:    userID,
		ArtStyle:   query.Get("artStyle"),
		ColorTone:  query.Get("colorTone"),
		PublicOnly: query.Get("isPublic") == "true",
	}

	result, err := h.galleryUseCase.ListImages(r.Context(), filter, page, limit, query.Get("sortBy"))
	if err != nil {
		h.logger.Error("failed to list gallery images", "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"images":     result.Images,
		"totalCount": result.TotalCount,
		"hasMore":    result.HasMore,
	}, h.logger)
}

// UploadImage — загружает изображение и его метаданные из multipart-формы.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.logger.Warn("failed to parse multipart form", "user_id", userID, "error", err)
		respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Invalid multipart form"), h.logger)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Image file is required"), h.logger)
		return
	}
	defer file.Close()

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Invalid tags"), h.logger)
			return
		}
	}

	params := usecase.UploadParams{
		Prompt:          r.FormValue("prompt"),
		ArtStyle:        r.FormValue("artStyle"),
		ColorTone:       r.FormValue("colorTone"),
		Tags:            tags,
		IsPublic:        r.FormValue("isPublic") == "true",
		FileName:        header.Filename,
		ContentType:     header.Header.Get("Content-Type"),
		PostTitle:       r.FormValue("postTitle"),
		PostDescription: r.FormValue("postDescription"),
	}

	h.logger.Info("processing image upload", "user_id", userID, "file_name", params.FileName)

	image, err := h.galleryUseCase.UploadImage(r.Context(), userID, file, params)
	if err != nil {
		h.logger.Error("failed to upload image", "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"image": image,
	}, h.logger)
}

// updateImageRequest — тело PUT /gallery/{imageID}. Отсутствующие поля
// не трогаются, поэтому все указатели.
type updateImageRequest struct {
	ArtStyle  *string   `json:"artStyle"`
	ColorTone *string   `json:"colorTone"`
	Tags      *[]string `json:"tags"`
	IsPublic  *bool     `json:"isPublic"`
	Post      *struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	} `json:"post"`
}

// UpdateImage — обновляет метаданные изображения и его поста.
func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	imageID, err := imageIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	var req updateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	patch := domain.ImagePatch{
		ArtStyle:  req.ArtStyle,
		ColorTone: req.ColorTone,
		Tags:      req.Tags,
		IsPublic:  req.IsPublic,
	}
	if req.Post != nil {
		patch.PostTitle = req.Post.Title
		patch.PostDescription = req.Post.Description
	}

	image, err := h.galleryUseCase.UpdateImage(r.Context(), imageID, userID, patch)
	if err != nil {
		h.logger.Error("failed to update image", "image_id", imageID, "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"image": image,
	}, h.logger)
}

// DeleteImage — удаляет изображение: сначала блоб, затем строку в бд.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	imageID, err := imageIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	if err := h.galleryUseCase.DeleteImage(r.Context(), imageID, userID); err != nil {
		h.logger.Error("failed to delete image", "image_id", imageID, "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	h.logger.Info("image deleted", "image_id", imageID, "user_id", userID)
	respondSuccess(w, http.StatusOK, nil, h.logger)
}

// shareImageRequest — тело POST /gallery/{imageID}/share.
type shareImageRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// ShareImage — публикует изображение в ленту сообщества.
func (h *Handler) ShareImage(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	imageID, err := imageIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	var req shareImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	post, err := h.galleryUseCase.ShareImage(r.Context(), imageID, userID, req.Title, req.Description, req.Tags)
	if err != nil {
		h.logger.Error("failed to share image", "image_id", imageID, "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	h.logger.Info("image shared", "image_id", imageID, "post_id", post.ID, "user_id", userID)
	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"post": post,
	}, h.logger)
}
