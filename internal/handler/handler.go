package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// Handler — обработчик HTTP-запросов приложения.
type Handler struct {
	galleryUseCase    usecase.GalleryUseCase
	communityUseCase  usecase.CommunityUseCase
	generationUseCase usecase.GenerationUseCase
	generateLimiter   chan struct{}
	logger            *slog.Logger
}

// NewHandler создаёт новый экземпляр Handler.
func NewHandler(
	gallery usecase.GalleryUseCase,
	community usecase.CommunityUseCase,
	generation usecase.GenerationUseCase,
	limiter chan struct{},
	logger *slog.Logger,
) *Handler {
	return &Handler{
		galleryUseCase:    gallery,
		communityUseCase:  community,
		generationUseCase: generation,
		generateLimiter:   limiter,
		logger:            logger,
	}
}

// httpStatusOf отображает код ошибки на HTTP-статус.
func httpStatusOf(code string) int {
	switch code {
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeInvalidRequest, domain.CodeInvalidContent, domain.CodeAlreadyShared:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondSuccess — отправляет плоский конверт {success: true, ...fields}.
func respondSuccess(w http.ResponseWriter, code int, fields map[string]interface{}, logger *slog.Logger) {
	payload := map[string]interface{}{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	respondWithJSON(w, code, payload, logger)
}

// respondWithError — отправляет конверт {success: false, error: {code, message}}.
// HTTP-статус выводится из кода ошибки, внутренние детали наружу не уходят.
func respondWithError(w http.ResponseWriter, err error, logger *slog.Logger) {
	code := domain.CodeOf(err)
	respondWithJSON(w, httpStatusOf(code), map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": domain.MessageOf(err),
		},
	}, logger)
}

// pageParams читает page/limit из query; нули и мусор остаются нулями,
// дефолты назначает usecase.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// postIDParam читает {postID} из пути.
func postIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		return 0, domain.NewError(domain.CodeInvalidRequest, "Invalid post id")
	}
	return id, nil
}

// imageIDParam читает {imageID} из пути.
func imageIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "imageID"), 10, 64)
	if err != nil {
		return 0, domain.NewError(domain.CodeInvalidRequest, "Invalid image id")
	}
	return id, nil
}
