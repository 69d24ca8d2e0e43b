package handler

import (
	"encoding/json"
	"net/http"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// generateRequest — тело POST /generate.
type generateRequest struct {
	Prompt    string `json:"prompt"`
	ArtStyle  string `json:"artStyle"`
	ColorTone string `json:"colorTone"`
}

// GenerateImage — запускает генерацию изображения по промпту.
// Число одновременных генераций ограничено: каждая держит соединение
// на весь цикл опроса внешнего API.
func (h *Handler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	select {
	case h.generateLimiter <- struct{}{}:
		defer func() { <-h.generateLimiter }()
	case <-r.Context().Done():
		respondWithError(w, domain.NewError(domain.CodeGenerationFailed, "Image generation canceled"), h.logger)
		return
	}

	h.logger.Info("processing image generation",
		"user_id", userID,
		"art_style", req.ArtStyle,
		"color_tone", req.ColorTone,
	)

	result, err := h.generationUseCase.GenerateImage(r.Context(), userID, req.Prompt, req.ArtStyle, req.ColorTone)
	if err != nil {
		h.logger.Error("failed to generate image", "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"imageUrl":     result.ImageURL,
		"generationId": result.GenerationID,
	}, h.logger)
}
