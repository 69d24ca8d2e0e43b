package usecase

import "context"

// GenerationClient определяет интерфейс клиента внешнего API генерации
// изображений. Возвращает URL готового изображения и id генерации.
type GenerationClient interface {
	GenerateImage(ctx context.Context, prompt string) (string, string, error)
}

// GenerationResult — результат успешной генерации для API.
type GenerationResult struct {
	ImageURL     string `json:"imageUrl"`
	GenerationID string `json:"generationId"`
}

// GenerationUseCase определяет бизнес-логику генерации изображений.
type GenerationUseCase interface {
	// GenerateImage обогащает промпт фразами стиля и тона и отправляет
	// его в API генерации. Пустой промпт — INVALID_REQUEST, сбой или
	// таймаут генерации — GENERATION_FAILED.
	GenerateImage(ctx context.Context, userID, prompt, artStyle, colorTone string) (*GenerationResult, error)
}
