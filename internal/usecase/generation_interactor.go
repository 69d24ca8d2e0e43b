package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// Фразы, добавляемые к промпту для каждого стиля. Закрытый словарь:
// неизвестный ключ просто не добавляет фразу.
var stylePhrases = map[string]string{
	"digital":       "digital art style, high quality, detailed",
	"watercolor":    "watercolor painting style, artistic, flowing",
	"oil":           "oil painting style, textured, rich colors",
	"pen":           "pen and ink style, clean lines, detailed",
	"pencil":        "pencil sketch style, artistic, detailed",
	"logo_minimal":  "minimalist logo design, clean, simple",
	"logo_3d":       "3D logo design, modern, depth",
	"logo_gradient": "gradient logo design, modern, colorful",
	"logo_vintage":  "vintage logo design, retro style",
	"logo_modern":   "modern logo design, contemporary",
}

// Фразы, добавляемые к промпту для каждого цветового тона.
var tonePhrases = map[string]string{
	"bright":   "bright and vibrant colors",
	"dark":     "dark and moody colors",
	"pastel":   "pastel color palette, soft",
	"bw":       "black and white, monochrome",
	"colorful": "colorful and vibrant palette",
	"monotone": "monotone color scheme",
	"metallic": "metallic colors, shiny",
}

// generationUseCase implements GenerationUseCase
type generationUseCase struct {
	client GenerationClient
	logger *slog.Logger
}

// NewGenerationUseCase создает новый экземпляр GenerationUseCase
func NewGenerationUseCase(client GenerationClient, logger *slog.Logger) GenerationUseCase {
	return &generationUseCase{
		client: client,
		logger: logger,
	}
}

// GenerateImage обогащает промпт и запускает генерацию во внешнем API.
func (uc *generationUseCase) GenerateImage(ctx context.Context, userID, prompt, artStyle, colorTone string) (*GenerationResult, error) {
	if userID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "Unauthorized access")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.NewError(domain.CodeInvalidRequest, "Prompt is required")
	}

	enhanced := enhancePrompt(prompt, artStyle, colorTone)

	start := time.Now()
	imageURL, generationID, err := uc.client.GenerateImage(ctx, enhanced)
	if err != nil {
		uc.logger.Error("image generation failed",
			"user_id", userID,
			"art_style", artStyle,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		var appErr *domain.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, domain.WrapError(domain.CodeGenerationFailed, "Failed to generate image", err)
	}

	uc.logger.Info("image generated",
		"user_id", userID,
		"generation_id", generationID,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &GenerationResult{
		ImageURL:     imageURL,
		GenerationID: generationID,
	}, nil
}

// enhancePrompt дополняет промпт фразами стиля и тона.
func enhancePrompt(prompt, artStyle, colorTone string) string {
	enhanced := prompt
	if phrase, ok := stylePhrases[artStyle]; ok {
		enhanced = fmt.Sprintf("%s, %s", enhanced, phrase)
	}
	if phrase, ok := tonePhrases[colorTone]; ok {
		enhanced = fmt.Sprintf("%s, %s", enhanced, phrase)
	}
	return enhanced
}
