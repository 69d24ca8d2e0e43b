// internal/adapter/replicate/client.go
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/config"
	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// APIClient представляет клиент для взаимодействия с API генерации изображений
// (Replicate-совместимый контракт: создать предсказание, опрашивать до
// терминального статуса).
type APIClient struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	model        string
	pollInterval time.Duration
	maxAttempts  int
	logger       *slog.Logger
}

// NewAPIClient создает новый экземпляр APIClient.
func NewAPIClient(cfg *config.Config, logger *slog.Logger) *APIClient {
	return &APIClient{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		baseURL:      cfg.ReplicateBaseURL,
		token:        cfg.ReplicateAPIToken,
		model:        cfg.ReplicateModel,
		pollInterval: cfg.GeneratePollInterval,
		maxAttempts:  cfg.GenerateMaxAttempts,
		logger:       logger,
	}
}

// GenerateImage отправляет задачу генерации и опрашивает ее раз в pollInterval
// до завершения. Цикл ограничен maxAttempts и отменой контекста: зависшая
// задача или отвалившийся клиент не держат обработчик вечно.
func (c *APIClient) GenerateImage(ctx context.Context, prompt string) (string, string, error) {
	prediction, err := c.createPrediction(ctx, prompt)
	if err != nil {
		return "", "", err
	}

	c.logger.Info("generation submitted", "prediction_id", prediction.ID, "status", prediction.Status)

	for attempt := 0; !prediction.Done(); attempt++ {
		if attempt >= c.maxAttempts {
			return "", prediction.ID, domain.NewError(domain.CodeGenerationFailed, "Image generation timed out")
		}

		select {
		case <-ctx.Done():
			return "", prediction.ID, domain.WrapError(domain.CodeGenerationFailed, "Image generation canceled", ctx.Err())
		case <-time.After(c.pollInterval):
		}

		prediction, err = c.getPrediction(ctx, prediction.ID)
		if err != nil {
			return "", "", err
		}
	}

	if prediction.Status != StatusSucceeded || len(prediction.Output) == 0 {
		c.logger.Error("generation failed",
			"prediction_id", prediction.ID,
			"status", prediction.Status,
		)
		return "", prediction.ID, domain.NewError(domain.CodeGenerationFailed, "Failed to generate image")
	}

	c.logger.Info("generation succeeded", "prediction_id", prediction.ID)
	return prediction.Output[0], prediction.ID, nil
}

// createPrediction создает задачу генерации для настроенной модели.
func (c *APIClient) createPrediction(ctx context.Context, prompt string) (*Prediction, error) {
	reqBody := PredictionRequest{
		Input: PredictionInput{
			Prompt:        prompt,
			AspectRatio:   "1:1",
			NumOutputs:    1,
			OutputFormat:  "webp",
			OutputQuality: 90,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка маршалинга запроса генерации: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s/predictions", c.baseURL, c.model)
	return c.doPredictionRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
}

// getPrediction возвращает текущее состояние задачи генерации.
func (c *APIClient) getPrediction(ctx context.Context, id string) (*Prediction, error) {
	endpoint := fmt.Sprintf("%s/v1/predictions/%s", c.baseURL, id)
	return c.doPredictionRequest(ctx, http.MethodGet, endpoint, nil)
}

// doPredictionRequest выполняет HTTP-запрос к API и декодирует Prediction.
func (c *APIClient) doPredictionRequest(ctx context.Context, method, endpoint string, body io.Reader) (*Prediction, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса к API генерации: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения HTTP-запроса к API генерации: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API генерации вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("ошибка декодирования ответа API генерации: %w", err)
	}
	return &prediction, nil
}
