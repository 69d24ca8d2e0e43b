package replicate

// Статусы предсказания, которые отдает API генерации.
const (
	StatusStarting   = "starting"
	StatusProcessing = "processing"
	StatusSucceeded  = "succeeded"
	StatusFailed     = "failed"
	StatusCanceled   = "canceled"
)

// PredictionInput — параметры генерации, уходящие в API.
type PredictionInput struct {
	Prompt        string `json:"prompt"`
	AspectRatio   string `json:"aspect_ratio"`
	NumOutputs    int    `json:"num_outputs"`
	OutputFormat  string `json:"output_format"`
	OutputQuality int    `json:"output_quality"`
}

// PredictionRequest — тело запроса на создание предсказания.
type PredictionRequest struct {
	Input PredictionInput `json:"input"`
}

// PredictionError — описание ошибки внутри ответа API.
type PredictionError struct {
	Detail string `json:"detail"`
}

// Prediction — ответ API о состоянии задачи генерации.
// Output заполняется только в статусе succeeded.
type Prediction struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  *string  `json:"error"`
}

// Done сообщает, достигла ли задача терминального статуса.
func (p *Prediction) Done() bool {
	switch p.Status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}
