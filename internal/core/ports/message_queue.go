package ports

import (
	"context"

	"github.com/GoArmGo/ArtGenApp/internal/messaging/payloads"
)

// ActivityPublisher определяет методы для публикации событий активности
// (публикация поста, лайк, комментарий). Используется usecase-слоем,
// публикация best-effort: ошибка очереди не валит операцию.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, payload payloads.ActivityPayload) error
}

// ActivityConsumer определяет методы для потребления событий активности.
// Используется воркером для превращения событий в уведомления.
type ActivityConsumer interface {
	// StartConsumingActivities начинает прослушивание очереди,
	// вызывая handler для каждого полученного события.
	StartConsumingActivities(ctx context.Context, handler func(context.Context, payloads.ActivityPayload) error) error
}
