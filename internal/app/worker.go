package app

import (
	"context"
	"fmt"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/messaging/payloads"
)

// runWorker запускает потребителя RabbitMQ и превращает события
// активности в записи уведомлений
func (a *App) runWorker(ctx context.Context) error {
	a.logger.Info("worker started, waiting for activity events")

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	messageHandler := func(ctx context.Context, payload payloads.ActivityPayload) error {
		// собственная активность владельцу поста не интересна
		if payload.ActorID == payload.RecipientID {
			return nil
		}

		notification := &domain.Notification{
			RecipientID: payload.RecipientID,
			ActorID:     payload.ActorID,
			Kind:        payload.Kind,
			PostID:      payload.PostID,
			CreatedAt:   payload.OccurredAt,
		}

		if err := a.notifications.SaveNotification(ctx, notification); err != nil {
			a.logger.Error("failed to save notification",
				"kind", payload.Kind,
				"post_id", payload.PostID,
				"error", err,
			)
			return err
		}

		a.logger.Info("notification saved",
			"kind", payload.Kind,
			"post_id", payload.PostID,
			"recipient_id", payload.RecipientID,
		)
		return nil
	}

	if err := a.activityConsumer.StartConsumingActivities(workerCtx, messageHandler); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	<-workerCtx.Done()

	a.logger.Info("worker shutting down")
	cancelWorker()

	time.Sleep(2 * time.Second) // Небольшая задержка, чтобы логи успели выйти
	a.logger.Info("worker stopped")

	return nil
}
