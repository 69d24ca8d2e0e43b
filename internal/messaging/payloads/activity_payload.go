package payloads

import "time"

// Виды событий активности.
const (
	ActivityPostShared    = "post_shared"
	ActivityPostLiked     = "post_liked"
	ActivityPostCommented = "post_commented"
)

// ActivityPayload представляет событие активности на посте,
// передаваемое через RabbitMQ от сервера к воркеру уведомлений.
type ActivityPayload struct {
	Kind        string    `json:"kind"`
	PostID      int64     `json:"post_id"`
	ActorID     string    `json:"actor_id"`
	RecipientID string    `json:"recipient_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
