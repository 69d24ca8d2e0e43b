package domain

import (
	"time"

	"github.com/lib/pq"
)

// FeedPost — проекция поста для ленты сообщества и страницы деталей.
// Счетчики лайков/комментариев и isLiked считаются в запросе к бд,
// imageURL и userProfile достраиваются на уровне usecase.
type FeedPost struct {
	PostID      int64     `json:"postId" db:"post_id"`
	ImageURL    string    `json:"imageURL" db:"-"`
	FilePath    string    `json:"-" db:"file_path"`
	UserName    string    `json:"userName" db:"user_id"`
	Likes       int       `json:"likes" db:"likes"`
	Comments    int       `json:"comments" db:"comments"`
	IsLiked     bool      `json:"isLiked" db:"is_liked"`
	Prompt      string    `json:"prompt" db:"prompt"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UserProfile string    `json:"userProfile" db:"-"`

	// Поля деталей: заполняются только для страницы одного поста.
	Title       string         `json:"title,omitempty" db:"title"`
	Description *string        `json:"description,omitempty" db:"description"`
	ArtStyle    string         `json:"artStyle,omitempty" db:"art_style"`
	ColorTone   string         `json:"colorTone,omitempty" db:"color_tone"`
	Tags        pq.StringArray `json:"tags,omitempty" db:"tags"`
}

// FeedPage — страница ленты с данными пагинации.
type FeedPage struct {
	Posts      []FeedPost `json:"posts"`
	TotalCount int        `json:"totalCount"`
	HasMore    bool       `json:"hasMore"`
}

// GalleryPage — страница изображений галереи с данными пагинации.
type GalleryPage struct {
	Images     []Image `json:"images"`
	TotalCount int     `json:"totalCount"`
	HasMore    bool    `json:"hasMore"`
}

// Notification — запись об активности на посте для его владельца,
// соответствует таблице notifications в бд. Создается воркером
// из событий очереди.
type Notification struct {
	ID          int64     `json:"id" db:"id"`
	RecipientID string    `json:"recipientId" db:"recipient_id"`
	ActorID     string    `json:"actorId" db:"actor_id"`
	Kind        string    `json:"kind" db:"kind"`
	PostID      int64     `json:"postId" db:"post_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
