package domain

import (
	"time"

	"github.com/lib/pq"
)

// Image представляет сгенерированное изображение пользователя,
// соответствует таблице images в бд.
// Изображение приватно до тех пор, пока его явно не опубликовали
// через операцию share (тогда is_public становится true).
type Image struct {
	ID        int64          `json:"id" db:"id"`
	UserID    string         `json:"userId" db:"user_id"`
	FilePath  string         `json:"filePath" db:"file_path"`
	Prompt    string         `json:"prompt" db:"prompt"`
	ArtStyle  string         `json:"artStyle" db:"art_style"`
	ColorTone string         `json:"colorTone" db:"color_tone"`
	Tags      pq.StringArray `json:"tags" db:"tags"`
	IsPublic  bool           `json:"isPublic" db:"is_public"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`

	// Post — привязанный пост сообщества, если изображение опубликовано.
	// Загружается отдельным запросом, в таблице images его нет.
	Post *Post `json:"post,omitempty" db:"-"`
}

func (Image) TableName() string {
	return "images"
}

// Post представляет публикацию изображения в ленте сообщества,
// соответствует таблице posts в бд.
// Ровно один пост на изображение: создается только при публикации
// и никогда не меняет своё изображение.
type Post struct {
	ID          int64     `json:"id" db:"id"`
	ImageID     int64     `json:"imageId" db:"image_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Image — снимок отображаемых полей изображения,
	// возвращается вместе с постом из операции публикации.
	Image *ImageSnapshot `json:"image,omitempty" db:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// ImageSnapshot — отображаемые поля изображения для ответа публикации.
type ImageSnapshot struct {
	FilePath  string         `json:"filePath"`
	Prompt    string         `json:"prompt"`
	ArtStyle  string         `json:"artStyle"`
	ColorTone string         `json:"colorTone"`
	Tags      pq.StringArray `json:"tags"`
}

// GalleryFilter задает условия выборки изображений галереи.
// Пустое строковое поле означает "без фильтра по этому полю".
type GalleryFilter struct {
	OwnerID    string
	ArtStyle   string
	ColorTone  string
	PublicOnly bool
}

// ImagePatch описывает частичное обновление изображения.
// nil-поле означает "не менять".
type ImagePatch struct {
	ArtStyle        *string
	ColorTone       *string
	Tags            *[]string
	IsPublic        *bool
	PostTitle       *string
	PostDescription *string
}

// HasPostFields сообщает, затрагивает ли патч поля привязанного поста.
func (p ImagePatch) HasPostFields() bool {
	return p.PostTitle != nil || p.PostDescription != nil
}
