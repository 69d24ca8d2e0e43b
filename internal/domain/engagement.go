package domain

import "time"

// Like представляет отметку "нравится" пользователя на посте,
// соответствует таблице likes в бд.
// Составной первичный ключ (post_id, user_id) гарантирует не более
// одного лайка на пару пост/пользователь даже при гонке запросов.
type Like struct {
	PostID    int64     `json:"postId" gorm:"primaryKey;autoIncrement:false" db:"post_id"`
	UserID    string    `json:"userId" gorm:"primaryKey" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

// Comment представляет комментарий к посту,
// соответствует таблице comments в бд.
// Комментарии только добавляются, операции редактирования нет.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey" db:"id"`
	PostID    int64     `json:"postId" gorm:"index" db:"post_id"`
	UserID    string    `json:"userId" gorm:"index" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentView — комментарий с отображаемыми данными автора,
// как его отдает API (автор резолвится через identity-провайдера).
type CommentView struct {
	ID          int64     `json:"id"`
	PostID      int64     `json:"postId"`
	UserName    string    `json:"userName"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UserProfile string    `json:"userProfile"`
}

// LikeState — текущее состояние лайков поста для конкретного зрителя.
type LikeState struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}

// UserProfile — отображаемые данные пользователя от identity-провайдера.
type UserProfile struct {
	UserName  string `json:"userName"`
	AvatarURL string `json:"userProfile"`
}
