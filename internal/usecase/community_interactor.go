package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/core/ports"
	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/messaging/payloads"
)

// communityUseCase implements CommunityUseCase
type communityUseCase struct {
	postStorage         ports.PostStorage
	engagementStorage   ports.EngagementStorage
	notificationStorage ports.NotificationStorage
	fileStorage         FileStorage
	identity            IdentityDirectory
	publisher           ports.ActivityPublisher
	logger              *slog.Logger
}

// NewCommunityUseCase создает новый экземпляр CommunityUseCase
func NewCommunityUseCase(
	postStorage ports.PostStorage,
	engagementStorage ports.EngagementStorage,
	notificationStorage ports.NotificationStorage,
	fileStorage FileStorage,
	identity IdentityDirectory,
	publisher ports.ActivityPublisher,
	logger *slog.Logger,
) CommunityUseCase {
	return &communityUseCase{
		postStorage:         postStorage,
		engagementStorage:   engagementStorage,
		notificationStorage: notificationStorage,
		fileStorage:         fileStorage,
		identity:            identity,
		publisher:           publisher,
		logger:              logger,
	}
}

// GetFeed возвращает страницу публичных постов для зрителя.
func (uc *communityUseCase) GetFeed(ctx context.Context, viewerID string, page, pageSize int, sortBy string) (*domain.FeedPage, error) {
	if viewerID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "Unauthorized access")
	}

	page, pageSize = normalizePage(page, pageSize)
	offset := (page - 1) * pageSize
	sortAsc := sortBy == sortOldest

	total, err := uc.postStorage.CountFeed(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch community feed", err)
	}

	posts, err := uc.postStorage.ListFeed(ctx, viewerID, pageSize, offset, sortAsc)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch community feed", err)
	}
	if posts == nil {
		posts = []domain.FeedPost{}
	}

	if err := uc.decorateFeedPosts(ctx, posts); err != nil {
		return nil, err
	}

	return &domain.FeedPage{
		Posts:      posts,
		TotalCount: total,
		HasMore:    offset+len(posts) < total,
	}, nil
}

// GetPostDetail возвращает проекцию одного поста с полями деталей.
// Флаг публичности изображения здесь не перепроверяется: страница
// деталей доступна по прямой ссылке, существования поста достаточно.
func (uc *communityUseCase) GetPostDetail(ctx context.Context, postID int64, viewerID string) (*domain.FeedPost, error) {
	if viewerID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "Unauthorized access")
	}

	post, err := uc.postStorage.GetFeedPost(ctx, postID, viewerID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch post", err)
	}
	if post == nil {
		return nil, domain.NewError(domain.CodeNotFound, "Post not found")
	}

	posts := []domain.FeedPost{*post}
	if err := uc.decorateFeedPosts(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// ToggleLike снимает или ставит лайк и возвращает новое состояние.
func (uc *communityUseCase) ToggleLike(ctx context.Context, postID int64, userID string) (*domain.LikeState, error) {
	post, err := uc.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	state, err := uc.engagementStorage.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to toggle like", err)
	}

	if state.IsLiked {
		// событие только на установку лайка, снятие никого не интересует
		uc.publishActivity(ctx, payloads.ActivityPayload{
			Kind:        payloads.ActivityPostLiked,
			PostID:      postID,
			ActorID:     userID,
			RecipientID: post.UserID,
			OccurredAt:  time.Now(),
		})
	}

	return &state, nil
}

// GetLikeState возвращает текущее состояние лайков поста для userID.
func (uc *communityUseCase) GetLikeState(ctx context.Context, postID int64, userID string) (*domain.LikeState, error) {
	if _, err := uc.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	state, err := uc.engagementStorage.GetLikeState(ctx, postID, userID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch like state", err)
	}
	return &state, nil
}

// AddComment добавляет комментарий к посту.
func (uc *communityUseCase) AddComment(ctx context.Context, postID int64, userID, content string) (*domain.CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewError(domain.CodeInvalidContent, "Comment content is required")
	}

	post, err := uc.requirePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := uc.engagementStorage.CreateComment(ctx, comment); err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to create comment", err)
	}

	profiles, err := uc.identity.ResolveProfiles(ctx, []string{userID})
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to resolve comment author", err)
	}

	uc.publishActivity(ctx, payloads.ActivityPayload{
		Kind:        payloads.ActivityPostCommented,
		PostID:      postID,
		ActorID:     userID,
		RecipientID: post.UserID,
		OccurredAt:  time.Now(),
	})

	view := commentToView(*comment, profiles[userID])
	return &view, nil
}

// ListComments возвращает комментарии поста, новые первыми.
func (uc *communityUseCase) ListComments(ctx context.Context, postID int64) ([]domain.CommentView, error) {
	if _, err := uc.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := uc.engagementStorage.ListComments(ctx, postID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch comments", err)
	}

	// авторов резолвим одной пачкой на весь список
	authorIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		authorIDs = append(authorIDs, c.UserID)
	}
	profiles, err := uc.identity.ResolveProfiles(ctx, authorIDs)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to resolve comment authors", err)
	}

	views := make([]domain.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentToView(c, profiles[c.UserID]))
	}
	return views, nil
}

// ListNotifications возвращает последние уведомления пользователя.
func (uc *communityUseCase) ListNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if userID == "" {
		return nil, domain.NewError(domain.CodeUnauthorized, "Unauthorized access")
	}

	notifications, err := uc.notificationStorage.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch notifications", err)
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, nil
}

// requirePost возвращает пост или NOT_FOUND.
func (uc *communityUseCase) requirePost(ctx context.Context, postID int64) (*domain.Post, error) {
	post, err := uc.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return nil, domain.WrapError(domain.CodeInternalError, "Failed to fetch post", err)
	}
	if post == nil {
		return nil, domain.NewError(domain.CodeNotFound, "Post not found")
	}
	return post, nil
}

// decorateFeedPosts достраивает imageURL и профили авторов для проекций.
func (uc *communityUseCase) decorateFeedPosts(ctx context.Context, posts []domain.FeedPost) error {
	authorIDs := make([]string, 0, len(posts))
	for i := range posts {
		authorIDs = append(authorIDs, posts[i].UserName)
	}

	profiles, err := uc.identity.ResolveProfiles(ctx, authorIDs)
	if err != nil {
		return domain.WrapError(domain.CodeInternalError, "Failed to resolve post authors", err)
	}

	for i := range posts {
		posts[i].ImageURL = uc.fileStorage.PublicURL(posts[i].FilePath)
		if profile, ok := profiles[posts[i].UserName]; ok {
			posts[i].UserProfile = profile.AvatarURL
		}
	}
	return nil
}

// publishActivity отправляет событие best-effort.
func (uc *communityUseCase) publishActivity(ctx context.Context, payload payloads.ActivityPayload) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishActivity(ctx, payload); err != nil {
		uc.logger.Error("failed to publish activity event", "kind", payload.Kind, "error", err)
	}
}

// commentToView собирает API-представление комментария с данными автора.
func commentToView(comment domain.Comment, profile domain.UserProfile) domain.CommentView {
	userName := profile.UserName
	if userName == "" {
		userName = comment.UserID
	}
	return domain.CommentView{
		ID:          comment.ID,
		PostID:      comment.PostID,
		UserName:    userName,
		Content:     comment.Content,
		CreatedAt:   comment.CreatedAt,
		UserProfile: profile.AvatarURL,
	}
}
