package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
	"github.com/GoArmGo/ArtGenApp/internal/messaging/payloads"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore — хранилище в памяти, реализующее все порты бд разом.
// Семантика повторяет Postgres-хранилища: конфликт публикации,
// каскадное удаление, конфликт лайка на составном ключе.
type memStore struct {
	mu sync.Mutex

	nextImageID   int64
	nextPostID    int64
	nextCommentID int64
	nextNotifID   int64

	images        map[int64]*domain.Image
	posts         map[int64]*domain.Post
	likes         map[int64]map[string]bool // postID -> userID -> liked
	comments      []domain.Comment
	notifications []domain.Notification

	failCreateImage bool
}

func newMemStore() *memStore {
	return &memStore{
		images: make(map[int64]*domain.Image),
		posts:  make(map[int64]*domain.Post),
		likes:  make(map[int64]map[string]bool),
	}
}

func (m *memStore) CreateImage(_ context.Context, image *domain.Image, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateImage {
		return fmt.Errorf("insert failed")
	}

	m.nextImageID++
	image.ID = m.nextImageID
	image.CreatedAt = time.Now()
	image.UpdatedAt = image.CreatedAt
	stored := *image
	m.images[image.ID] = &stored

	if post != nil {
		m.nextPostID++
		post.ID = m.nextPostID
		post.ImageID = image.ID
		post.CreatedAt = time.Now()
		post.UpdatedAt = post.CreatedAt
		storedPost := *post
		m.posts[post.ID] = &storedPost
		image.Post = post
	}
	return nil
}

func (m *memStore) GetImageForOwner(_ context.Context, id int64, ownerID string) (*domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	image, ok := m.images[id]
	if !ok || image.UserID != ownerID {
		return nil, nil
	}
	out := *image
	return &out, nil
}

func (m *memStore) matchImages(filter domain.GalleryFilter) []*domain.Image {
	var matched []*domain.Image
	for _, image := range m.images {
		if filter.OwnerID != "" && image.UserID != filter.OwnerID {
			continue
		}
		if filter.ArtStyle != "" && image.ArtStyle != filter.ArtStyle {
			continue
		}
		if filter.ColorTone != "" && image.ColorTone != filter.ColorTone {
			continue
		}
		if filter.PublicOnly && !image.IsPublic {
			continue
		}
		matched = append(matched, image)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func (m *memStore) ListImages(_ context.Context, filter domain.GalleryFilter, limit, offset int, sortAsc bool) ([]domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := m.matchImages(filter)
	if !sortAsc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]domain.Image, 0, len(matched))
	for _, image := range matched {
		copied := *image
		for _, post := range m.posts {
			if post.ImageID == image.ID {
				p := *post
				copied.Post = &p
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (m *memStore) CountImages(_ context.Context, filter domain.GalleryFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matchImages(filter)), nil
}

func (m *memStore) UpdateImage(_ context.Context, id int64, ownerID string, patch domain.ImagePatch) (*domain.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	image, ok := m.images[id]
	if !ok || image.UserID != ownerID {
		return nil, nil
	}

	if patch.ArtStyle != nil {
		image.ArtStyle = *patch.ArtStyle
	}
	if patch.ColorTone != nil {
		image.ColorTone = *patch.ColorTone
	}
	if patch.Tags != nil {
		image.Tags = *patch.Tags
	}
	if patch.IsPublic != nil {
		image.IsPublic = *patch.IsPublic
	}
	image.UpdatedAt = time.Now()

	if patch.HasPostFields() {
		for _, post := range m.posts {
			if post.ImageID != id {
				continue
			}
			if patch.PostTitle != nil {
				post.Title = *patch.PostTitle
			}
			if patch.PostDescription != nil {
				post.Description = patch.PostDescription
			}
			post.UpdatedAt = time.Now()
		}
	}

	out := *image
	return &out, nil
}

func (m *memStore) DeleteImage(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.images, id)
	for postID, post := range m.posts {
		if post.ImageID != id {
			continue
		}
		delete(m.posts, postID)
		delete(m.likes, postID)
		kept := m.comments[:0]
		for _, c := range m.comments {
			if c.PostID != postID {
				kept = append(kept, c)
			}
		}
		m.comments = kept
	}
	return nil
}

func (m *memStore) PublishImage(_ context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.posts {
		if existing.ImageID == post.ImageID {
			return domain.NewError(domain.CodeAlreadyShared, "Image is already shared")
		}
	}

	m.nextPostID++
	post.ID = m.nextPostID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	m.posts[post.ID] = &stored

	if image, ok := m.images[post.ImageID]; ok {
		image.IsPublic = true
	}
	return nil
}

func (m *memStore) GetPostByID(_ context.Context, id int64) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	out := *post
	return &out, nil
}

func (m *memStore) GetPostByImageID(_ context.Context, imageID int64) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, post := range m.posts {
		if post.ImageID == imageID {
			out := *post
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memStore) feedProjection(post *domain.Post, viewerID string) domain.FeedPost {
	image := m.images[post.ImageID]

	likes := len(m.likes[post.ID])

	comments := 0
	for _, c := range m.comments {
		if c.PostID == post.ID {
			comments++
		}
	}

	isLiked := m.likes[post.ID][viewerID]

	return domain.FeedPost{
		PostID:    post.ID,
		FilePath:  image.FilePath,
		UserName:  post.UserID,
		Likes:     likes,
		Comments:  comments,
		IsLiked:   isLiked,
		Prompt:    image.Prompt,
		CreatedAt: post.CreatedAt,
	}
}

func (m *memStore) publicPosts() []*domain.Post {
	var out []*domain.Post
	for _, post := range m.posts {
		if image, ok := m.images[post.ImageID]; ok && image.IsPublic {
			out = append(out, post)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) ListFeed(_ context.Context, viewerID string, limit, offset int, sortAsc bool) ([]domain.FeedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	posts := m.publicPosts()
	if !sortAsc {
		for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
			posts[i], posts[j] = posts[j], posts[i]
		}
	}

	if offset >= len(posts) {
		return nil, nil
	}
	posts = posts[offset:]
	if limit < len(posts) {
		posts = posts[:limit]
	}

	out := make([]domain.FeedPost, 0, len(posts))
	for _, post := range posts {
		out = append(out, m.feedProjection(post, viewerID))
	}
	return out, nil
}

func (m *memStore) CountFeed(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.publicPosts()), nil
}

func (m *memStore) GetFeedPost(_ context.Context, postID int64, viewerID string) (*domain.FeedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}

	projection := m.feedProjection(post, viewerID)
	projection.Title = post.Title
	projection.Description = post.Description
	if image, ok := m.images[post.ImageID]; ok {
		projection.ArtStyle = image.ArtStyle
		projection.ColorTone = image.ColorTone
		projection.Tags = image.Tags
	}
	return &projection, nil
}

func (m *memStore) ToggleLike(_ context.Context, postID int64, userID string) (domain.LikeState, error) {
	m.mu.Lock()

	if m.likes[postID][userID] {
		delete(m.likes[postID], userID)
	} else {
		if m.likes[postID] == nil {
			m.likes[postID] = make(map[string]bool)
		}
		m.likes[postID][userID] = true
	}
	m.mu.Unlock()

	return m.GetLikeState(context.Background(), postID, userID)
}

func (m *memStore) GetLikeState(_ context.Context, postID int64, userID string) (domain.LikeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return domain.LikeState{
		Likes:   len(m.likes[postID]),
		IsLiked: m.likes[postID][userID],
	}, nil
}

func (m *memStore) CreateComment(_ context.Context, comment *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCommentID++
	comment.ID = m.nextCommentID
	comment.CreatedAt = time.Now()
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *memStore) ListComments(_ context.Context, postID int64) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// новые первыми: обходим в обратном порядке вставки
	var out []domain.Comment
	for i := len(m.comments) - 1; i >= 0; i-- {
		if m.comments[i].PostID == postID {
			out = append(out, m.comments[i])
		}
	}
	return out, nil
}

func (m *memStore) SaveNotification(_ context.Context, n *domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextNotifID++
	n.ID = m.nextNotifID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memStore) ListNotifications(_ context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}

	var out []domain.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if m.notifications[i].RecipientID == recipientID {
			out = append(out, m.notifications[i])
		}
	}
	return out, nil
}

// fakeFileStorage — файловое хранилище в памяти.
type fakeFileStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string

	failUpload bool
	failDelete bool
}

func newFakeFileStorage() *fakeFileStorage {
	return &fakeFileStorage{objects: make(map[string][]byte)}
}

func (f *fakeFileStorage) UploadFile(_ context.Context, key string, reader io.Reader, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failUpload {
		return "", fmt.Errorf("upload failed")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.objects[key] = data
	return key, nil
}

func (f *fakeFileStorage) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		return fmt.Errorf("delete failed")
	}
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFileStorage) PublicURL(key string) string {
	return "https://cdn.test/artgen/" + key
}

// fakeIdentity резолвит профили детерминированно, как OIDC-адаптер.
type fakeIdentity struct{}

func (fakeIdentity) ResolveProfiles(_ context.Context, userIDs []string) (map[string]domain.UserProfile, error) {
	profiles := make(map[string]domain.UserProfile, len(userIDs))
	for _, id := range userIDs {
		profiles[id] = domain.UserProfile{
			UserName:  id,
			AvatarURL: "https://avatars.test/" + id,
		}
	}
	return profiles, nil
}

// fakePublisher копит опубликованные события.
type fakePublisher struct {
	mu       sync.Mutex
	payloads []payloads.ActivityPayload
}

func (p *fakePublisher) PublishActivity(_ context.Context, payload payloads.ActivityPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) published() []payloads.ActivityPayload {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]payloads.ActivityPayload, len(p.payloads))
	copy(out, p.payloads)
	return out
}
