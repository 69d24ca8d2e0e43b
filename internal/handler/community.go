package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GoArmGo/ArtGenApp/internal/domain"
)

// GetFeed — возвращает страницу ленты сообщества.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID := userIDFrom(r)
	page, limit := pageParams(r)
	sortBy := r.URL.Query().Get("sortBy")

	result, err := h.communityUseCase.GetFeed(r.Context(), viewerID, page, limit, sortBy)
	if err != nil {
		h.logger.Error("failed to fetch feed", "viewer_id", viewerID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"posts":      result.Posts,
		"totalCount": result.TotalCount,
		"hasMore":    result.HasMore,
	}, h.logger)
}

// GetPostDetail — возвращает один пост с полями деталей.
func (h *Handler) GetPostDetail(w http.ResponseWriter, r *http.Request) {
	viewerID := userIDFrom(r)

	postID, err := postIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	post, err := h.communityUseCase.GetPostDetail(r.Context(), postID, viewerID)
	if err != nil {
		h.logger.Error("failed to fetch post detail", "post_id", postID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"post": post,
	}, h.logger)
}

// ToggleLike — снимает или ставит лайк текущего пользователя.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	postID, err := postIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	state, err := h.communityUseCase.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		h.logger.Error("failed to toggle like", "post_id", postID, "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"likes":   state.Likes,
		"isLiked": state.IsLiked,
	}, h.logger)
}

// GetLikeState — возвращает текущее состояние лайков поста.
func (h *Handler) GetLikeState(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	postID, err := postIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	state, err := h.communityUseCase.GetLikeState(r.Context(), postID, userID)
	if err != nil {
		h.logger.Error("failed to fetch like state", "post_id", postID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"likes":   state.Likes,
		"isLiked": state.IsLiked,
	}, h.logger)
}

// GetComments — возвращает комментарии поста, новые первыми.
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, err := postIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	comments, err := h.communityUseCase.ListComments(r.Context(), postID)
	if err != nil {
		h.logger.Error("failed to fetch comments", "post_id", postID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
	}, h.logger)
}

// createCommentRequest — тело POST /posts/{postID}/comments.
type createCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment — добавляет комментарий к посту.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	postID, err := postIDParam(r)
	if err != nil {
		respondWithError(w, err, h.logger)
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, domain.NewError(domain.CodeInvalidRequest, "Invalid request body"), h.logger)
		return
	}

	comment, err := h.communityUseCase.AddComment(r.Context(), postID, userID, req.Content)
	if err != nil {
		h.logger.Error("failed to create comment", "post_id", postID, "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"comment": comment,
	}, h.logger)
}

// GetNotifications — возвращает последние уведомления пользователя.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, err := h.communityUseCase.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to fetch notifications", "user_id", userID, "error", err)
		respondWithError(w, err, h.logger)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	}, h.logger)
}
