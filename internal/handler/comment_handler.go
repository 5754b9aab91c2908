package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/joeatteen/blog-backend/internal/model"
	"github.com/joeatteen/blog-backend/internal/repository"
	"github.com/joeatteen/blog-backend/internal/service"
)

const maxCommentLength = 2000

// CommentHandler はコメント API の HTTP ハンドラ
type CommentHandler struct {
	commentService service.CommentService
	postService    service.PostService
}

// NewCommentHandler は CommentHandler を生成する
func NewCommentHandler(commentService service.CommentService, postService service.PostService) *CommentHandler {
	return &CommentHandler{commentService: commentService, postService: postService}
}

// List は GET /api/public-posts/{slug}/comments を処理する
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	comments, err := h.commentService.ListByPostID(r.Context(), post.ID)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "failed_to_fetch_comments"})
		return
	}
	if comments == nil {
		comments = []*model.Comment{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"comments": comments})
}

// submitCommentRequest is the expected JSON body for POST .../comments.
type submitCommentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content"`
}

// Submit は POST /api/public-posts/{slug}/comments を処理する。
// name と content は必須、email は任意。content は最大 2000 文字。
func (h *CommentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.lookupPost(w, r)
	if !ok {
		return
	}

	var req submitCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	if req.Name == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "name_required"})
		return
	}
	if req.Content == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "content_required"})
		return
	}
	if len([]rune(req.Content)) > maxCommentLength {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "content_too_long"})
		return
	}

	comment := &model.Comment{
		PostID:  post.ID,
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Content,
	}
	if err := h.commentService.Submit(r.Context(), comment); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submit_failed"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"comment": comment})
}

// lookupPost resolves the {slug} path value to a published post, writing
// the error response itself when the post cannot be found.
func (h *CommentHandler) lookupPost(w http.ResponseWriter, r *http.Request) (*model.Post, bool) {
	slug := r.PathValue("slug")
	if slug == "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "slug_required"})
		return nil, false
	}

	post, err := h.postService.GetBySlug(r.Context(), slug)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "post_not_found"})
			return nil, false
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
		return nil, false
	}
	return post, true
}
