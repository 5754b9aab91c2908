package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joeatteen/blog-backend/internal/model"
	"github.com/joeatteen/blog-backend/internal/repository"
)

// ======================
// モック
// ======================

type mockPostService struct {
	listFunc      func(ctx context.Context, search string, limit, page int) (*model.PostListResult, error)
	getBySlugFunc func(ctx context.Context, slug string) (*model.Post, error)
}

func (m *mockPostService) List(ctx context.Context, search string, limit, page int) (*model.PostListResult, error) {
	return m.listFunc(ctx, search, limit, page)
}

func (m *mockPostService) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return m.getBySlugFunc(ctx, slug)
}

// newPostMux routes through a ServeMux so PathValue is populated.
func newPostMux(h *PostHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/public-posts", h.List)
	mux.HandleFunc("GET /api/public-posts/{slug}", h.Get)
	return mux
}

// ======================
// List
// ======================

func TestPostHandler_List(t *testing.T) {
	svc := &mockPostService{
		listFunc: func(ctx context.Context, search string, limit, page int) (*model.PostListResult, error) {
			if search != "golang" {
				t.Errorf("search = %q", search)
			}
			if limit != 10 || page != 3 {
				t.Errorf("limit, page = %d, %d, want 10, 3", limit, page)
			}
			return &model.PostListResult{
				Posts:      []*model.Post{{ID: "p1", Title: "Hello"}},
				Pagination: model.Pagination{Total: 21, Page: page, Limit: limit, TotalPages: 3},
			}, nil
		},
	}
	mux := newPostMux(NewPostHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/public-posts?search=golang&limit=10&page=3", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", got)
	}

	var body model.PostListResult
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Posts) != 1 || body.Pagination.Total != 21 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestPostHandler_List_ClampsBadParams(t *testing.T) {
	svc := &mockPostService{
		listFunc: func(ctx context.Context, search string, limit, page int) (*model.PostListResult, error) {
			if limit != 6 {
				t.Errorf("limit = %d, want default 6", limit)
			}
			if page != 1 {
				t.Errorf("page = %d, want default 1", page)
			}
			return &model.PostListResult{Posts: []*model.Post{}}, nil
		},
	}
	mux := newPostMux(NewPostHandler(svc))

	// Oversized limit and a non-numeric page fall back to defaults.
	req := httptest.NewRequest(http.MethodGet, "/api/public-posts?limit=500&page=abc", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestPostHandler_List_ServiceError(t *testing.T) {
	svc := &mockPostService{
		listFunc: func(ctx context.Context, search string, limit, page int) (*model.PostListResult, error) {
			return nil, errors.New("db down")
		},
	}
	mux := newPostMux(NewPostHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/public-posts", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

// ======================
// Get
// ======================

func TestPostHandler_Get(t *testing.T) {
	svc := &mockPostService{
		getBySlugFunc: func(ctx context.Context, slug string) (*model.Post, error) {
			return &model.Post{ID: "p1", Slug: slug, Title: "Hello"}, nil
		},
	}
	mux := newPostMux(NewPostHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/public-posts/hello-world", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Post *model.Post `json:"post"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Post == nil || body.Post.Slug != "hello-world" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestPostHandler_Get_NotFound(t *testing.T) {
	svc := &mockPostService{
		getBySlugFunc: func(ctx context.Context, slug string) (*model.Post, error) {
			return nil, repository.ErrNotFound
		},
	}
	mux := newPostMux(NewPostHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/api/public-posts/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "post_not_found" {
		t.Errorf("error = %q", body["error"])
	}
}
