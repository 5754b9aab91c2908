package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/joeatteen/blog-backend/internal/imageurl"
	"github.com/joeatteen/blog-backend/internal/model"
)

// ======================
// モック
// ======================

type mockPostRepository struct {
	listPublishedFunc       func(ctx context.Context, search string, limit, offset int) ([]*model.Post, error)
	countPublishedFunc      func(ctx context.Context, search string) (int, error)
	getPublishedBySlugFunc  func(ctx context.Context, slug string) (*model.Post, error)
	listImageReferencesFunc func(ctx context.Context) ([]*model.ImageReference, error)
	updateImageURLFunc      func(ctx context.Context, postID, imageURL string) error
}

func (m *mockPostRepository) ListPublished(ctx context.Context, search string, limit, offset int) ([]*model.Post, error) {
	return m.listPublishedFunc(ctx, search, limit, offset)
}

func (m *mockPostRepository) CountPublished(ctx context.Context, search string) (int, error) {
	return m.countPublishedFunc(ctx, search)
}

func (m *mockPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	return m.getPublishedBySlugFunc(ctx, slug)
}

func (m *mockPostRepository) ListImageReferences(ctx context.Context) ([]*model.ImageReference, error) {
	return m.listImageReferencesFunc(ctx)
}

func (m *mockPostRepository) UpdateImageURL(ctx context.Context, postID, imageURL string) error {
	return m.updateImageURLFunc(ctx, postID, imageURL)
}

type mockImageResolver struct {
	resolveFunc func(ctx context.Context, raw string) (imageurl.ResolvedURL, error)
}

func (m *mockImageResolver) Resolve(ctx context.Context, raw string) (imageurl.ResolvedURL, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, raw)
	}
	return imageurl.ResolvedURL{URL: "https://resolved.example/" + raw, Strategy: imageurl.StrategySigned}, nil
}

// ======================
// List
// ======================

func TestPostService_List(t *testing.T) {
	repo := &mockPostRepository{
		countPublishedFunc: func(ctx context.Context, search string) (int, error) {
			return 13, nil
		},
		listPublishedFunc: func(ctx context.Context, search string, limit, offset int) ([]*model.Post, error) {
			if limit != 6 {
				t.Errorf("limit = %d, want default 6", limit)
			}
			if offset != 6 {
				t.Errorf("offset = %d, want 6 for page 2", offset)
			}
			return []*model.Post{
				{ID: "p1", Content: "# Heading\n\nSome **bold** body text.", ImageURL: "blog/foo.png"},
				{ID: "p2", Content: "plain"},
			}, nil
		},
	}
	svc := NewPostService(repo, &mockImageResolver{})

	result, err := svc.List(context.Background(), "", 0, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if result.Pagination.Total != 13 {
		t.Errorf("Total = %d, want 13", result.Pagination.Total)
	}
	if result.Pagination.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", result.Pagination.TotalPages)
	}
	if result.Pagination.Page != 2 {
		t.Errorf("Page = %d, want 2", result.Pagination.Page)
	}

	if got := result.Posts[0].Excerpt; strings.ContainsAny(got, "#*") {
		t.Errorf("excerpt still contains markdown: %q", got)
	}
	if got := result.Posts[0].ImageURL; got != "https://resolved.example/blog/foo.png" {
		t.Errorf("ImageURL = %q, want resolved URL", got)
	}
	if result.Posts[1].ImageURL != "" {
		t.Errorf("post without image got ImageURL = %q", result.Posts[1].ImageURL)
	}
}

func TestPostService_List_ResolutionFailureKeepsStoredValue(t *testing.T) {
	repo := &mockPostRepository{
		countPublishedFunc: func(ctx context.Context, search string) (int, error) { return 1, nil },
		listPublishedFunc: func(ctx context.Context, search string, limit, offset int) ([]*model.Post, error) {
			return []*model.Post{{ID: "p1", Content: "x", ImageURL: "blog/foo.png"}}, nil
		},
	}
	resolver := &mockImageResolver{
		resolveFunc: func(ctx context.Context, raw string) (imageurl.ResolvedURL, error) {
			return imageurl.ResolvedURL{}, imageurl.ErrUnresolvable
		},
	}
	svc := NewPostService(repo, resolver)

	result, err := svc.List(context.Background(), "", 6, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := result.Posts[0].ImageURL; got != "blog/foo.png" {
		t.Errorf("ImageURL = %q, want stored value kept on resolution failure", got)
	}
}

func TestPostService_List_RepositoryError(t *testing.T) {
	wantErr := errors.New("db down")
	repo := &mockPostRepository{
		countPublishedFunc: func(ctx context.Context, search string) (int, error) { return 0, wantErr },
	}
	svc := NewPostService(repo, &mockImageResolver{})

	if _, err := svc.List(context.Background(), "", 6, 1); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

// ======================
// GetBySlug
// ======================

func TestPostService_GetBySlug(t *testing.T) {
	repo := &mockPostRepository{
		getPublishedBySlugFunc: func(ctx context.Context, slug string) (*model.Post, error) {
			if slug != "hello-world" {
				t.Errorf("slug = %q", slug)
			}
			return &model.Post{ID: "p1", Slug: slug, ImageURL: "blog/foo.png"}, nil
		},
	}
	svc := NewPostService(repo, &mockImageResolver{})

	post, err := svc.GetBySlug(context.Background(), "hello-world")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if post.ImageURL != "https://resolved.example/blog/foo.png" {
		t.Errorf("ImageURL = %q, want resolved URL", post.ImageURL)
	}
}

// ======================
// excerpt
// ======================

func TestExcerptFromContent(t *testing.T) {
	long := strings.Repeat("word ", 100)
	got := excerptFromContent(long)
	if len([]rune(got)) != excerptLength+3 {
		t.Errorf("excerpt length = %d, want %d + ellipsis", len([]rune(got)), excerptLength)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long excerpt should end with ellipsis: %q", got)
	}

	short := "## Title\n\nA *short* body."
	if got := excerptFromContent(short); strings.ContainsAny(got, "#*") {
		t.Errorf("markdown not stripped: %q", got)
	}
	if got := excerptFromContent("tiny"); got != "tiny" {
		t.Errorf("excerptFromContent(tiny) = %q", got)
	}
}
