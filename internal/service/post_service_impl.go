package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joeatteen/blog-backend/internal/model"
	"github.com/joeatteen/blog-backend/internal/repository"
)

const excerptLength = 160

// reMarkdown は Markdown 記法を簡易的に除去するためのパターン
var reMarkdown = regexp.MustCompile(`(?m)^#{1,6}\s+|[*_~` + "`" + `\[\]()>]+`)

// excerptFromContent は本文からプレーンテキストの抜粋を生成する
func excerptFromContent(content string) string {
	s := reMarkdown.ReplaceAllString(content, "")
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= excerptLength {
		return s
	}
	return string(runes[:excerptLength]) + "..."
}

// PostServiceImpl は PostService の実装
type PostServiceImpl struct {
	postRepo repository.PostRepository
	resolver ImageResolver
}

// NewPostService は PostServiceImpl を生成する（DI: PostRepository と ImageResolver を注入）
func NewPostService(postRepo repository.PostRepository, resolver ImageResolver) PostService {
	return &PostServiceImpl{postRepo: postRepo, resolver: resolver}
}

// List は公開済み投稿を 1 ページ分取得する
func (s *PostServiceImpl) List(ctx context.Context, search string, limit, page int) (*model.PostListResult, error) {
	if limit <= 0 {
		limit = 6
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	total, err := s.postRepo.CountPublished(ctx, search)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListPublished(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		p.Excerpt = excerptFromContent(p.Content)
		s.resolveImage(ctx, p)
	}

	totalPages := (total + limit - 1) / limit
	return &model.PostListResult{
		Posts: posts,
		Pagination: model.Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// GetBySlug は slug で公開済み投稿を取得する
func (s *PostServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	post, err := s.postRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.resolveImage(ctx, post)
	return post, nil
}

// resolveImage は保存済み参照を解決済み URL に差し替える。解決に失敗した
// 場合は元の値をそのまま残す（外部消費者側のフォールバックに委ねる）。
func (s *PostServiceImpl) resolveImage(ctx context.Context, p *model.Post) {
	if p.ImageURL == "" {
		return
	}
	resolved, err := s.resolver.Resolve(ctx, p.ImageURL)
	if err != nil {
		slog.Warn("image resolution failed, keeping stored value",
			"post_id", p.ID,
			"raw", p.ImageURL,
			"error", err,
		)
		return
	}
	p.ImageURL = resolved.URL
}
