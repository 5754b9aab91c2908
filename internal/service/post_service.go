package service

import (
	"context"

	"github.com/joeatteen/blog-backend/internal/imageurl"
	"github.com/joeatteen/blog-backend/internal/model"
)

// ImageResolver は保存済み画像参照を描画可能な URL に解決する。
// *imageurl.Cache が実装する。
type ImageResolver interface {
	Resolve(ctx context.Context, raw string) (imageurl.ResolvedURL, error)
}

// PostService は投稿に関するビジネスロジックのインターフェース
type PostService interface {
	// List は公開済み投稿を 1 ページ分取得する。image_url は解決済み URL に
	// 差し替えられ、excerpt が本文から生成される。
	List(ctx context.Context, search string, limit, page int) (*model.PostListResult, error)
	// GetBySlug は slug で公開済み投稿を取得する（image_url 解決済み）
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)
}
