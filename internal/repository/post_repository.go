package repository

import (
	"context"

	"github.com/joeatteen/blog-backend/internal/model"
)

// PostRepository は投稿永続化のインターフェース
type PostRepository interface {
	// ListPublished は公開済み投稿を新しい順に取得する。search が空でない
	// 場合はタイトルと本文の部分一致で絞り込む。
	ListPublished(ctx context.Context, search string, limit, offset int) ([]*model.Post, error)
	// CountPublished は ListPublished と同じ条件での総件数を返す
	CountPublished(ctx context.Context, search string) (int, error)
	// GetPublishedBySlug は slug で公開済み投稿を 1 件取得する
	GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error)
	// ListImageReferences は画像を持つ全投稿の保存済み image_url を返す
	ListImageReferences(ctx context.Context) ([]*model.ImageReference, error)
	// UpdateImageURL は投稿の image_url を書き換える
	UpdateImageURL(ctx context.Context, postID, imageURL string) error
}
