package repository

import (
	"context"

	"github.com/joeatteen/blog-backend/internal/model"
)

// CommentRepository はコメント永続化のインターフェース
type CommentRepository interface {
	// ListApprovedByPostID は承認済みコメントを古い順に取得する
	ListApprovedByPostID(ctx context.Context, postID string) ([]*model.Comment, error)
	// Create はコメントを作成する
	Create(ctx context.Context, comment *model.Comment) error
}
