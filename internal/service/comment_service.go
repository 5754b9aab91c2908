package service

import (
	"context"

	"github.com/joeatteen/blog-backend/internal/model"
)

// CommentService はコメントに関するビジネスロジックのインターフェース
type CommentService interface {
	ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error)
	Submit(ctx context.Context, comment *model.Comment) error
}
