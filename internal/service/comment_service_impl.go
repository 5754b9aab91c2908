package service

import (
	"context"

	"github.com/joeatteen/blog-backend/internal/model"
	"github.com/joeatteen/blog-backend/internal/repository"
)

// CommentServiceImpl は CommentService の実装
type CommentServiceImpl struct {
	commentRepo repository.CommentRepository
}

// NewCommentService は CommentServiceImpl を生成する（DI: CommentRepository を注入）
func NewCommentService(commentRepo repository.CommentRepository) CommentService {
	return &CommentServiceImpl{commentRepo: commentRepo}
}

// ListByPostID は承認済みコメントを取得する
func (s *CommentServiceImpl) ListByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.commentRepo.ListApprovedByPostID(ctx, postID)
}

// Submit はコメントを承認済みとして作成する
func (s *CommentServiceImpl) Submit(ctx context.Context, comment *model.Comment) error {
	comment.Approved = true
	return s.commentRepo.Create(ctx, comment)
}
