package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joeatteen/blog-backend/internal/model"
)

// PgCommentRepository は CommentRepository の PostgreSQL 実装
type PgCommentRepository struct {
	pool *pgxpool.Pool
}

// NewPgCommentRepository は PgCommentRepository を生成する
func NewPgCommentRepository(pool *pgxpool.Pool) *PgCommentRepository {
	return &PgCommentRepository{pool: pool}
}

// ListApprovedByPostID は承認済みコメントを古い順に取得する
func (r *PgCommentRepository) ListApprovedByPostID(ctx context.Context, postID string) ([]*model.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, post_id, name, COALESCE(email, ''), content, approved, created_at
		 FROM comments WHERE post_id = $1 AND approved = true
		 ORDER BY created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.Name, &c.Email, &c.Content, &c.Approved, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// Create はコメントを作成する
func (r *PgCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO comments (post_id, name, email, content, approved)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		comment.PostID, comment.Name, comment.Email, comment.Content, comment.Approved,
	).Scan(&comment.ID, &comment.CreatedAt)
}
