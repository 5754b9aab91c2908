package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joeatteen/blog-backend/internal/model"
)

// PgPostRepository は PostRepository の PostgreSQL 実装
type PgPostRepository struct {
	pool *pgxpool.Pool
}

// NewPgPostRepository は PgPostRepository を生成する
func NewPgPostRepository(pool *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{pool: pool}
}

// ListPublished は公開済み投稿を新しい順に取得する
func (r *PgPostRepository) ListPublished(ctx context.Context, search string, limit, offset int) ([]*model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, slug, content, COALESCE(image_url, ''), published, author_id, created_at, updated_at
		 FROM posts
		 WHERE published = true
		   AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%')
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		search, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CountPublished は検索条件込みの公開済み投稿数を返す
func (r *PgPostRepository) CountPublished(ctx context.Context, search string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts
		 WHERE published = true
		   AND ($1 = '' OR title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%')`,
		search,
	).Scan(&count)
	return count, err
}

// GetPublishedBySlug は slug で公開済み投稿を取得する
func (r *PgPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, slug, content, COALESCE(image_url, ''), published, author_id, created_at, updated_at
		 FROM posts WHERE slug = $1 AND published = true`,
		slug,
	).Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := r.loadTags(ctx, []*model.Post{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListImageReferences は image_url を持つ全投稿を新しい順に返す
func (r *PgPostRepository) ListImageReferences(ctx context.Context) ([]*model.ImageReference, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, image_url FROM posts
		 WHERE image_url IS NOT NULL AND image_url != ''
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []*model.ImageReference
	for rows.Next() {
		var ref model.ImageReference
		if err := rows.Scan(&ref.PostID, &ref.Title, &ref.ImageURL); err != nil {
			return nil, err
		}
		refs = append(refs, &ref)
	}
	return refs, rows.Err()
}

// UpdateImageURL は投稿の image_url を書き換える。対象が存在しない場合は ErrNotFound を返す。
func (r *PgPostRepository) UpdateImageURL(ctx context.Context, postID, imageURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET image_url = $1, updated_at = NOW() WHERE id = $2`,
		imageURL, postID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// loadTags は posts_tags/tags を結合して各投稿にタグを詰める
func (r *PgPostRepository) loadTags(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	byID := make(map[string]*model.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Tags = []*model.Tag{}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT pt.post_id, t.id, t.name, t.slug
		 FROM posts_tags pt
		 JOIN tags t ON t.id = pt.tag_id
		 WHERE pt.post_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var t model.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		if p, ok := byID[postID]; ok {
			p.Tags = append(p.Tags, &t)
		}
	}
	return rows.Err()
}
