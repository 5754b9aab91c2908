package model

import "time"

// Post represents a blog post as stored in the posts table.
// ImageURL holds the raw stored reference; handlers replace it with a
// resolved URL before returning posts to external consumers.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Published bool      `json:"published"`
	AuthorID  string    `json:"-"`
	Tags      []*Tag    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag is a label attached to posts via the posts_tags join table.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostListResult carries one page of posts plus pagination metadata.
type PostListResult struct {
	Posts      []*Post    `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ImageReference is one post's stored image value as seen by the fixer.
type ImageReference struct {
	PostID   string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}
