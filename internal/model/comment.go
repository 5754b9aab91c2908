package model

import "time"

// Comment represents a reader comment on a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Name      string    `json:"name"`
	Email     string    `json:"-"`
	Content   string    `json:"content"`
	Approved  bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
