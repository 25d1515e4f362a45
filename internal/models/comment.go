package models

import "time"

// Comment is a comment row as stored by the backend service.
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	UserName  string    `json:"user_name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentInput is the insert payload for a new comment.
type CommentInput struct {
	PostID    int    `json:"post_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
	UserName  string `json:"user_name"`
	AvatarURL string `json:"avatar_url"`
}
