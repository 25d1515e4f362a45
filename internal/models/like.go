package models

// Like is a like row. Identity is the (post_id, user_id) pair.
type Like struct {
	ID     int    `json:"id"`
	PostID int    `json:"post_id"`
	UserID string `json:"user_id"`
}

// LikeInput is the insert payload for a new like.
type LikeInput struct {
	PostID int    `json:"post_id"`
	UserID string `json:"user_id"`
}
