package cache

import (
	"fmt"
	"time"
)

// Key inventory for cached query results. Keys mirror the query scopes:
// the full feed, one user's posts, one post's comments, and the per-post
// like count plus per-(post, user) like state.
const (
	PostsKey           = "posts"
	userPostsKeyPrefix = "posts:user:%s"
	commentsKeyPrefix  = "comments:%d"
	likeStateKeyPrefix = "likes:%d:%s"
	likeCountKeyPrefix = "likecount:%d"
)

const (
	PostsTTL    = 5 * time.Minute
	CommentsTTL = 5 * time.Minute
	LikesTTL    = 5 * time.Minute
)

func UserPostsKey(userID string) string {
	return fmt.Sprintf(userPostsKeyPrefix, userID)
}

func CommentsKey(postID int) string {
	return fmt.Sprintf(commentsKeyPrefix, postID)
}

func LikeStateKey(postID int, userID string) string {
	return fmt.Sprintf(likeStateKeyPrefix, postID, userID)
}

func LikeCountKey(postID int) string {
	return fmt.Sprintf(likeCountKeyPrefix, postID)
}
