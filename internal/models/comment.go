package models

import (
	"time"
)

// Comment is a reply beneath a post. Comments carry no visibility flag
// of their own; they are shown with any post the viewer may see.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	AuthorID  int64     `json:"author_id" db:"author_id"`
	PostID    int64     `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	AuthorUsername string `json:"author_username,omitempty" db:"-"`
}

// CommentRequest is the payload for comment create and edit
type CommentRequest struct {
	Text string `json:"text" form:"text"`
}

// MaxCommentLength is the maximum allowed characters in a comment
const MaxCommentLength = 2000
