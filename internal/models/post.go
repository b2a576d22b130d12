package models

import (
	"time"
)

// Post represents a blog post in a category, optionally tagged with a location
type Post struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	PubDate     time.Time `json:"pub_date" db:"pub_date"`
	IsPublished bool      `json:"is_published" db:"is_published"`
	AuthorID    int64     `json:"author_id" db:"author_id"`
	CategoryID  int64     `json:"category_id" db:"category_id"`
	LocationID  *int64    `json:"location_id,omitempty" db:"location_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Denormalized for rendering, populated by listing/detail queries
	AuthorUsername      string `json:"author_username,omitempty" db:"-"`
	CategorySlug        string `json:"category_slug,omitempty" db:"-"`
	CategoryTitle       string `json:"category_title,omitempty" db:"-"`
	CategoryIsPublished bool   `json:"-" db:"-"`
	LocationName        string `json:"location_name,omitempty" db:"-"`
	CommentCount        int    `json:"comment_count" db:"-"`
}

// PostRequest is the payload for post create and edit
type PostRequest struct {
	Title       string     `json:"title" form:"title"`
	Body        string     `json:"body" form:"body"`
	PubDate     *time.Time `json:"pub_date" form:"pub_date" time_format:"2006-01-02T15:04:05Z07:00"`
	IsPublished *bool      `json:"is_published" form:"is_published"`
	CategoryID  int64      `json:"category_id" form:"category_id"`
	LocationID  *int64     `json:"location_id" form:"location_id"`
}

// PostPage is a single page of a post listing
type PostPage struct {
	Posts      []*Post `json:"posts"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalCount int     `json:"total_count"`
}
