package policy

import (
	"time"

	"github.com/blog-platform-api/internal/models"
)

// PubliclyVisible reports whether a post may be shown to viewers other
// than its author: it must be published, its publication date must not
// be in the future, and its category must be published. The reference
// time is an explicit parameter so callers and tests control the clock.
func PubliclyVisible(post *models.Post, now time.Time) bool {
	return post.IsPublished &&
		!post.PubDate.After(now) &&
		post.CategoryIsPublished
}

// Visible reports whether the given viewer may see the post. Authors
// always see their own posts, published or not.
func Visible(post *models.Post, viewerID int64, now time.Time) bool {
	if viewerID != models.AnonymousID && viewerID == post.AuthorID {
		return true
	}
	return PubliclyVisible(post, now)
}

// PostFilter is a first-class description of a post listing query.
// Zero values mean "no restriction" for the scoping fields.
type PostFilter struct {
	// AuthorID restricts results to one author when non-zero.
	AuthorID int64
	// CategoryID restricts results to one category when non-zero.
	CategoryID int64
	// PublicOnly applies the publicly-visible conditions using Now
	// as the reference time.
	PublicOnly bool
	Now        time.Time
}

// IndexFilter is the filter behind the front page: every publicly
// visible post.
func IndexFilter(now time.Time) PostFilter {
	return PostFilter{PublicOnly: true, Now: now}
}

// CategoryFilter scopes the index filter to a single category.
func CategoryFilter(categoryID int64, now time.Time) PostFilter {
	return PostFilter{CategoryID: categoryID, PublicOnly: true, Now: now}
}

// ProfileFilter is the filter behind an author's profile page. The
// owner bypass is all-or-nothing: the owner sees every one of their
// posts, anyone else only the publicly visible ones.
func ProfileFilter(ownerID, viewerID int64, now time.Time) PostFilter {
	return PostFilter{
		AuthorID:   ownerID,
		PublicOnly: viewerID != ownerID,
		Now:        now,
	}
}

// Page selects one page of an ordered listing. Numbering starts at 1.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset for the page
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}
