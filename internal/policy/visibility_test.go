package policy

import (
	"testing"
	"time"

	"github.com/blog-platform-api/internal/models"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func makePost(authorID int64, published bool, pubDate time.Time, categoryPublished bool) *models.Post {
	return &models.Post{
		ID:                  1,
		Title:               "post",
		AuthorID:            authorID,
		IsPublished:         published,
		PubDate:             pubDate,
		CategoryIsPublished: categoryPublished,
	}
}

func TestVisible_AuthorBypass(t *testing.T) {
	// The author sees their post regardless of publication state
	tests := []struct {
		name              string
		published         bool
		pubDate           time.Time
		categoryPublished bool
	}{
		{"unpublished", false, testNow.Add(-time.Hour), true},
		{"future-dated", true, testNow.Add(time.Hour), true},
		{"unpublished category", true, testNow.Add(-time.Hour), false},
		{"everything hidden", false, testNow.Add(time.Hour), false},
		{"fully visible", true, testNow.Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := makePost(7, tt.published, tt.pubDate, tt.categoryPublished)
			if !Visible(post, 7, testNow) {
				t.Error("Author should always see their own post")
			}
		})
	}
}

func TestVisible_OtherViewer(t *testing.T) {
	tests := []struct {
		name              string
		published         bool
		pubDate           time.Time
		categoryPublished bool
		want              bool
	}{
		{"fully visible", true, testNow.Add(-time.Hour), true, true},
		{"pub_date exactly now", true, testNow, true, true},
		{"not published", false, testNow.Add(-time.Hour), true, false},
		{"future-dated", true, testNow.Add(time.Second), true, false},
		{"category unpublished", true, testNow.Add(-time.Hour), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := makePost(7, tt.published, tt.pubDate, tt.categoryPublished)
			if got := Visible(post, 8, testNow); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
			// Anonymous viewers follow the same public rule
			if got := Visible(post, models.AnonymousID, testNow); got != tt.want {
				t.Errorf("Visible(anonymous) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVisible_PublicationBoundary(t *testing.T) {
	// Results flip as the reference time crosses pub_date
	post := makePost(7, true, testNow, true)

	if Visible(post, 8, testNow.Add(-time.Second)) {
		t.Error("Post should be hidden before its pub_date")
	}
	if !Visible(post, 8, testNow) {
		t.Error("Post should be visible at its pub_date")
	}
}

func TestProfileFilter_OwnerBypass(t *testing.T) {
	owner := ProfileFilter(7, 7, testNow)
	if owner.PublicOnly {
		t.Error("Owner profile filter should not restrict to public posts")
	}
	if owner.AuthorID != 7 {
		t.Errorf("Expected author scope 7, got %d", owner.AuthorID)
	}

	visitor := ProfileFilter(7, 8, testNow)
	if !visitor.PublicOnly {
		t.Error("Visitor profile filter should restrict to public posts")
	}

	anonymous := ProfileFilter(7, models.AnonymousID, testNow)
	if !anonymous.PublicOnly {
		t.Error("Anonymous profile filter should restrict to public posts")
	}
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		page   Page
		offset int
	}{
		{Page{Number: 1, Size: 10}, 0},
		{Page{Number: 2, Size: 10}, 10},
		{Page{Number: 3, Size: 10}, 20},
		{Page{Number: 0, Size: 10}, 0},
		{Page{Number: -1, Size: 10}, 0},
	}

	for _, tt := range tests {
		if got := tt.page.Offset(); got != tt.offset {
			t.Errorf("Page %d size %d: offset %d, want %d",
				tt.page.Number, tt.page.Size, got, tt.offset)
		}
	}
}
