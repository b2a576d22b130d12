package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/mocks"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	services *service.Services
	users    *mocks.MockUserRepository
	cats     *mocks.MockCategoryRepository
	posts    *mocks.MockPostRepository
	comments *mocks.MockCommentRepository
	sessions *mocks.MockSessionRepository
}

func newFixture() *fixture {
	f := &fixture{
		users:    mocks.NewMockUserRepository(),
		cats:     mocks.NewMockCategoryRepository(),
		posts:    mocks.NewMockPostRepository(),
		comments: mocks.NewMockCommentRepository(),
		sessions: mocks.NewMockSessionRepository(),
	}

	repos := &repository.Repositories{
		User:     f.users,
		Category: f.cats,
		Post:     f.posts,
		Comment:  f.comments,
		Session:  f.sessions,
	}
	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionTTL: time.Hour,
			BcryptCost: bcrypt.MinCost,
			CookieName: "session_token",
		},
		Listing: config.ListingConfig{PageSize: 10},
	}
	f.services = service.NewServices(repos, cfg, zerolog.Nop())
	return f
}

func (f *fixture) addUser(id int64, username string) *models.User {
	user := &models.User{ID: id, Username: username, Email: username + "@test.com"}
	f.users.Users[id] = user
	return user
}

func (f *fixture) addCategory(id int64, slug string, published bool) *models.Category {
	category := &models.Category{ID: id, Slug: slug, Title: slug, IsPublished: published}
	f.cats.Categories[id] = category
	return category
}

// addPost stores a post with the denormalized category state the SQL
// joins would have produced.
func (f *fixture) addPost(id, authorID, categoryID int64, published bool, pubDate time.Time) *models.Post {
	category := f.cats.Categories[categoryID]
	post := &models.Post{
		ID:                  id,
		Title:               fmt.Sprintf("post %d", id),
		Body:                "body",
		PubDate:             pubDate,
		IsPublished:         published,
		AuthorID:            authorID,
		CategoryID:          categoryID,
		CategoryIsPublished: category != nil && category.IsPublished,
	}
	f.posts.Posts[id] = post
	return post
}

func TestIndexListing_FiltersAndPaginates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addCategory(1, "travel", true)

	// 25 visible posts plus ones that must never appear
	for i := 1; i <= 25; i++ {
		f.addPost(int64(i), 1, 1, true, fixedNow.Add(-time.Duration(i)*time.Hour))
	}
	f.addPost(100, 1, 1, false, fixedNow.Add(-time.Hour))     // unpublished
	f.addPost(101, 1, 1, true, fixedNow.Add(24*time.Hour))    // future-dated
	f.addCategory(2, "drafts", false)
	f.addPost(102, 1, 2, true, fixedNow.Add(-time.Hour)) // category unpublished

	page1, err := f.services.Post.Index(ctx, 1, fixedNow)
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}
	if len(page1.Posts) != 10 {
		t.Errorf("Expected 10 posts on page 1, got %d", len(page1.Posts))
	}
	if page1.TotalCount != 25 {
		t.Errorf("Expected total 25, got %d", page1.TotalCount)
	}

	// Ordered by pub_date descending
	for i := 1; i < len(page1.Posts); i++ {
		if page1.Posts[i].PubDate.After(page1.Posts[i-1].PubDate) {
			t.Error("Posts not ordered by pub_date descending")
		}
	}

	page3, err := f.services.Post.Index(ctx, 3, fixedNow)
	if err != nil {
		t.Fatalf("Index page 3 failed: %v", err)
	}
	if len(page3.Posts) != 5 {
		t.Errorf("Expected 5 posts on page 3, got %d", len(page3.Posts))
	}

	// Hidden posts never show up on any page
	for page := 1; page <= 3; page++ {
		listing, _ := f.services.Post.Index(ctx, page, fixedNow)
		for _, p := range listing.Posts {
			if p.ID >= 100 {
				t.Errorf("Hidden post %d leaked into index listing", p.ID)
			}
		}
	}
}

func TestCategoryListing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addCategory(1, "travel", true)
	f.addCategory(2, "food", true)
	f.addPost(1, 1, 1, true, fixedNow.Add(-time.Hour))
	f.addPost(2, 1, 2, true, fixedNow.Add(-time.Hour))

	category, listing, err := f.services.Post.Category(ctx, "travel", 1, fixedNow)
	if err != nil {
		t.Fatalf("Category failed: %v", err)
	}
	if category.Slug != "travel" {
		t.Errorf("Expected category travel, got %s", category.Slug)
	}
	if len(listing.Posts) != 1 || listing.Posts[0].ID != 1 {
		t.Errorf("Expected only post 1 in travel, got %v", listing.Posts)
	}
}

func TestCategoryListing_UnpublishedIsNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addCategory(1, "hidden", false)

	_, _, err := f.services.Post.Category(ctx, "hidden", 1, fixedNow)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unpublished category, got %v", err)
	}

	_, _, err = f.services.Post.Category(ctx, "missing", 1, fixedNow)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing category, got %v", err)
	}
}

func TestProfileListing_OwnerSeesEverything(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.addUser(1, "alice")
	f.addUser(2, "bob")
	f.addCategory(1, "travel", true)

	f.addPost(1, 1, 1, true, fixedNow.Add(-time.Hour))  // visible
	f.addPost(2, 1, 1, false, fixedNow.Add(-time.Hour)) // unpublished
	f.addPost(3, 1, 1, true, fixedNow.Add(time.Hour))   // future-dated

	// Owner gets the full set, all-or-nothing
	_, listing, err := f.services.Post.Profile(ctx, "alice", owner.ID, 1, fixedNow)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if len(listing.Posts) != 3 {
		t.Errorf("Owner should see 3 posts, got %d", len(listing.Posts))
	}

	// Another viewer gets only the public set
	_, listing, err = f.services.Post.Profile(ctx, "alice", 2, 1, fixedNow)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if len(listing.Posts) != 1 || listing.Posts[0].ID != 1 {
		t.Errorf("Visitor should see only post 1, got %v", listing.Posts)
	}

	// So does an anonymous viewer
	_, listing, err = f.services.Post.Profile(ctx, "alice", models.AnonymousID, 1, fixedNow)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if len(listing.Posts) != 1 {
		t.Errorf("Anonymous should see 1 post, got %d", len(listing.Posts))
	}
}

func TestProfileListing_UnknownUser(t *testing.T) {
	f := newFixture()

	_, _, err := f.services.Post.Profile(context.Background(), "nobody", 1, 1, fixedNow)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDetail_AuthorBypassIsPerPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addUser(2, "bob")
	f.addCategory(1, "travel", true)
	f.addPost(5, 1, 1, false, fixedNow.Add(-time.Hour))

	// The author sees their unpublished post
	post, _, err := f.services.Post.Detail(ctx, 5, 1, fixedNow)
	if err != nil {
		t.Fatalf("Detail as author failed: %v", err)
	}
	if post.ID != 5 {
		t.Errorf("Expected post 5, got %d", post.ID)
	}

	// Any other viewer gets not found, indistinguishable from absence
	_, _, err = f.services.Post.Detail(ctx, 5, 2, fixedNow)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for non-author, got %v", err)
	}
	_, _, err = f.services.Post.Detail(ctx, 5, models.AnonymousID, fixedNow)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for anonymous, got %v", err)
	}
	_, _, err = f.services.Post.Detail(ctx, 999, 1, fixedNow)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing post, got %v", err)
	}
}

func TestDetail_CommentsOldestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addCategory(1, "travel", true)
	f.addPost(1, 1, 1, true, fixedNow.Add(-time.Hour))

	f.comments.Comments[1] = &models.Comment{ID: 1, PostID: 1, AuthorID: 1, Text: "second", CreatedAt: fixedNow.Add(-time.Minute)}
	f.comments.Comments[2] = &models.Comment{ID: 2, PostID: 1, AuthorID: 1, Text: "first", CreatedAt: fixedNow.Add(-time.Hour)}

	_, comments, err := f.services.Post.Detail(ctx, 1, models.AnonymousID, fixedNow)
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}
	if comments[0].Text != "first" || comments[1].Text != "second" {
		t.Errorf("Comments not ordered oldest first: %s, %s", comments[0].Text, comments[1].Text)
	}
}

func TestCreateThenDetail_RoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addCategory(3, "travel", true)
	f.cats.Locations[4] = &models.Location{ID: 4, Name: "Reykjavik", IsPublished: true}

	pubDate := fixedNow.Add(-time.Minute)
	locationID := int64(4)
	created, err := f.services.Post.Create(ctx, 1, &models.PostRequest{
		Title:      "Northern lights",
		Body:       "Worth the cold.",
		PubDate:    &pubDate,
		CategoryID: 3,
		LocationID: &locationID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// The post must be visible, but the mock store has no SQL joins, so
	// mark the category state the way the repository query would.
	f.posts.Posts[created.ID].CategoryIsPublished = true

	got, _, err := f.services.Post.Detail(ctx, created.ID, 1, fixedNow)
	if err != nil {
		t.Fatalf("Detail failed: %v", err)
	}
	if got.Title != "Northern lights" || got.Body != "Worth the cold." {
		t.Errorf("Round-trip mismatch: %q / %q", got.Title, got.Body)
	}
	if got.CategoryID != 3 {
		t.Errorf("Expected category 3, got %d", got.CategoryID)
	}
	if got.LocationID == nil || *got.LocationID != 4 {
		t.Errorf("Expected location 4, got %v", got.LocationID)
	}
	if got.AuthorID != 1 {
		t.Errorf("Author should be set from the viewer, got %d", got.AuthorID)
	}
}

func TestCreate_UnknownReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addCategory(1, "travel", true)
	pubDate := fixedNow

	_, err := f.services.Post.Create(ctx, 1, &models.PostRequest{
		Title: "t", Body: "b", PubDate: &pubDate, CategoryID: 99,
	})
	if !errors.Is(err, service.ErrInvalidReference) {
		t.Errorf("Expected ErrInvalidReference for unknown category, got %v", err)
	}

	locationID := int64(77)
	_, err = f.services.Post.Create(ctx, 1, &models.PostRequest{
		Title: "t", Body: "b", PubDate: &pubDate, CategoryID: 1, LocationID: &locationID,
	})
	if !errors.Is(err, service.ErrInvalidReference) {
		t.Errorf("Expected ErrInvalidReference for unknown location, got %v", err)
	}
}

func TestUpdate_OwnershipDecision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addUser(2, "bob")
	f.addCategory(1, "travel", true)
	f.addPost(5, 1, 1, true, fixedNow.Add(-time.Hour))

	pubDate := fixedNow
	req := &models.PostRequest{Title: "hijacked", Body: "b", PubDate: &pubDate, CategoryID: 1}

	// A non-author is denied: redirect to the detail page, no mutation
	decision, err := f.services.Post.Update(ctx, 5, 2, req)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if decision.Allowed() {
		t.Error("Non-author edit must be denied")
	}
	if decision.RedirectTo != "/posts/5" {
		t.Errorf("Expected redirect to /posts/5, got %q", decision.RedirectTo)
	}
	if f.posts.Posts[5].Title == "hijacked" {
		t.Error("Non-author edit must not mutate the post")
	}

	// A missing post is still not found
	_, err = f.services.Post.Update(ctx, 999, 1, req)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing post, got %v", err)
	}

	// The author can edit
	decision, err = f.services.Post.Update(ctx, 5, 1, req)
	if err != nil {
		t.Fatalf("Update as author failed: %v", err)
	}
	if !decision.Allowed() {
		t.Error("Author edit should be allowed")
	}
	if decision.Post.Title != "hijacked" {
		t.Errorf("Expected updated title, got %q", decision.Post.Title)
	}
}

func TestDelete_Decision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addUser(1, "alice")
	f.addUser(2, "bob")
	f.addCategory(1, "travel", true)
	f.addPost(5, 1, 1, true, fixedNow.Add(-time.Hour))

	// A non-author is denied: redirect target, no entity, no mutation
	decision, err := f.services.Post.Delete(ctx, 5, 2)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if decision.Allowed() {
		t.Error("Non-author delete must be denied")
	}
	if decision.RedirectTo != "/posts/5" {
		t.Errorf("Expected redirect to /posts/5, got %q", decision.RedirectTo)
	}
	if f.posts.Posts[5] == nil {
		t.Fatal("Denied delete must not remove the post")
	}

	// The author deletes
	decision, err = f.services.Post.Delete(ctx, 5, 1)
	if err != nil {
		t.Fatalf("Delete as author failed: %v", err)
	}
	if !decision.Allowed() {
		t.Error("Author delete should be allowed")
	}
	if f.posts.Posts[5] != nil {
		t.Error("Post should be gone")
	}

	_, err = f.services.Post.Delete(ctx, 5, 1)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for deleted post, got %v", err)
	}
}
