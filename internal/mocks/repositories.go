package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
)

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	Users  map[int64]*models.User
	nextID int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *user
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.Users[id] = &stored
	return id, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	if existing, ok := m.Users[user.ID]; ok {
		existing.Email = user.Email
		existing.FirstName = user.FirstName
		existing.LastName = user.LastName
	}
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	u, _ := m.GetByUsername(ctx, username)
	return u != nil, nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, u := range m.Users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// MockCategoryRepository is an in-memory implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories map[int64]*models.Category
	Locations  map[int64]*models.Location
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[int64]*models.Category),
		Locations:  make(map[int64]*models.Location),
	}
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	return m.Categories[id], nil
}

func (m *MockCategoryRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.Slug == slug && c.IsPublished {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockCategoryRepository) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	return m.Locations[id], nil
}

// MockPostRepository is an in-memory implementation of PostRepository.
// Find applies the same filter semantics as the SQL implementation so
// service tests exercise real listing behavior.
type MockPostRepository struct {
	Posts  map[int64]*models.Post
	nextID int64
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{Posts: make(map[int64]*models.Post), nextID: 1}
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *post
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.Posts[id] = &stored
	return id, nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	if existing, ok := m.Posts[post.ID]; ok {
		existing.Title = post.Title
		existing.Body = post.Body
		existing.PubDate = post.PubDate
		existing.IsPublished = post.IsPublished
		existing.CategoryID = post.CategoryID
		existing.LocationID = post.LocationID
	}
	return nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id int64) error {
	delete(m.Posts, id)
	return nil
}

func (m *MockPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	return m.Posts[id], nil
}

func (m *MockPostRepository) Find(ctx context.Context, filter policy.PostFilter, page policy.Page) ([]*models.Post, error) {
	matched := m.match(filter)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PubDate.After(matched[j].PubDate)
	})

	start := page.Offset()
	if start >= len(matched) {
		return nil, nil
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (m *MockPostRepository) Count(ctx context.Context, filter policy.PostFilter) (int, error) {
	return len(m.match(filter)), nil
}

func (m *MockPostRepository) match(filter policy.PostFilter) []*models.Post {
	var matched []*models.Post
	for _, p := range m.Posts {
		if filter.AuthorID != 0 && p.AuthorID != filter.AuthorID {
			continue
		}
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if filter.PublicOnly && !policy.PubliclyVisible(p, filter.Now) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// MockCommentRepository is an in-memory implementation of CommentRepository
type MockCommentRepository struct {
	Comments map[int64]*models.Comment
	nextID   int64
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{Comments: make(map[int64]*models.Comment), nextID: 1}
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *comment
	stored.ID = id
	stored.CreatedAt = time.Now()
	m.Comments[id] = &stored
	return id, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if existing, ok := m.Comments[comment.ID]; ok {
		existing.Text = comment.Text
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id int64) error {
	delete(m.Comments, id)
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	return m.Comments[id], nil
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	for _, cm := range m.Comments {
		if cm.PostID == postID {
			comments = append(comments, cm)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// MockSessionRepository is an in-memory implementation of SessionRepository
type MockSessionRepository struct {
	Sessions map[string]*models.Session
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]*models.Session)}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *models.Session) error {
	stored := *session
	m.Sessions[session.Token] = &stored
	return nil
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	return m.Sessions[token], nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, token string) error {
	delete(m.Sessions, token)
	return nil
}
