package repository

import (
	"context"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// CategoryRepository defines the interface for category and location lookups
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetLocation(ctx context.Context, id int64) (*models.Location, error)
}

// PostRepository defines the interface for post data operations.
// Listing queries take a policy.PostFilter so the visibility rules stay
// first-class values owned by the caller.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Find(ctx context.Context, filter policy.PostFilter, page policy.Page) ([]*models.Post, error)
	Count(ctx context.Context, filter policy.PostFilter) (int, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) (int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
}

// SessionRepository defines the interface for session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Category CategoryRepository
	Post     PostRepository
	Comment  CommentRepository
	Session  SessionRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepo(db),
		Category: NewCategoryRepo(db),
		Post:     NewPostRepo(db),
		Comment:  NewCommentRepo(db),
		Session:  NewSessionRepo(db),
	}
}
