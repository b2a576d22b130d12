package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// ErrNotFound covers both a missing entity and one excluded by a
// visibility or ownership filter. Callers cannot tell the two apart.
var ErrNotFound = errors.New("not found")

// ErrInvalidReference marks a payload pointing at a nonexistent
// category or location.
var ErrInvalidReference = errors.New("referenced entity does not exist")

// ErrInvalidCredentials marks a failed login attempt
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAlreadyExists marks a registration conflict on username or email
var ErrAlreadyExists = errors.New("already exists")

// PostDecision is the tagged outcome of an ownership-checked post
// mutation: exactly one of Post or RedirectTo is set. A denial carries
// no entity, so it cannot flow into a destructive operation.
type PostDecision struct {
	Post       *models.Post
	RedirectTo string
}

// Allowed reports whether the mutation was permitted and performed
func (d PostDecision) Allowed() bool { return d.Post != nil }

// CommentDecision is the comment counterpart of PostDecision
type CommentDecision struct {
	Comment    *models.Comment
	RedirectTo string
}

// Allowed reports whether the mutation was permitted and performed
func (d CommentDecision) Allowed() bool { return d.Comment != nil }

// AuthService manages accounts and login sessions
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Session, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, *models.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string, now time.Time) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req *models.ProfileEditRequest) (*models.User, error)
}

// PostService implements the post listings, detail view and mutations
type PostService interface {
	Index(ctx context.Context, page int, now time.Time) (*models.PostPage, error)
	Category(ctx context.Context, slug string, page int, now time.Time) (*models.Category, *models.PostPage, error)
	Profile(ctx context.Context, username string, viewerID int64, page int, now time.Time) (*models.User, *models.PostPage, error)
	Detail(ctx context.Context, id, viewerID int64, now time.Time) (*models.Post, []*models.Comment, error)
	Create(ctx context.Context, viewerID int64, req *models.PostRequest) (*models.Post, error)
	Update(ctx context.Context, id, viewerID int64, req *models.PostRequest) (PostDecision, error)
	Delete(ctx context.Context, id, viewerID int64) (PostDecision, error)
}

// CommentService implements comment mutations
type CommentService interface {
	Create(ctx context.Context, postID, viewerID int64, req *models.CommentRequest) (*models.Comment, error)
	Update(ctx context.Context, commentID, pathPostID, viewerID int64, req *models.CommentRequest) (CommentDecision, error)
	Delete(ctx context.Context, commentID, pathPostID, viewerID int64) (CommentDecision, error)
}

// Services holds all service interfaces
type Services struct {
	Auth    AuthService
	Post    PostService
	Comment CommentService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Auth:    newAuthService(repos, cfg, log),
		Post:    newPostService(repos, cfg, log),
		Comment: newCommentService(repos, log),
	}
}

// postDetailPath is the canonical URL for a post, used as the redirect
// target on refused mutations.
func postDetailPath(id int64) string {
	return fmt.Sprintf("/posts/%d", id)
}

// clampPage normalizes a page number coming from a query parameter
func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
