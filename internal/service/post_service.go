package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// postService is the concrete implementation of PostService
type postService struct {
	posts      repository.PostRepository
	comments   repository.CommentRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	pageSize   int
	log        zerolog.Logger
}

func newPostService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) PostService {
	return &postService{
		posts:      repos.Post,
		comments:   repos.Comment,
		categories: repos.Category,
		users:      repos.User,
		pageSize:   cfg.Listing.PageSize,
		log:        log.With().Str("service", "post").Logger(),
	}
}

// Index returns one page of all publicly visible posts
func (s *postService) Index(ctx context.Context, page int, now time.Time) (*models.PostPage, error) {
	return s.listPage(ctx, policy.IndexFilter(now), page)
}

// Category resolves a published category by slug and returns one page of
// its publicly visible posts. An unpublished category is not found.
func (s *postService) Category(ctx context.Context, slug string, page int, now time.Time) (*models.Category, *models.PostPage, error) {
	category, err := s.categories.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, nil, ErrNotFound
	}

	listing, err := s.listPage(ctx, policy.CategoryFilter(category.ID, now), page)
	if err != nil {
		return nil, nil, err
	}
	return category, listing, nil
}

// Profile resolves a user by username and returns one page of their
// posts. The owner bypass is all-or-nothing: the owner gets their full
// post set, including future-dated and unpublished entries; everyone
// else gets only publicly visible posts.
func (s *postService) Profile(ctx context.Context, username string, viewerID int64, page int, now time.Time) (*models.User, *models.PostPage, error) {
	owner, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile user: %w", err)
	}
	if owner == nil {
		return nil, nil, ErrNotFound
	}

	listing, err := s.listPage(ctx, policy.ProfileFilter(owner.ID, viewerID, now), page)
	if err != nil {
		return nil, nil, err
	}
	return owner, listing, nil
}

// Detail returns a single post with its comments, oldest comment first.
// The author sees their post unconditionally; for anyone else a post
// failing the visibility rules is not found.
func (s *postService) Detail(ctx context.Context, id, viewerID int64, now time.Time) (*models.Post, []*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, nil, ErrNotFound
	}

	if !policy.Visible(post, viewerID, now) {
		return nil, nil, ErrNotFound
	}

	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load comments: %w", err)
	}
	return post, comments, nil
}

// Create stores a new post authored by the viewer
func (s *postService) Create(ctx context.Context, viewerID int64, req *models.PostRequest) (*models.Post, error) {
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       req.Title,
		Body:        req.Body,
		PubDate:     *req.PubDate,
		IsPublished: req.IsPublished == nil || *req.IsPublished,
		AuthorID:    viewerID,
		CategoryID:  req.CategoryID,
		LocationID:  req.LocationID,
	}

	id, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.ID = id

	s.log.Info().Int64("post_id", id).Int64("author_id", viewerID).Msg("Post created")
	return post, nil
}

// Update edits a post. A non-author gets a denial pointing at the
// post's detail page and nothing is mutated; a missing post is not
// found.
func (s *postService) Update(ctx context.Context, id, viewerID int64, req *models.PostRequest) (PostDecision, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return PostDecision{}, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return PostDecision{}, ErrNotFound
	}

	if post.AuthorID != viewerID {
		return PostDecision{RedirectTo: postDetailPath(id)}, nil
	}

	if err := s.checkReferences(ctx, req); err != nil {
		return PostDecision{}, err
	}

	post.Title = req.Title
	post.Body = req.Body
	post.PubDate = *req.PubDate
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}
	post.CategoryID = req.CategoryID
	post.LocationID = req.LocationID

	if err := s.posts.Update(ctx, post); err != nil {
		return PostDecision{}, fmt.Errorf("failed to update post: %w", err)
	}

	s.log.Info().Int64("post_id", id).Msg("Post updated")
	return PostDecision{Post: post}, nil
}

// Delete removes a post after an explicit ownership check. A non-author
// gets a denial pointing at the post's detail page and nothing is
// mutated; the entity only travels on the allowed arm.
func (s *postService) Delete(ctx context.Context, id, viewerID int64) (PostDecision, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return PostDecision{}, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return PostDecision{}, ErrNotFound
	}

	if post.AuthorID != viewerID {
		return PostDecision{RedirectTo: postDetailPath(id)}, nil
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return PostDecision{}, fmt.Errorf("failed to delete post: %w", err)
	}

	s.log.Info().Int64("post_id", id).Int64("author_id", viewerID).Msg("Post deleted")
	return PostDecision{Post: post}, nil
}

// listPage runs a filtered listing plus its total count
func (s *postService) listPage(ctx context.Context, filter policy.PostFilter, page int) (*models.PostPage, error) {
	page = clampPage(page)

	posts, err := s.posts.Find(ctx, filter, policy.Page{Number: page, Size: s.pageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	return &models.PostPage{
		Posts:      posts,
		Page:       page,
		PageSize:   s.pageSize,
		TotalCount: total,
	}, nil
}

// checkReferences verifies the category and optional location exist
func (s *postService) checkReferences(ctx context.Context, req *models.PostRequest) error {
	category, err := s.categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return fmt.Errorf("category %d: %w", req.CategoryID, ErrInvalidReference)
	}

	if req.LocationID != nil {
		location, err := s.categories.GetLocation(ctx, *req.LocationID)
		if err != nil {
			return fmt.Errorf("failed to load location: %w", err)
		}
		if location == nil {
			return fmt.Errorf("location %d: %w", *req.LocationID, ErrInvalidReference)
		}
	}
	return nil
}
