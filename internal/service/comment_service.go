package service

import (
	"context"
	"fmt"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// commentService is the concrete implementation of CommentService
type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	log      zerolog.Logger
}

func newCommentService(repos *repository.Repositories, log zerolog.Logger) CommentService {
	return &commentService{
		comments: repos.Comment,
		posts:    repos.Post,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// Create adds a comment to a post. The post must exist and be published;
// its category's publication state is not rechecked here, unlike the
// detail and listing visibility rules.
func (s *commentService) Create(ctx context.Context, postID, viewerID int64, req *models.CommentRequest) (*models.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil || !post.IsPublished {
		return nil, ErrNotFound
	}

	comment := &models.Comment{
		Text:     req.Text,
		AuthorID: viewerID,
		PostID:   postID,
	}
	id, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	comment.ID = id

	s.log.Info().Int64("comment_id", id).Int64("post_id", postID).Msg("Comment created")
	return comment, nil
}

// Update edits a comment. The comment is resolved by its own id; the
// post id from the URL path is used only as the redirect target. A
// non-author gets a denial and nothing is mutated.
func (s *commentService) Update(ctx context.Context, commentID, pathPostID, viewerID int64, req *models.CommentRequest) (CommentDecision, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return CommentDecision{}, fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return CommentDecision{}, ErrNotFound
	}

	if comment.AuthorID != viewerID {
		return CommentDecision{RedirectTo: postDetailPath(pathPostID)}, nil
	}

	comment.Text = req.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		return CommentDecision{}, fmt.Errorf("failed to update comment: %w", err)
	}

	s.log.Info().Int64("comment_id", commentID).Msg("Comment updated")
	return CommentDecision{Comment: comment}, nil
}

// Delete removes a comment under the same ownership rule as Update
func (s *commentService) Delete(ctx context.Context, commentID, pathPostID, viewerID int64) (CommentDecision, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return CommentDecision{}, fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return CommentDecision{}, ErrNotFound
	}

	if comment.AuthorID != viewerID {
		return CommentDecision{RedirectTo: postDetailPath(pathPostID)}, nil
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return CommentDecision{}, fmt.Errorf("failed to delete comment: %w", err)
	}

	s.log.Info().Int64("comment_id", commentID).Msg("Comment deleted")
	return CommentDecision{Comment: comment}, nil
}
