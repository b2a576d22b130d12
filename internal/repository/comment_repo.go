package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment and returns its id
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) (int64, error) {
	query := `
		INSERT INTO comments (text, author_id, post_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		comment.Text, comment.AuthorID, comment.PostID, time.Now(),
	).Scan(&id)
	return id, err
}

// Update persists the comment text
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE comments SET text = $1 WHERE id = $2",
		comment.Text, comment.ID,
	)
	return err
}

// Delete removes a comment
func (r *commentRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = $1", id)
	return err
}

// GetByID retrieves a comment by its own id, not scoped by post
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT cm.id, cm.text, cm.author_id, cm.post_id, cm.created_at, u.username
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.id = $1
	`

	var comment models.Comment
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.Text, &comment.AuthorID, &comment.PostID,
		&comment.CreatedAt, &comment.AuthorUsername,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments ordered oldest first
func (r *commentRepo) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	query := `
		SELECT cm.id, cm.text, cm.author_id, cm.post_id, cm.created_at, u.username
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.post_id = $1
		ORDER BY cm.created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID, &comment.Text, &comment.AuthorID, &comment.PostID,
			&comment.CreatedAt, &comment.AuthorUsername,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}
