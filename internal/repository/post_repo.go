package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
)

// postRepo is the concrete implementation of PostRepository
type postRepo struct {
	db *database.DB
}

// NewPostRepo creates a new post repository
func NewPostRepo(db *database.DB) PostRepository {
	return &postRepo{db: db}
}

// postSelect joins author, category and location and annotates each row
// with its comment count.
const postSelect = `
	SELECT p.id, p.title, p.body, p.pub_date, p.is_published,
	       p.author_id, p.category_id, p.location_id, p.created_at,
	       u.username, c.slug, c.title, c.is_published,
	       COALESCE(l.name, ''),
	       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id)
	FROM posts p
	JOIN users u ON u.id = p.author_id
	JOIN categories c ON c.id = p.category_id
	LEFT JOIN locations l ON l.id = p.location_id
`

// Create inserts a new post and returns its id
func (r *postRepo) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (title, body, pub_date, is_published, author_id, category_id, location_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Body, post.PubDate, post.IsPublished,
		post.AuthorID, post.CategoryID, post.LocationID, time.Now(),
	).Scan(&id)
	return id, err
}

// Update persists editable post fields. Author is immutable.
func (r *postRepo) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $1, body = $2, pub_date = $3, is_published = $4,
		    category_id = $5, location_id = $6
		WHERE id = $7
	`
	_, err := r.db.ExecContext(ctx, query,
		post.Title, post.Body, post.PubDate, post.IsPublished,
		post.CategoryID, post.LocationID, post.ID,
	)
	return err
}

// Delete removes a post. Comments go with it via ON DELETE CASCADE.
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}

// GetByID retrieves a post by ID with no visibility restriction
func (r *postRepo) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	row := r.db.QueryRowContext(ctx, postSelect+" WHERE p.id = $1", id)
	return scanPost(row)
}

// Find returns one page of posts matching the filter, newest pub_date first
func (r *postRepo) Find(ctx context.Context, filter policy.PostFilter, page policy.Page) ([]*models.Post, error) {
	where, args := filterClause(filter)

	query := postSelect + where +
		fmt.Sprintf(" ORDER BY p.pub_date DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPostRow(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Count returns the number of posts matching the filter
func (r *postRepo) Count(ctx context.Context, filter policy.PostFilter) (int, error) {
	where, args := filterClause(filter)

	query := `
		SELECT COUNT(*)
		FROM posts p
		JOIN categories c ON c.id = p.category_id
	` + where

	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// filterClause translates a policy.PostFilter into a WHERE clause with
// positional arguments.
func filterClause(filter policy.PostFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.AuthorID != 0 {
		args = append(args, filter.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.PublicOnly {
		args = append(args, filter.Now)
		conds = append(conds,
			"p.is_published = TRUE",
			fmt.Sprintf("p.pub_date <= $%d", len(args)),
			"c.is_published = TRUE",
		)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row *sql.Row) (*models.Post, error) {
	post, err := scanPostRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func scanPostRow(s scanner) (*models.Post, error) {
	var post models.Post
	var locationID sql.NullInt64

	err := s.Scan(
		&post.ID, &post.Title, &post.Body, &post.PubDate, &post.IsPublished,
		&post.AuthorID, &post.CategoryID, &locationID, &post.CreatedAt,
		&post.AuthorUsername, &post.CategorySlug, &post.CategoryTitle, &post.CategoryIsPublished,
		&post.LocationName, &post.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	if locationID.Valid {
		post.LocationID = &locationID.Int64
	}
	return &post, nil
}
