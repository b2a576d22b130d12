package repository

import (
	"context"
	"database/sql"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

// categoryRepo is the concrete implementation of CategoryRepository
type categoryRepo struct {
	db *database.DB
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db *database.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

// GetByID retrieves a category by ID
func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `SELECT id, slug, title, description, is_published FROM categories WHERE id = $1`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Slug, &category.Title,
		&category.Description, &category.IsPublished,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetPublishedBySlug retrieves a published category by slug. Unpublished
// categories are indistinguishable from missing ones.
func (r *categoryRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `
		SELECT id, slug, title, description, is_published
		FROM categories WHERE slug = $1 AND is_published = TRUE
	`

	var category models.Category
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&category.ID, &category.Slug, &category.Title,
		&category.Description, &category.IsPublished,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetLocation retrieves a location by ID
func (r *categoryRepo) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	query := `SELECT id, name, is_published FROM locations WHERE id = $1`

	var location models.Location
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&location.ID, &location.Name, &location.IsPublished,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}
