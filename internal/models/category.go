package models

// Category groups posts under a URL slug. Unpublished categories hide
// their listing page and every post in them.
type Category struct {
	ID          int64  `json:"id" db:"id"`
	Slug        string `json:"slug" db:"slug"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	IsPublished bool   `json:"is_published" db:"is_published"`
}

// Location is an optional descriptive attribute attached to a post
type Location struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	IsPublished bool   `json:"is_published" db:"is_published"`
}
