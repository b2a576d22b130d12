package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/blog-platform-api/internal/models"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

const (
	maxTitleLength = 256
	minPasswordLen = 8
)

// ValidateRegister validates a registration payload
func ValidateRegister(req *models.RegisterRequest) []ValidationError {
	var errors []ValidationError

	if req.Username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	} else if !usernameRegex.MatchString(req.Username) {
		errors = append(errors, ValidationError{Field: "username", Message: "username must be 3-30 characters: letters, digits, _ . -", Value: req.Username})
	}

	if req.Email == "" {
		errors = append(errors, ValidationError{Field: "email", Message: "email is required"})
	} else if !emailRegex.MatchString(req.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: req.Email})
	}

	if len(req.Password) < minPasswordLen {
		errors = append(errors, ValidationError{Field: "password", Message: "password must be at least 8 characters"})
	}

	return errors
}

// ValidateLogin validates a login payload
func ValidateLogin(req *models.LoginRequest) []ValidationError {
	var errors []ValidationError

	if req.Username == "" {
		errors = append(errors, ValidationError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}

	return errors
}

// ValidatePost validates a post create/edit payload
func ValidatePost(req *models.PostRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if utf8.RuneCountInString(req.Title) > maxTitleLength {
		errors = append(errors, ValidationError{Field: "title", Message: "title too long", Value: len(req.Title)})
	}

	if strings.TrimSpace(req.Body) == "" {
		errors = append(errors, ValidationError{Field: "body", Message: "body is required"})
	}

	if req.PubDate == nil {
		errors = append(errors, ValidationError{Field: "pub_date", Message: "pub_date is required"})
	}

	if req.CategoryID == 0 {
		errors = append(errors, ValidationError{Field: "category_id", Message: "category_id is required"})
	}

	return errors
}

// ValidateComment validates a comment create/edit payload
func ValidateComment(req *models.CommentRequest) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(req.Text) == "" {
		errors = append(errors, ValidationError{Field: "text", Message: "text is required"})
	} else if utf8.RuneCountInString(req.Text) > models.MaxCommentLength {
		errors = append(errors, ValidationError{Field: "text", Message: "comment too long", Value: utf8.RuneCountInString(req.Text)})
	}

	return errors
}

// ValidateProfileEdit validates a profile edit payload
func ValidateProfileEdit(req *models.ProfileEditRequest) []ValidationError {
	var errors []ValidationError

	if req.Email != "" && !emailRegex.MatchString(req.Email) {
		errors = append(errors, ValidationError{Field: "email", Message: "invalid email format", Value: req.Email})
	}

	return errors
}
