package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/blog-platform-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CommentHandler handles comment mutations
type CommentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(services *service.Services, log zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		services: services,
		log:      log.With().Str("handler", "comment").Logger(),
	}
}

// Create handles POST /posts/:id/comment
func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	req, ok := bindCommentRequest(c)
	if !ok {
		return
	}

	_, err := h.services.Comment.Create(c.Request.Context(), postID, user.ID, req)
	if err != nil {
		h.fail(c, err, "Comment create failed")
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", postID))
}

// Update handles POST /posts/:id/edit_comment/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	req, ok := bindCommentRequest(c)
	if !ok {
		return
	}

	decision, err := h.services.Comment.Update(c.Request.Context(), commentID, postID, user.ID, req)
	if err != nil {
		h.fail(c, err, "Comment update failed")
		return
	}
	if !decision.Allowed() {
		c.Redirect(http.StatusSeeOther, decision.RedirectTo)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", postID))
}

// Delete handles POST /posts/:id/delete_comment/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "comment_id")
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	decision, err := h.services.Comment.Delete(c.Request.Context(), commentID, postID, user.ID)
	if err != nil {
		h.fail(c, err, "Comment delete failed")
		return
	}
	if !decision.Allowed() {
		c.Redirect(http.StatusSeeOther, decision.RedirectTo)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", postID))
}

func (h *CommentHandler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, service.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// bindCommentRequest binds and validates a comment payload
func bindCommentRequest(c *gin.Context) (*models.CommentRequest, bool) {
	var req models.CommentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, false
	}
	if errs := validation.ValidateComment(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return nil, false
	}
	return &req, true
}
