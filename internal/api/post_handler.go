package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/blog-platform-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PostHandler handles post listings, detail and mutations
type PostHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(services *service.Services, log zerolog.Logger) *PostHandler {
	return &PostHandler{
		services: services,
		log:      log.With().Str("handler", "post").Logger(),
	}
}

// Index handles GET /
func (h *PostHandler) Index(c *gin.Context) {
	listing, err := h.services.Post.Index(c.Request.Context(), pageParam(c), time.Now())
	if err != nil {
		h.fail(c, err, "Index listing failed")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Category handles GET /category/:slug
func (h *PostHandler) Category(c *gin.Context) {
	category, listing, err := h.services.Post.Category(
		c.Request.Context(), c.Param("slug"), pageParam(c), time.Now())
	if err != nil {
		h.fail(c, err, "Category listing failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"category":    category,
		"posts":       listing.Posts,
		"page":        listing.Page,
		"page_size":   listing.PageSize,
		"total_count": listing.TotalCount,
	})
}

// Detail handles GET /posts/:id
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	post, comments, err := h.services.Post.Detail(c.Request.Context(), id, viewerID(c), time.Now())
	if err != nil {
		h.fail(c, err, "Post detail failed")
		return
	}

	if comments == nil {
		comments = []*models.Comment{}
	}
	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}

// Create handles POST /posts/create
func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	req, ok := bindPostRequest(c)
	if !ok {
		return
	}

	post, err := h.services.Post.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.fail(c, err, "Post create failed")
		return
	}

	h.log.Info().Int64("post_id", post.ID).Msg("Post created")
	c.Redirect(http.StatusSeeOther, "/profile/"+user.Username)
}

// Update handles POST /posts/:id/edit. An unauthenticated request is
// redirected to the post's detail page rather than the login flow.
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", id))
		return
	}

	req, ok := bindPostRequest(c)
	if !ok {
		return
	}

	decision, err := h.services.Post.Update(c.Request.Context(), id, user.ID, req)
	if err != nil {
		h.fail(c, err, "Post update failed")
		return
	}
	if !decision.Allowed() {
		c.Redirect(http.StatusSeeOther, decision.RedirectTo)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d", decision.Post.ID))
}

// Delete handles POST /posts/:id/delete
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	decision, err := h.services.Post.Delete(c.Request.Context(), id, user.ID)
	if err != nil {
		h.fail(c, err, "Post delete failed")
		return
	}
	if !decision.Allowed() {
		c.Redirect(http.StatusSeeOther, decision.RedirectTo)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// fail maps service errors onto responses
func (h *PostHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindPostRequest binds and validates a post payload
func bindPostRequest(c *gin.Context) (*models.PostRequest, bool) {
	var req models.PostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return nil, false
	}
	if errs := validation.ValidatePost(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return nil, false
	}
	return &req, true
}

// pageParam reads the page query parameter, defaulting to 1
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// idParam parses a numeric path parameter, answering 404 on garbage so
// that /posts/abc is indistinguishable from a missing post
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}
