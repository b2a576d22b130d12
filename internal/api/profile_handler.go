package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/blog-platform-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProfileHandler handles profile listing and editing
type ProfileHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(services *service.Services, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		services: services,
		log:      log.With().Str("handler", "profile").Logger(),
	}
}

// Show handles GET /profile/:username
func (h *ProfileHandler) Show(c *gin.Context) {
	owner, listing, err := h.services.Post.Profile(
		c.Request.Context(), c.Param("username"), viewerID(c), pageParam(c), time.Now())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.log.Error().Err(err).Msg("Profile listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":     owner,
		"posts":       listing.Posts,
		"page":        listing.Page,
		"page_size":   listing.PageSize,
		"total_count": listing.TotalCount,
	})
}

// Edit handles POST /profile/edit. The target is always the requesting
// user; there is no id in the path.
func (h *ProfileHandler) Edit(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.Redirect(http.StatusSeeOther, loginPath)
		return
	}

	var req models.ProfileEditRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if errs := validation.ValidateProfileEdit(&req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	updated, err := h.services.Auth.UpdateProfile(c.Request.Context(), user.ID, &req)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Profile edit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/profile/"+updated.Username)
}
