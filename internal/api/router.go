package api

import (
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// viewerKey is the gin context key holding the authenticated user
const viewerKey = "viewer"

// loginPath is where unauthenticated mutations are redirected
const loginPath = "/auth/login"

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())
	router.Use(sessionMiddleware(services.Auth, cfg, log))

	// Handlers
	authHandler := NewAuthHandler(services, cfg, log)
	postHandler := NewPostHandler(services, log)
	commentHandler := NewCommentHandler(services, log)
	profileHandler := NewProfileHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)

	// Listings
	router.GET("/", postHandler.Index)
	router.GET("/category/:slug", postHandler.Category)

	// Posts
	posts := router.Group("/posts")
	{
		posts.POST("/create", postHandler.Create)
		posts.GET("/:id", postHandler.Detail)
		posts.POST("/:id/edit", postHandler.Update)
		posts.POST("/:id/delete", postHandler.Delete)
		posts.POST("/:id/comment", commentHandler.Create)
		posts.POST("/:id/edit_comment/:comment_id", commentHandler.Update)
		posts.POST("/:id/delete_comment/:comment_id", commentHandler.Delete)
	}

	// Profiles
	router.GET("/profile/:username", profileHandler.Show)
	router.POST("/profile/edit", profileHandler.Edit)

	// Auth
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blog-platform-api",
	})
}

// sessionMiddleware resolves the session cookie to a user and stores it
// in the request context. Requests without a valid session proceed as
// anonymous.
func sessionMiddleware(auth service.AuthService, cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Auth.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("Session lookup failed")
			c.Next()
			return
		}
		if user != nil {
			c.Set(viewerKey, user)
		}
		c.Next()
	}
}

// currentUser returns the authenticated user, or nil for anonymous requests
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(viewerKey); ok {
		return v.(*models.User)
	}
	return nil
}

// viewerID returns the authenticated user's id, or models.AnonymousID
func viewerID(c *gin.Context) int64 {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	return models.AnonymousID
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
