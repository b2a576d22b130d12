package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      *config.AuthConfig
	log      zerolog.Logger
}

func newAuthService(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) AuthService {
	return &authService{
		users:    repos.User,
		sessions: repos.Session,
		cfg:      &cfg.Auth,
		log:      log.With().Str("service", "auth").Logger(),
	}
}

// Register creates an account and opens a session for it
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Session, error) {
	taken, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, nil, fmt.Errorf("username %q: %w", req.Username, ErrAlreadyExists)
	}

	taken, err = s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, nil, fmt.Errorf("email %q: %w", req.Email, ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	session, err := s.openSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Int64("user_id", id).Str("username", user.Username).Msg("User registered")
	return user, session, nil
}

// Login verifies credentials and opens a session
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, *models.Session, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Msg("User logged in")
	return user, session, nil
}

// Logout revokes the session. A missing session is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to its user. Expired or unknown
// sessions yield a nil user, which callers treat as anonymous.
func (s *authService) Authenticate(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(now) {
		// Reap it on the way out; there is no background cleanup.
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.log.Warn().Err(err).Msg("Failed to delete expired session")
		}
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}

// UpdateProfile edits the requesting user's own profile
func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *models.ProfileEditRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if req.Email != "" && req.Email != user.Email {
		taken, err := s.users.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("email %q: %w", req.Email, ErrAlreadyExists)
		}
		user.Email = req.Email
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *authService) openSession(ctx context.Context, userID int64) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}
