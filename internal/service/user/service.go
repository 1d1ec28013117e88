package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service handles login and token-based session resolution.
type Service struct {
	repo      userrepo.Repository
	tokens    *tokenManager
	accessTTL time.Duration
}

func New(repo userrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:      repo,
		tokens:    newTokenManager(tokens),
		accessTTL: 48 * time.Hour,
	}
}

// Login verifies credentials and issues an opaque access token.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", domain.Invalidf("email and password are required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, u.ID, s.accessTTL)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// NewAnonymousID issues a fresh id for a guest session.
func (s *Service) NewAnonymousID() string {
	return uuid.NewString()
}
