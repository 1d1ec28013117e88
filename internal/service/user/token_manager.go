package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{repo: repo}
}

func (m *tokenManager) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	expiresAt := time.Now().Add(ttl)
	for i := 0; i < 5; i++ {
		token, err := randomToken()
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return "", err
		}
	}
	return "", errors.New("token collision retries exhausted")
}

func (m *tokenManager) Validate(ctx context.Context, token string) (string, error) {
	stored, err := m.repo.Get(ctx, token)
	if err != nil {
		return "", err
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = m.repo.Delete(ctx, token)
		return "", domain.ErrNotFound
	}
	return stored.UserID, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
