package auth

import (
	"context"
	"fmt"
	"strings"

	"sahara/models"
	"sahara/utils"

	"go.uber.org/zap"
)

// Authenticate verifies token, upserts the matching user and returns its
// sanitized identity. Nothing is written when verification fails.
func (s *DefaultAuthService) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	logger := utils.GetLogger()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims, err := s.Verifier.Verify(ctx, token)
	if err != nil {
		logger.Debug("token verification failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	u, err := s.Users.Upsert(ctx, syncFromClaims(claims))
	if err != nil {
		logger.Error("user provisioning failed", zap.String("subject", claims.Subject), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return models.IdentityFromUser(u), nil
}

func syncFromClaims(c *Claims) models.UserSync {
	in := models.UserSync{
		FirebaseUID: c.Subject,
		Email:       nonEmpty(c.Email),
		Phone:       nonEmpty(c.PhoneNumber),
		Name:        nonEmpty(c.Name),
		Replace:     true,
	}
	if in.Name == nil && c.Email != "" {
		local, _, _ := strings.Cut(c.Email, "@")
		in.Name = nonEmpty(local)
	}
	return in
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
