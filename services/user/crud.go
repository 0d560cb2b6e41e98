package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sahara/database/repository"
	"sahara/models"
	"sahara/utils"

	"go.uber.org/zap"
)

func (s *DefaultUserService) Sync(ctx context.Context, in models.UserSync) (*models.User, error) {
	in.FirebaseUID = strings.TrimSpace(in.FirebaseUID)
	if in.FirebaseUID == "" {
		return nil, ErrMissingFirebaseUID
	}

	u, err := s.Repo.Upsert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}
	utils.GetLogger().Debug("user synced", zap.String("userID", u.ID), zap.String("firebaseUid", u.FirebaseUID))
	return u, nil
}

func (s *DefaultUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *DefaultUserService) Update(ctx context.Context, id string, upd models.UserUpdateRequest) (*models.User, error) {
	u, err := s.Repo.Update(ctx, id, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
