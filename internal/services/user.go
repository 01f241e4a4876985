package services

import (
	"context"
	"time"

	"github.com/recycleme/backend/internal/errs"
	"github.com/recycleme/backend/internal/models"
	"github.com/recycleme/backend/pkg/logger"
)

type userProfileStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
	UpdateUser(ctx context.Context, uid string, updates map[string]any) error
}

type userService struct {
	store userProfileStore
}

func NewUserService(store userProfileStore) *userService {
	return &userService{
		store: store,
	}
}

// Register creates the profile document on first sign-in. The uid and email
// come from the verified token, never from the request body.
func (s *userService) Register(ctx context.Context, uid, email, displayName string) (*models.User, error) {
	log := logger.FromContext(ctx)

	if uid == "" {
		return nil, errs.NewUnauthorizedError("missing user identity")
	}

	user := &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		Points:      0,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user registered", "display_name", displayName)
	return user, nil
}

func (s *userService) Get(ctx context.Context, uid string) (*models.User, error) {
	return s.store.GetUser(ctx, uid)
}

// UpdateProfile changes the display name and returns the stored profile.
func (s *userService) UpdateProfile(ctx context.Context, uid, displayName string) (*models.User, error) {
	if uid == "" {
		return nil, errs.NewUnauthorizedError("missing user identity")
	}
	if displayName == "" {
		return nil, errs.NewValidationError("displayName is required")
	}

	if err := s.store.UpdateUser(ctx, uid, map[string]any{"displayName": displayName}); err != nil {
		return nil, err
	}
	return s.store.GetUser(ctx, uid)
}
