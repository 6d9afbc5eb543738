package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/arcanehq/realmgate/internal/models"
)

// RealmRepository defines the interface for realm data access
type RealmRepository interface {
	GetByName(ctx context.Context, name string) (*models.Realm, error)
	GetByID(ctx context.Context, id string) (*models.Realm, error)
}

// RealmService handles realm lookup for admin requests
type RealmService struct {
	repo   RealmRepository
	logger *slog.Logger
}

// NewRealmService creates a new RealmService
func NewRealmService(repo RealmRepository, logger *slog.Logger) *RealmService {
	return &RealmService{
		repo:   repo,
		logger: logger,
	}
}

// GetRealmByName resolves a realm by its name. Disabled realms resolve
// like missing ones so callers cannot probe for their existence.
func (s *RealmService) GetRealmByName(ctx context.Context, name string) (*models.Realm, error) {
	realm, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("realm not found", slog.String("realm", name))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get realm", slog.String("realm", name), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if !realm.Enabled {
		s.logger.Info("realm disabled", slog.String("realm", name))
		return nil, models.ErrNotFound
	}

	return realm, nil
}
