package service

import (
	"insect-guide-server/internal/domain"
	apperrors "insect-guide-server/pkg/errors"
)

type favoriteService struct {
	repo   domain.FavoriteRepository
	logger domain.Logger
}

// NewFavoriteService creates a new favorites service
func NewFavoriteService(repo domain.FavoriteRepository, logger domain.Logger) domain.FavoriteService {
	return &favoriteService{
		repo:   repo,
		logger: logger,
	}
}

// List returns the user's favorite insects
func (s *favoriteService) List(userID string, token string) ([]domain.Favorite, error) {
	return s.repo.List(userID, token)
}

// Add saves a taxon as a favorite for the user
func (s *favoriteService) Add(userID string, taxonID int, token string) (*domain.Favorite, error) {
	if taxonID <= 0 {
		return nil, apperrors.NewValidationError("Invalid insect id")
	}
	return s.repo.Add(userID, taxonID, token)
}

// IsFavorite reports whether the taxon is among the user's favorites
func (s *favoriteService) IsFavorite(userID string, taxonID int, token string) (bool, error) {
	return s.repo.Exists(userID, taxonID, token)
}
