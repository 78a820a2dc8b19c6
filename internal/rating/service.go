package rating

import (
	"context"
	"fmt"

	"github.com/dustin/movies-backend/internal/utils"
	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repo   Repository
	movies MovieLookup
	cache  CacheEvictor
	logger *logger.Logger
}

// NewService creates a new rating service
func NewService(repo Repository, movies MovieLookup, cache CacheEvictor, log *logger.Logger) Service {
	return &service{
		repo:   repo,
		movies: movies,
		cache:  cache,
		logger: log.WithComponent("rating-service"),
	}
}

func (s *service) RateMovie(ctx context.Context, movieID uuid.UUID, rating int, userID uuid.UUID) (bool, error) {
	if !IsValidRating(rating) {
		verr := apperrors.NewValidationError()
		verr.Add("rating", "range", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating))
		return false, verr
	}

	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil {
		return false, err
	}
	if !exists {
		s.logger.Info("Rating rejected for missing movie " + movieID.String())
		return false, nil
	}

	rated, err := s.repo.RateMovie(ctx, movieID, rating, userID)
	if err != nil {
		s.logger.Error("Failed to rate movie " + movieID.String() + " by user " + userID.String() + " score " + utils.IntToString(rating) + ": " + err.Error())
		return false, err
	}

	if rated {
		s.logger.Info("Movie " + movieID.String() + " rated " + utils.IntToString(rating) + " by user " + userID.String())
		s.evict(ctx)
	}

	return rated, nil
}

func (s *service) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	deleted, err := s.repo.DeleteRating(ctx, movieID, userID)
	if err != nil {
		s.logger.Error("Failed to delete rating for movie " + movieID.String() + " by user " + userID.String() + ": " + err.Error())
		return false, err
	}

	if deleted {
		s.evict(ctx)
	}

	return deleted, nil
}

func (s *service) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]MovieRating, error) {
	return s.repo.GetRatingsForUser(ctx, userID)
}

// PurgeOrphans removes ratings left behind by movies deleted before deletes cascaded
func (s *service) PurgeOrphans(ctx context.Context) error {
	purged, err := s.repo.PurgeOrphans(ctx)
	if err != nil {
		s.logger.Error("Failed to purge orphaned ratings: " + err.Error())
		return err
	}

	if purged == 0 {
		s.logger.Debug("No orphaned ratings to purge")
		return nil
	}

	s.logger.Info("Purged " + fmt.Sprint(purged) + " orphaned ratings")
	s.evict(ctx)
	return nil
}

func (s *service) evict(ctx context.Context) {
	if err := s.cache.EvictTag(ctx, CacheTag); err != nil {
		s.logger.Warn("Failed to evict cache tag " + CacheTag + ": " + err.Error())
	}
}
