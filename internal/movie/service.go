package movie

import (
	"context"

	"github.com/dustin/movies-backend/internal/utils"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repo      Repository
	ratings   RatingReader
	validator Validator
	cache     CacheEvictor
	logger    *logger.Logger
}

// NewService creates a new catalog service
func NewService(repo Repository, ratings RatingReader, validator Validator, cache CacheEvictor, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		ratings:   ratings,
		validator: validator,
		cache:     cache,
		logger:    log.WithComponent("movie-service"),
	}
}

func (s *service) Create(ctx context.Context, movie *Movie) (bool, error) {
	if err := s.validator.Validate(movie); err != nil {
		return false, err
	}

	if movie.ID == uuid.Nil {
		movie.ID = uuid.New()
	}
	movie.Genres = NormalizeGenres(movie.Genres)

	s.logger.Info("Creating movie " + movie.ID.String() + " with slug " + movie.Slug())

	created, err := s.repo.Create(ctx, movie)
	if err != nil {
		s.logger.Error("Failed to create movie " + movie.Slug() + ": " + err.Error())
		return false, err
	}

	if created {
		s.evict(ctx)
	}

	return created, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Movie, error) {
	return s.repo.GetByID(ctx, id, viewerID)
}

func (s *service) GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*Movie, error) {
	return s.repo.GetBySlug(ctx, slug, viewerID)
}

func (s *service) GetAll(ctx context.Context, opts GetAllOptions) ([]*Movie, error) {
	return s.repo.GetAll(ctx, opts.Normalize())
}

func (s *service) Count(ctx context.Context, title string, year *int) (int64, error) {
	return s.repo.Count(ctx, title, year)
}

func (s *service) Update(ctx context.Context, movie *Movie, viewerID *uuid.UUID) (*Movie, error) {
	if err := s.validator.Validate(movie); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Info("Skipping update of missing movie " + movie.ID.String())
		return nil, nil
	}

	movie.Genres = NormalizeGenres(movie.Genres)

	updated, err := s.repo.Update(ctx, movie)
	if err != nil {
		s.logger.Error("Failed to update movie " + movie.ID.String() + ": " + err.Error())
		return nil, err
	}
	if !updated {
		// Removed between the existence probe and the write
		return nil, nil
	}

	if viewerID != nil {
		rating, userRating, err := s.ratings.GetRatingPair(ctx, movie.ID, *viewerID)
		if err != nil {
			return nil, err
		}
		movie.Rating = rating
		movie.UserRating = userRating
	} else {
		rating, err := s.ratings.GetAggregateRating(ctx, movie.ID)
		if err != nil {
			return nil, err
		}
		movie.Rating = rating
		movie.UserRating = nil
	}

	s.evict(ctx)

	s.logger.Info("Movie updated successfully: " + movie.ID.String() + " (" + utils.IntToString(len(movie.Genres)) + " genres)")

	return movie, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Failed to delete movie " + id.String() + ": " + err.Error())
		return false, err
	}

	if deleted {
		s.logger.Info("Movie deleted successfully: " + id.String())
		s.evict(ctx)
	}

	return deleted, nil
}

// evict is called after the write committed; failures are logged, never returned
func (s *service) evict(ctx context.Context) {
	if err := s.cache.EvictTag(ctx, CacheTag); err != nil {
		s.logger.Warn("Failed to evict cache tag " + CacheTag + ": " + err.Error())
	}
}
