package rating

import (
	"context"

	"github.com/google/uuid"
)

// Accepted rating range
const (
	MinRating = 1
	MaxRating = 5
)

// CacheTag is evicted on every rating change since cached movie views embed the aggregate
const CacheTag = "movies"

// MovieRating is one of a user's ratings, keyed by the movie's slug and id
type MovieRating struct {
	MovieID uuid.UUID `json:"movie_id"`
	Slug    string    `json:"slug"`
	Rating  int       `json:"rating"`
}

// Repository defines the interface for rating data access
type Repository interface {
	RateMovie(ctx context.Context, movieID uuid.UUID, rating int, userID uuid.UUID) (bool, error)
	DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
	GetAggregateRating(ctx context.Context, movieID uuid.UUID) (*float64, error)
	GetRatingPair(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error)
	GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]MovieRating, error)

	// Maintenance
	PurgeOrphans(ctx context.Context) (int64, error)
}

// Service defines the interface for rating business logic
type Service interface {
	RateMovie(ctx context.Context, movieID uuid.UUID, rating int, userID uuid.UUID) (bool, error)
	DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
	GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]MovieRating, error)
	PurgeOrphans(ctx context.Context) error
}

// MovieLookup checks that a rated movie exists
type MovieLookup interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// CacheEvictor drops every cached entry carrying a tag
type CacheEvictor interface {
	EvictTag(ctx context.Context, tag string) error
}

// RateMovieRequest represents rating creation/update request
type RateMovieRequest struct {
	Rating int `json:"rating"`
}

// IsValidRating checks if the rating is within valid range
func IsValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}
