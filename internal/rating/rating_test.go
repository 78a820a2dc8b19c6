package rating

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRepository mocks the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) RateMovie(ctx context.Context, movieID uuid.UUID, rating int, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, movieID, rating, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, movieID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetAggregateRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockRepository) GetRatingPair(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error) {
	args := m.Called(ctx, movieID, userID)
	var rating *float64
	var userRating *int
	if args.Get(0) != nil {
		rating = args.Get(0).(*float64)
	}
	if args.Get(1) != nil {
		userRating = args.Get(1).(*int)
	}
	return rating, userRating, args.Error(2)
}

func (m *MockRepository) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]MovieRating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MovieRating), args.Error(1)
}

func (m *MockRepository) PurgeOrphans(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMovieLookup mocks the MovieLookup interface
type MockMovieLookup struct {
	mock.Mock
}

func (m *MockMovieLookup) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCache mocks the CacheEvictor interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) EvictTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}
