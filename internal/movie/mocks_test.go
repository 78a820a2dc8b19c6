package movie

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRepository mocks the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, movie *Movie) (bool, error) {
	args := m.Called(ctx, movie)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Movie, error) {
	args := m.Called(ctx, id, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Movie), args.Error(1)
}

func (m *MockRepository) GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*Movie, error) {
	args := m.Called(ctx, slug, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Movie), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context, opts GetAllOptions) ([]*Movie, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Movie), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, title string, year *int) (int64, error) {
	args := m.Called(ctx, title, year)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, movie *Movie) (bool, error) {
	args := m.Called(ctx, movie)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockRatingReader mocks the RatingReader interface
type MockRatingReader struct {
	mock.Mock
}

func (m *MockRatingReader) GetAggregateRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockRatingReader) GetRatingPair(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error) {
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

// MockCache mocks the CacheEvictor interface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) EvictTag(ctx context.Context, tag string) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}
