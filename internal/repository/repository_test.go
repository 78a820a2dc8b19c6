package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/dustin/movies-backend/internal/movie"
	"github.com/dustin/movies-backend/internal/rating"
	"github.com/dustin/movies-backend/pkg/database"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stores struct {
	db      *gorm.DB
	movies  movie.Repository
	ratings rating.Repository
}

// newStores opens a private in-memory sqlite database with the catalog schema
func newStores(t *testing.T) *stores {
	t.Helper()
	return openStores(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
}

// newStoresWithForeignKeys is newStores with foreign key enforcement, matching postgres
func newStoresWithForeignKeys(t *testing.T) *stores {
	t.Helper()
	return openStores(t, fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()))
}

func openStores(t *testing.T, dsn string) *stores {
	t.Helper()

	db, err := database.OpenSQLite(dsn, &gorm.Config{
		TranslateError: true,
		Logger:         logger.NewGormLogger(logger.Nop(), 0),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, NewSchemaBootstrapper(db, logger.Nop()).Initialize(context.Background()))

	return &stores{
		db:      db,
		movies:  NewGORMMovieRepository(db, logger.Nop()),
		ratings: NewGORMRatingRepository(db, logger.Nop()),
	}
}

func (s *stores) createMovie(t *testing.T, title string, year int, genres ...string) *movie.Movie {
	t.Helper()
	if genres == nil {
		genres = []string{}
	}
	m := &movie.Movie{ID: uuid.New(), Title: title, YearOfRelease: year, Genres: genres}
	created, err := s.movies.Create(context.Background(), m)
	require.NoError(t, err)
	require.True(t, created)
	return m
}

func (s *stores) rate(t *testing.T, movieID uuid.UUID, value int, userID uuid.UUID) {
	t.Helper()
	rated, err := s.ratings.RateMovie(context.Background(), movieID, value, userID)
	require.NoError(t, err)
	require.True(t, rated)
}

func (s *stores) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Table(table).Count(&n).Error)
	return n
}
