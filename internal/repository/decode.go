package repository

import (
	"database/sql"
	"strings"

	"github.com/dustin/movies-backend/internal/movie"
	"github.com/dustin/movies-backend/internal/rating"
	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/google/uuid"
)

var (
	movieViewColumns  = []string{"id", "title", "year_of_release", "rating", "user_rating"}
	movieListColumns  = []string{"id", "title", "year_of_release", "rating", "user_rating", "genres"}
	userRatingColumns = []string{"movie_id", "slug", "rating"}
	genreSeparator    = ","
)

// expectColumns fails with ErrDecode unless the result set has exactly the named columns in order
func expectColumns(rows *sql.Rows, expected []string) error {
	columns, err := rows.Columns()
	if err != nil {
		return err
	}

	if len(columns) != len(expected) {
		return apperrors.Decode("expected columns %v, got %v", expected, columns)
	}
	for i := range expected {
		if !strings.EqualFold(columns[i], expected[i]) {
			return apperrors.Decode("expected column %q at position %d, got %q", expected[i], i, columns[i])
		}
	}
	return nil
}

// decodeMovieViews reads aggregated movie rows. With withGenres the last column is the
// comma-joined genre list; otherwise Genres is left for the caller to fill.
func decodeMovieViews(rows *sql.Rows, withGenres bool) ([]*movie.Movie, error) {
	expected := movieViewColumns
	if withGenres {
		expected = movieListColumns
	}
	if err := expectColumns(rows, expected); err != nil {
		return nil, err
	}

	movies := make([]*movie.Movie, 0)
	for rows.Next() {
		var (
			id         uuid.UUID
			title      string
			year       int
			avg        sql.NullFloat64
			userRating sql.NullInt64
			genres     sql.NullString
		)

		dest := []any{&id, &title, &year, &avg, &userRating}
		if withGenres {
			dest = append(dest, &genres)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, apperrors.Decode("movie row: %v", err)
		}

		m := &movie.Movie{
			ID:            id,
			Title:         title,
			YearOfRelease: year,
			Rating:        nullFloat(avg),
			UserRating:    nullInt(userRating),
		}
		if withGenres {
			m.Genres = splitGenres(genres)
		}
		movies = append(movies, m)
	}

	return movies, rows.Err()
}

func decodeUserRatings(rows *sql.Rows) ([]rating.MovieRating, error) {
	if err := expectColumns(rows, userRatingColumns); err != nil {
		return nil, err
	}

	ratings := make([]rating.MovieRating, 0)
	for rows.Next() {
		var r rating.MovieRating
		if err := rows.Scan(&r.MovieID, &r.Slug, &r.Rating); err != nil {
			return nil, apperrors.Decode("rating row: %v", err)
		}
		ratings = append(ratings, r)
	}

	return ratings, rows.Err()
}

func splitGenres(joined sql.NullString) []string {
	if !joined.Valid || joined.String == "" {
		return []string{}
	}
	return movie.NormalizeGenres(strings.Split(joined.String, genreSeparator))
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
