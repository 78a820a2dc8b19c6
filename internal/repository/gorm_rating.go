package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/movies-backend/internal/rating"
	"github.com/dustin/movies-backend/pkg/database"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormRatingRepository implements the rating.Repository interface
type gormRatingRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGORMRatingRepository creates a new GORM-based rating repository
func NewGORMRatingRepository(db *gorm.DB, log *logger.Logger) rating.Repository {
	return &gormRatingRepository{
		db:     db,
		logger: log.WithComponent("gorm-rating-repository"),
	}
}

// RateMovie inserts or overwrites the (movie, user) rating in a single upsert
func (r *gormRatingRepository) RateMovie(ctx context.Context, movieID uuid.UUID, value int, userID uuid.UUID) (bool, error) {
	var affected int64

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "movie_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).Create(&ratingRecord{
			MovieID:   movieID,
			UserID:    userID,
			Rating:    value,
			UpdatedAt: time.Now().UTC(),
		})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		// The movie was deleted between the caller's existence check and the upsert
		if database.IsForeignKeyViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to rate movie: %w", err)
	}

	return affected > 0, nil
}

func (r *gormRatingRepository) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	var affected int64

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Where("movie_id = ? AND user_id = ?", movieID, userID).Delete(&ratingRecord{})
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete rating: %w", err)
	}

	return affected > 0, nil
}

func (r *gormRatingRepository) GetAggregateRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	var avg sql.NullFloat64

	row := r.db.WithContext(ctx).Raw("select "+ratingAggregateSQL+" from ratings r where r.movie_id = ?", movieID).Row()
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return nullFloat(avg), nil
}

// GetRatingPair reads the aggregate and the user's own rating in one round trip
func (r *gormRatingRepository) GetRatingPair(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error) {
	var (
		avg        sql.NullFloat64
		userRating sql.NullInt64
	)

	row := r.db.WithContext(ctx).Raw(
		"select "+ratingAggregateSQL+", "+userRatingSQL+" from ratings r where r.movie_id = ?",
		userID, movieID,
	).Row()
	if err := row.Scan(&avg, &userRating); err != nil {
		return nil, nil, fmt.Errorf("failed to read rating pair: %w", err)
	}

	return nullFloat(avg), nullInt(userRating), nil
}

func (r *gormRatingRepository) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]rating.MovieRating, error) {
	rows, err := r.db.WithContext(ctx).Raw(
		"select r.movie_id, m.slug, r.rating from ratings r"+
			" inner join movies m on m.id = r.movie_id"+
			" where r.user_id = ?"+
			" order by m.slug", userID,
	).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer rows.Close()

	ratings, err := decodeUserRatings(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user ratings: %w", err)
	}

	return ratings, nil
}

// PurgeOrphans deletes ratings whose movie row no longer exists
func (r *gormRatingRepository) PurgeOrphans(ctx context.Context) (int64, error) {
	var purged int64

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Exec("delete from ratings where not exists (select 1 from movies m where m.id = ratings.movie_id)")
		purged = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to purge orphaned ratings: %w", err)
	}

	return purged, nil
}
