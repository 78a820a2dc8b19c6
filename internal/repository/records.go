package repository

import (
	"time"

	"github.com/google/uuid"
)

// movieRecord is the persisted movie row. Ratings and genres live in their own tables.
type movieRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title         string    `gorm:"type:text;not null"`
	Slug          string    `gorm:"type:text;not null;uniqueIndex:idx_movies_slug"`
	YearOfRelease int       `gorm:"not null"`
}

func (movieRecord) TableName() string {
	return "movies"
}

// genreRecord associates one genre name with one movie
type genreRecord struct {
	MovieID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name    string    `gorm:"type:text;primaryKey"`

	Movie *movieRecord `gorm:"foreignKey:MovieID"`
}

func (genreRecord) TableName() string {
	return "genres"
}

// ratingRecord is one user's rating of one movie
type ratingRecord struct {
	MovieID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_ratings_user"`
	Rating    int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Movie *movieRecord `gorm:"foreignKey:MovieID"`
}

func (ratingRecord) TableName() string {
	return "ratings"
}
