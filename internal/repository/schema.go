package repository

import (
	"context"
	"fmt"

	"github.com/dustin/movies-backend/pkg/logger"
	"gorm.io/gorm"
)

// SchemaBootstrapper creates the catalog tables on startup
type SchemaBootstrapper struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewSchemaBootstrapper creates a new schema bootstrapper
func NewSchemaBootstrapper(db *gorm.DB, log *logger.Logger) *SchemaBootstrapper {
	return &SchemaBootstrapper{
		db:     db,
		logger: log.WithComponent("schema"),
	}
}

// Initialize creates movies (with its unique slug index), genres and ratings when
// absent. Running it against an up-to-date schema changes nothing.
func (s *SchemaBootstrapper) Initialize(ctx context.Context) error {
	s.logger.Info("Ensuring catalog schema")

	if err := s.db.WithContext(ctx).AutoMigrate(&movieRecord{}, &genreRecord{}, &ratingRecord{}); err != nil {
		s.logger.Err(err, "Schema migration failed")
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Info("Catalog schema ready")
	return nil
}
