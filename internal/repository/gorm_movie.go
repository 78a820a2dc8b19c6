package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/movies-backend/internal/movie"
	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/dustin/movies-backend/pkg/database"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// Mean rounded to one decimal, null when the movie has no ratings
	ratingAggregateSQL = "cast(round(avg(r.rating), 1) as double precision) as rating"
	userRatingSQL      = "max(case when r.user_id = ? then r.rating end) as user_rating"
)

// gormMovieRepository implements the movie.Repository interface
type gormMovieRepository struct {
	db     *gorm.DB
	logger *logger.Logger
}

// NewGORMMovieRepository creates a new GORM-based movie repository
func NewGORMMovieRepository(db *gorm.DB, log *logger.Logger) movie.Repository {
	return &gormMovieRepository{
		db:     db,
		logger: log.WithComponent("gorm-movie-repository"),
	}
}

func (r *gormMovieRepository) Create(ctx context.Context, m *movie.Movie) (bool, error) {
	slug := m.Slug()
	created := false

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Create(&movieRecord{
			ID:            m.ID,
			Title:         m.Title,
			Slug:          slug,
			YearOfRelease: m.YearOfRelease,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return nil
		}

		if err := insertGenres(tx, m.ID, m.Genres); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Warn("Slug collision on create: " + slug)
			return false, apperrors.Conflict("movie with slug '%s' already exists", slug)
		}
		return false, fmt.Errorf("failed to create movie: %w", err)
	}

	return created, nil
}

func (r *gormMovieRepository) GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*movie.Movie, error) {
	return r.getOne(ctx, "m.id = ?", id, viewerID)
}

func (r *gormMovieRepository) GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*movie.Movie, error) {
	return r.getOne(ctx, "m.slug = ?", slug, viewerID)
}

func (r *gormMovieRepository) getOne(ctx context.Context, predicate string, key any, viewerID *uuid.UUID) (*movie.Movie, error) {
	db := r.db.WithContext(ctx)

	query := "select m.id, m.title, m.year_of_release, " + ratingAggregateSQL + ", " + userRatingSQL +
		" from movies m left join ratings r on r.movie_id = m.id" +
		" where " + predicate +
		" group by m.id, m.title, m.year_of_release"

	rows, err := db.Raw(query, viewerArg(viewerID), key).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query movie: %w", err)
	}
	movies, err := decodeMovieViews(rows, false)
	// Release the connection before the genre query
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to decode movie: %w", err)
	}
	if len(movies) == 0 {
		return nil, nil
	}

	m := movies[0]
	var genres []string
	if err := db.Model(&genreRecord{}).Where("movie_id = ?", m.ID).Order("name").Pluck("name", &genres).Error; err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	m.Genres = movie.NormalizeGenres(genres)

	return m, nil
}

func (r *gormMovieRepository) GetAll(ctx context.Context, opts movie.GetAllOptions) ([]*movie.Movie, error) {
	opts = opts.Normalize()

	where, args := movieFilter(opts.Title, opts.Year)
	args = append([]any{viewerArg(opts.ViewerID)}, args...)
	args = append(args, opts.PageSize, opts.Offset())

	query := "select m.id, m.title, m.year_of_release, " + ratingAggregateSQL + ", " + userRatingSQL +
		", (select " + r.genreAggregate() + " from genres g where g.movie_id = m.id) as genres" +
		" from movies m left join ratings r on r.movie_id = m.id" +
		where +
		" group by m.id, m.title, m.year_of_release" +
		" order by " + movieOrder(opts) +
		" limit ? offset ?"

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies, err := decodeMovieViews(rows, true)
	if err != nil {
		return nil, fmt.Errorf("failed to decode movies: %w", err)
	}

	return movies, nil
}

func (r *gormMovieRepository) Count(ctx context.Context, title string, year *int) (int64, error) {
	where, args := movieFilter(title, year)

	var total int64
	if err := r.db.WithContext(ctx).Raw("select count(*) from movies m"+where, args...).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return total, nil
}

func (r *gormMovieRepository) Update(ctx context.Context, m *movie.Movie) (bool, error) {
	slug := m.Slug()
	updated := false

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&movieRecord{}).Where("id = ?", m.ID).Updates(map[string]any{
			"title":           m.Title,
			"slug":            slug,
			"year_of_release": m.YearOfRelease,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return nil
		}

		// Replace the genre set wholesale
		if err := tx.Where("movie_id = ?", m.ID).Delete(&genreRecord{}).Error; err != nil {
			return err
		}
		if err := insertGenres(tx, m.ID, m.Genres); err != nil {
			return err
		}
		updated = true
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			r.logger.Warn("Slug collision on update of " + m.ID.String() + ": " + slug)
			return false, apperrors.Conflict("movie with slug '%s' already exists", slug)
		}
		return false, fmt.Errorf("failed to update movie: %w", err)
	}

	return updated, nil
}

func (r *gormMovieRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false

	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&ratingRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id = ?", id).Delete(&genreRecord{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&movieRecord{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete movie: %w", err)
	}

	return deleted, nil
}

func (r *gormMovieRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&movieRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check movie existence: %w", err)
	}
	return count > 0, nil
}

// genreAggregate joins genre names into one column in the engine's dialect
func (r *gormMovieRepository) genreAggregate() string {
	if r.db.Dialector.Name() == database.DriverPostgres {
		return "string_agg(g.name, '" + genreSeparator + "')"
	}
	return "group_concat(g.name, '" + genreSeparator + "')"
}

func insertGenres(tx *gorm.DB, movieID uuid.UUID, genres []string) error {
	names := movie.NormalizeGenres(genres)
	if len(names) == 0 {
		return nil
	}

	records := make([]genreRecord, len(names))
	for i, name := range names {
		records[i] = genreRecord{MovieID: movieID, Name: name}
	}
	return tx.Create(&records).Error
}

// movieFilter builds the where clause shared by GetAll and Count
func movieFilter(title string, year *int) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if title != "" {
		conditions = append(conditions, `lower(m.title) like ? escape '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(title))+"%")
	}
	if year != nil {
		conditions = append(conditions, "m.year_of_release = ?")
		args = append(args, *year)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " where " + strings.Join(conditions, " and "), args
}

func movieOrder(opts movie.GetAllOptions) string {
	direction := "asc"
	if opts.SortDescending {
		direction = "desc"
	}

	switch opts.SortField {
	case movie.SortTitle:
		return "m.title " + direction + ", m.id"
	case movie.SortYear:
		return "m.year_of_release " + direction + ", m.id"
	default:
		return "m.id"
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// viewerArg binds NULL for anonymous reads so the per-user column is always null
func viewerArg(viewerID *uuid.UUID) any {
	if viewerID == nil {
		return nil
	}
	return *viewerID
}
