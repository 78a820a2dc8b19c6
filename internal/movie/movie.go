package movie

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/movies-backend/internal/utils"
	"github.com/google/uuid"
)

// CacheTag is the invalidation tag shared by every cached catalog read
const CacheTag = "movies"

// Paging limits for GetAll
const (
	DefaultPageSize = 10
	MaxPageSize     = 25
)

var slugStrip = regexp.MustCompile(`[^0-9A-Za-z _-]`)

// Movie is a catalog entry. Rating and UserRating are derived on read and never persisted.
type Movie struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title" validate:"nonblank"`
	YearOfRelease int       `json:"year_of_release" validate:"yearofrelease"`
	Genres        []string  `json:"genres" validate:"required,dive,nonblank,excludesall=0x2C"`
	Rating        *float64  `json:"rating"`
	UserRating    *int      `json:"user_rating"`
}

// Slug derives the URL-friendly identifier from title and year.
// "The Matrix" released in 1999 becomes "the-matrix-1999".
func (m *Movie) Slug() string {
	return Slugify(m.Title, m.YearOfRelease)
}

// Slugify strips everything except letters, digits, spaces, underscores and
// dashes, lowercases the rest and joins words with dashes.
func Slugify(title string, year int) string {
	cleaned := slugStrip.ReplaceAllString(title, "")
	cleaned = strings.ReplaceAll(strings.ToLower(cleaned), " ", "-")
	return cleaned + "-" + strconv.Itoa(year)
}

// NormalizeGenres returns the distinct genre names in input order
func NormalizeGenres(genres []string) []string {
	seen := make(map[string]struct{}, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// SortedGenres returns a sorted copy, used where a stable order is needed for output
func SortedGenres(genres []string) []string {
	out := make([]string, len(genres))
	copy(out, genres)
	sort.Strings(out)
	return out
}

// Sort fields accepted by GetAll
const (
	SortNone  = ""
	SortTitle = "title"
	SortYear  = "year"
)

// GetAllOptions filters, orders and pages a catalog listing
type GetAllOptions struct {
	ViewerID       *uuid.UUID
	Title          string
	Year           *int
	SortField      string
	SortDescending bool
	Page           int
	PageSize       int
}

// Normalize fills paging defaults and clamps the page size
func (o GetAllOptions) Normalize() GetAllOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

// Offset is the number of rows skipped before the requested page
func (o GetAllOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}

// ParseSort reads "title", "-year" and similar into a field and direction.
// ok is false for unknown fields.
func ParseSort(value string) (field string, descending bool, ok bool) {
	if value == "" {
		return SortNone, false, true
	}
	switch value[0] {
	case '-':
		descending = true
		value = value[1:]
	case '+':
		value = value[1:]
	}
	switch value {
	case SortTitle, SortYear:
		return value, descending, true
	default:
		return SortNone, false, false
	}
}

// Repository defines movie persistence. Lookups return nil, nil when nothing matches.
type Repository interface {
	Create(ctx context.Context, movie *Movie) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Movie, error)
	GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*Movie, error)
	GetAll(ctx context.Context, opts GetAllOptions) ([]*Movie, error)
	Count(ctx context.Context, title string, year *int) (int64, error)
	Update(ctx context.Context, movie *Movie) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// RatingReader provides the aggregate views attached to an updated movie
type RatingReader interface {
	GetAggregateRating(ctx context.Context, movieID uuid.UUID) (*float64, error)
	GetRatingPair(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error)
}

// Validator checks the structural rules of a candidate movie
type Validator interface {
	Validate(movie *Movie) error
}

// CacheEvictor drops every cached entry carrying a tag
type CacheEvictor interface {
	EvictTag(ctx context.Context, tag string) error
}

// Service defines catalog business logic
type Service interface {
	Create(ctx context.Context, movie *Movie) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*Movie, error)
	GetBySlug(ctx context.Context, slug string, viewerID *uuid.UUID) (*Movie, error)
	GetAll(ctx context.Context, opts GetAllOptions) ([]*Movie, error)
	Count(ctx context.Context, title string, year *int) (int64, error)
	Update(ctx context.Context, movie *Movie, viewerID *uuid.UUID) (*Movie, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateMovieRequest represents movie creation request
type CreateMovieRequest struct {
	Title         string   `json:"title"`
	YearOfRelease int      `json:"year_of_release"`
	Genres        []string `json:"genres"`
}

// UpdateMovieRequest represents movie update request
type UpdateMovieRequest struct {
	Title         string   `json:"title"`
	YearOfRelease int      `json:"year_of_release"`
	Genres        []string `json:"genres"`
}

// ToMovie builds a new movie without an id; the service assigns one
func (r *CreateMovieRequest) ToMovie() *Movie {
	return &Movie{
		Title:         r.Title,
		YearOfRelease: r.YearOfRelease,
		Genres:        r.Genres,
	}
}

// ToMovie builds the replacement state for the movie with the given id
func (r *UpdateMovieRequest) ToMovie(id uuid.UUID) *Movie {
	return &Movie{
		ID:            id,
		Title:         r.Title,
		YearOfRelease: r.YearOfRelease,
		Genres:        r.Genres,
	}
}

// MovieResponse represents movie in API responses
type MovieResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	YearOfRelease int       `json:"year_of_release"`
	Genres        []string  `json:"genres"`
	Rating        *float64  `json:"rating"`
	UserRating    *int      `json:"user_rating"`
}

// MoviesResponse represents a paginated movie list
type MoviesResponse struct {
	Movies []*MovieResponse `json:"movies"`
	utils.PaginationMeta
}

// ToResponse converts Movie to MovieResponse
func (m *Movie) ToResponse() *MovieResponse {
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}
	return &MovieResponse{
		ID:            m.ID,
		Title:         m.Title,
		Slug:          m.Slug(),
		YearOfRelease: m.YearOfRelease,
		Genres:        SortedGenres(genres),
		Rating:        m.Rating,
		UserRating:    m.UserRating,
	}
}

// BuildMoviesResponse wraps one page of movies with pagination metadata
func BuildMoviesResponse(movies []*Movie, total int64, page, pageSize int) *MoviesResponse {
	responses := make([]*MovieResponse, len(movies))
	for i, m := range movies {
		responses[i] = m.ToResponse()
	}

	return &MoviesResponse{
		Movies:         responses,
		PaginationMeta: utils.CalculatePagination(total, page, pageSize),
	}
}
