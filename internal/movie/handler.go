package movie

import (
	"errors"
	"net/http"

	"github.com/dustin/movies-backend/internal/auth"
	"github.com/dustin/movies-backend/internal/utils"
	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for catalog operations
type Handler struct {
	service Service
}

// NewHandler creates a new movie handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// CreateMovie handles movie creation
func (h *Handler) CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movie := req.ToMovie()
	created, err := h.service.Create(c.Request.Context(), movie)
	if err != nil {
		utils.RespondError(c, err, "Failed to create movie")
		return
	}
	if !created {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movie"})
		return
	}

	c.Header("Location", "/api/v1/movies/"+movie.ID.String())
	c.JSON(http.StatusCreated, movie.ToResponse())
}

// GetMovie handles lookup by id or slug
func (h *Handler) GetMovie(c *gin.Context) {
	idOrSlug := c.Param("idOrSlug")
	viewerID := auth.ViewerID(c)

	var (
		movie *Movie
		err   error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		movie, err = h.service.GetByID(c.Request.Context(), id, viewerID)
	} else {
		movie, err = h.service.GetBySlug(c.Request.Context(), idOrSlug, viewerID)
	}
	if err != nil {
		utils.RespondError(c, err, "Failed to fetch movie")
		return
	}
	if movie == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	c.JSON(http.StatusOK, movie.ToResponse())
}

// GetMovies handles filtered, sorted and paged listing
func (h *Handler) GetMovies(c *gin.Context) {
	opts, err := parseGetAllOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.ViewerID = auth.ViewerID(c)
	opts = opts.Normalize()

	movies, err := h.service.GetAll(c.Request.Context(), opts)
	if err != nil {
		utils.RespondError(c, err, "Failed to fetch movies")
		return
	}

	total, err := h.service.Count(c.Request.Context(), opts.Title, opts.Year)
	if err != nil {
		utils.RespondError(c, err, "Failed to fetch movies")
		return
	}

	c.JSON(http.StatusOK, BuildMoviesResponse(movies, total, opts.Page, opts.PageSize))
}

// UpdateMovie handles full replacement of a movie
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return
	}

	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), req.ToMovie(id), auth.ViewerID(c))
	if err != nil {
		utils.RespondError(c, err, "Failed to update movie")
		return
	}
	if updated == nil {
		utils.RespondError(c, apperrors.ErrNotFound, "Movie not found")
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// DeleteMovie handles movie deletion
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		utils.RespondError(c, err, "Failed to delete movie")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseGetAllOptions(c *gin.Context) (GetAllOptions, error) {
	opts := GetAllOptions{Title: c.Query("title")}

	if year, ok, err := utils.QueryInt(c, "year"); err != nil {
		return opts, err
	} else if ok {
		opts.Year = &year
	}

	field, descending, ok := ParseSort(c.Query("sortBy"))
	if !ok {
		return opts, errors.New("sortBy must be one of title, year, optionally prefixed with '-'")
	}
	opts.SortField = field
	opts.SortDescending = descending

	if page, ok, err := utils.QueryInt(c, "page"); err != nil {
		return opts, err
	} else if ok {
		if page < 1 {
			return opts, errors.New("page must be at least 1")
		}
		opts.Page = page
	}

	if size, ok, err := utils.QueryInt(c, "pageSize"); err != nil {
		return opts, err
	} else if ok {
		if size < 1 || size > MaxPageSize {
			return opts, errors.New("pageSize must be between 1 and " + utils.IntToString(MaxPageSize))
		}
		opts.PageSize = size
	}

	return opts, nil
}

// Guards wires the authorization policies applied to catalog routes
type Guards struct {
	Authenticate  gin.HandlerFunc
	TrustedMember gin.HandlerFunc
	Admin         gin.HandlerFunc
	// CacheRead is applied to GET routes; nil disables response caching
	CacheRead gin.HandlerFunc
}

// RegisterRoutes registers all movie routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, guards Guards) {
	movies := router.Group("/movies")
	movies.Use(guards.Authenticate)

	reads := []gin.HandlerFunc{}
	if guards.CacheRead != nil {
		reads = append(reads, guards.CacheRead)
	}

	{
		movies.POST("", guards.TrustedMember, h.CreateMovie)
		movies.GET("", append(reads, h.GetMovies)...)
		movies.GET("/:idOrSlug", append(reads, h.GetMovie)...)
		movies.PUT("/:id", guards.TrustedMember, h.UpdateMovie)
		movies.DELETE("/:id", guards.Admin, h.DeleteMovie)
	}
}
