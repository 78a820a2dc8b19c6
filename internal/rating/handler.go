package rating

import (
	"net/http"

	"github.com/dustin/movies-backend/internal/auth"
	"github.com/dustin/movies-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for rating operations
type Handler struct {
	service Service
}

// NewHandler creates a new rating handler
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RateMovie handles rating creation/update
func (h *Handler) RateMovie(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return
	}

	var req RateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rated, err := h.service.RateMovie(c.Request.Context(), movieID, req.Rating, userID)
	if err != nil {
		utils.RespondError(c, err, "Failed to rate movie")
		return
	}
	if !rated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movie_id": movieID, "rating": req.Rating})
}

// DeleteRating handles removal of the caller's rating
func (h *Handler) DeleteRating(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	movieID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return
	}

	deleted, err := h.service.DeleteRating(c.Request.Context(), movieID, userID)
	if err != nil {
		utils.RespondError(c, err, "Failed to delete rating")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rating not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

// GetMyRatings lists every rating of the caller
func (h *Handler) GetMyRatings(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	ratings, err := h.service.GetRatingsForUser(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err, "Failed to fetch ratings")
		return
	}
	if ratings == nil {
		ratings = []MovieRating{}
	}

	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

// RegisterRoutes registers all rating routes; every route requires a signed-in user
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authenticate, requireUser gin.HandlerFunc) {
	movieRatings := router.Group("/movies/:id/ratings")
	movieRatings.Use(authenticate, requireUser)
	{
		movieRatings.PUT("", h.RateMovie)
		movieRatings.DELETE("", h.DeleteRating)
	}

	mine := router.Group("/ratings")
	mine.Use(authenticate, requireUser)
	{
		mine.GET("/me", h.GetMyRatings)
	}
}
