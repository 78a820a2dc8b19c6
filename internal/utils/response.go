package utils

import (
	"context"
	"errors"
	"net/http"

	"github.com/dustin/movies-backend/pkg/apperrors"
	"github.com/gin-gonic/gin"
)

// StatusClientClosedRequest is returned when the caller went away mid-request
const StatusClientClosedRequest = 499

// RespondError maps domain errors to HTTP responses. Unclassified errors are
// reported with the generic message only.
func RespondError(c *gin.Context, err error, message string) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "errors": verr.Violations})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message})
	case errors.Is(err, context.Canceled):
		c.JSON(StatusClientClosedRequest, gin.H{"error": "Request canceled"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request timed out"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}
