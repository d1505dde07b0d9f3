package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/service"
)

// respondError translates service errors into HTTP responses. Domain
// failures are surfaced to the caller with their message; anything
// unrecognized is a 500 with a generic body.
func respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, service.ErrImageDecode):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error(), "field": "image"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"errors": "you do not have permission to perform this action"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": "not found"})
	case errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrNoSuchEntry),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "internal server error"})
	}
}
