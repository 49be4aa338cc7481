package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// respondError maps the engine's typed failures onto HTTP statuses. Anything
// unrecognized already rolled back and surfaces as a 500.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, ErrPublishBanned):
		c.JSON(http.StatusForbidden, gin.H{"error": "Publishing is disabled for this account"})
	case errors.Is(err, ErrDeckEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Deck has no cards"})
	case errors.Is(err, ErrNoChanges),
		errors.Is(err, ErrAlreadyOwned),
		errors.Is(err, ErrUpToDate),
		errors.Is(err, ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()})
	}
}
