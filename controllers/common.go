package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"frontdesk-backend/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "error.validationFailed",
				"field":   ve.Field,
				"message": ve.Message,
			},
		})
	case errors.Is(err, services.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   gin.H{"code": "error.duplicateEntry", "message": "entry number already in use"},
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "error.notFound", "message": "record not found"},
		})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "error.invalidStatus", "message": "status must be checked-in, checked-out or cancelled"},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   gin.H{"code": "error.internal", "message": err.Error()},
		})
	}
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   gin.H{"code": "error.invalidId", "message": "id must be a positive integer"},
		})
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts "2006-01-02" or RFC3339 (best-effort, like the booking
// create payloads the frontend sends).
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
