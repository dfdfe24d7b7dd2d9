package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"frontdesk-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respondStatus(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondServiceError(c, err)
	return w.Code
}

func TestRespondServiceError_StatusMapping(t *testing.T) {
	assert.Equal(t, http.StatusConflict, respondStatus(t, services.ErrDuplicateEntry))
	assert.Equal(t, http.StatusNotFound, respondStatus(t, services.ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, respondStatus(t, services.ErrInvalidStatus))
	assert.Equal(t, http.StatusBadRequest, respondStatus(t, &services.ValidationError{Field: "rent", Message: "nope"}))

	// number-allocation exhaustion is an internal fault, never a 409
	exhausted := fmt.Errorf("%w: 5 attempts", services.ErrCodeAllocation)
	assert.Equal(t, http.StatusInternalServerError, respondStatus(t, exhausted))
	assert.Equal(t, http.StatusInternalServerError, respondStatus(t, errors.New("boom")))
}
