package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submitPayload struct {
	Value string `json:"value" binding:"required,max=10"`
	Kind  string `json:"kind" binding:"omitempty,oneof=image document"`
}

func validationRouter() *gin.Engine {
	SetupValidator()

	router := gin.New()
	router.POST("/submit", func(c *gin.Context) {
		var req submitPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestHandleValidationError(t *testing.T) {
	router := validationRouter()

	t.Run("reports missing required field by json tag", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/submit", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"value"`)
		assert.Contains(t, w.Body.String(), "This field is required")
	})

	t.Run("reports oneof violations", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/submit", strings.NewReader(`{"value":"x","kind":"audio"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"kind"`)
		assert.Contains(t, w.Body.String(), "Must be one of: image document")
	})

	t.Run("reports max length violations", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/submit", strings.NewReader(`{"value":"this is far too long"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Must be at most 10 characters")
	})

	t.Run("accepts valid payloads", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/submit", strings.NewReader(`{"value":"ok","kind":"image"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
