package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulzar/backend/internal/domain/shared"
	"github.com/pulzar/backend/internal/interfaces/http/dto"
	"github.com/pulzar/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setAuthContext simulates an authenticated request without a real token
func setAuthContext(c *gin.Context, orgID, userID uuid.UUID) {
	c.Set(middleware.OrgIDKey, orgID.String())
	c.Set(middleware.UserIDKey, userID.String())
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetOrgID(t *testing.T) {
	t.Run("returns org ID from context", func(t *testing.T) {
		c, _ := newTestContext(t)
		orgID := uuid.New()
		setAuthContext(c, orgID, uuid.New())

		got, err := getOrgID(c)
		require.NoError(t, err)
		assert.Equal(t, orgID, got)
	})

	t.Run("errors when context is empty", func(t *testing.T) {
		c, _ := newTestContext(t)

		_, err := getOrgID(c)
		assert.Error(t, err)
	})

	t.Run("errors on malformed org ID", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.OrgIDKey, "not-a-uuid")

		_, err := getOrgID(c)
		assert.Error(t, err)
	})
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(42), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found maps to 404",
			err:            shared.NewDomainError("NOT_FOUND", "item not found"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   dto.ErrCodeNotFound,
		},
		{
			name:           "already exists maps to 409",
			err:            shared.NewDomainError("ALREADY_EXISTS", "identifier exists"),
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeAlreadyExists,
		},
		{
			name:           "empty scan maps to 400",
			err:            shared.NewDomainError("EMPTY_SCAN", "scan input is empty"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   dto.ErrCodeInvalidInput,
		},
		{
			name:           "unmapped business code renders as 422",
			err:            shared.NewDomainError("ORDER_CLOSED", "order is closed"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "ORDER_CLOSED",
		},
		{
			name:           "unresolved scan renders as 422",
			err:            shared.NewDomainError("UNRESOLVED_SCAN", "no item for scan"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "UNRESOLVED_SCAN",
		},
		{
			name:           "plain error renders as 500",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(t)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestBaseHandler_HandleError_NilIsNoop(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.HandleError(c, nil)

	assert.Empty(t, w.Body.String())
}

func TestBaseHandler_ErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set("request_id", "req-123")

	h.NotFound(c, "missing")

	resp := decodeResponse(t, w)
	assert.Equal(t, "req-123", resp.RequestID)
}
