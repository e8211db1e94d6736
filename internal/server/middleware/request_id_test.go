package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()

	handler := func(c echo.Context) error {
		reqID, ok := c.Get(XRequestID).(string)
		if !ok {
			return echo.NewHTTPError(http.StatusInternalServerError, "request ID not found in context")
		}
		assert.Equal(t, reqID, GetRequestIDFromContext(c.Request().Context()))
		assert.Equal(t, reqID, GetRequestID(c))
		return c.String(http.StatusOK, reqID)
	}

	t.Run("propagates incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(XRequestID, "custom-request-id")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		err := RequestID()(handler)(c)

		require.NoError(t, err)
		assert.Equal(t, "custom-request-id", rec.Body.String())
		assert.Equal(t, "custom-request-id", rec.Header().Get(XRequestID))
	})

	t.Run("accepts correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(XCorrelationID, "corr-1")
		rec := httptest.NewRecorder()

		require.NoError(t, RequestID()(handler)(e.NewContext(req, rec)))
		assert.Equal(t, "corr-1", rec.Header().Get(XRequestID))
	})

	t.Run("generates when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		require.NoError(t, RequestID()(handler)(e.NewContext(req, rec)))
		_, err := uuid.Parse(rec.Header().Get(XRequestID))
		assert.NoError(t, err)
	})
}
