package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	ID   string `param:"id" validate:"required"`
	Text string `json:"text" validate:"required"`
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(nopLog{})
	return e
}

type nopLog struct{}

func (nopLog) Debugw(string, ...any) {}
func (nopLog) Infow(string, ...any)  {}
func (nopLog) Warnw(string, ...any)  {}
func (nopLog) Errorw(string, ...any) {}

func TestWrapHandler(t *testing.T) {
	e := newTestEcho()
	e.POST("/echo/:id", WrapHandler(func(c echo.Context, req echoRequest) (map[string]string, error) {
		return map[string]string{"id": req.ID, "text": req.Text}, nil
	}))
	e.POST("/created/:id", WrapHandler(func(c echo.Context, req echoRequest) (*Response, error) {
		return &Response{Status: http.StatusCreated, Success: true, Data: req.ID}, nil
	}))
	e.DELETE("/gone/:id", WrapHandler(func(c echo.Context, req struct {
		ID string `param:"id"`
	}) error {
		return nil
	}))
	e.POST("/fail/:id", WrapHandler(func(c echo.Context, req echoRequest) (any, error) {
		return nil, errors.New("boom")
	}))

	send := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if body != "" {
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	t.Run("envelope", func(t *testing.T) {
		rec := send(http.MethodPost, "/echo/42", `{"text":"hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":{"id":"42","text":"hi"}}`, rec.Body.String())
	})

	t.Run("custom status", func(t *testing.T) {
		rec := send(http.MethodPost, "/created/7", `{"text":"hi"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":"7"}`, rec.Body.String())
	})

	t.Run("no content", func(t *testing.T) {
		rec := send(http.MethodDelete, "/gone/1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("validation", func(t *testing.T) {
		rec := send(http.MethodPost, "/echo/42", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"success":false,"error_code":"invalid_request","error_message":"text failed on required"}`, rec.Body.String())
	})

	t.Run("handler error", func(t *testing.T) {
		rec := send(http.MethodPost, "/fail/1", `{"text":"x"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestWrapHandlerRejectsBadSignatures(t *testing.T) {
	_, err := wrapHandler("not a func")
	assert.Error(t, err)

	_, err = wrapHandler(func(c echo.Context) error { return nil })
	assert.Error(t, err)

	_, err = wrapHandler(func(c echo.Context, id string) error { return nil })
	assert.Error(t, err)

	_, err = wrapHandler(func(c echo.Context, req echoRequest) string { return "" })
	assert.Error(t, err)
}
