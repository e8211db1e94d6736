package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var grpcToHTTP = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.NotFound:           http.StatusNotFound,
	codes.AlreadyExists:      http.StatusConflict,
	codes.FailedPrecondition: http.StatusConflict,
	codes.Unavailable:        http.StatusServiceUnavailable,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
}

// ErrorHandler renders every error in the Response envelope. gRPC status
// errors coming from the usecase layer are mapped to their HTTP equivalent.
func ErrorHandler(log Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if err == nil || c.Response().Committed {
			return
		}

		resp := toResponseError(err, c)
		if resp.Status >= http.StatusInternalServerError {
			log.Errorw("request failed", "uri", c.Request().RequestURI, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Status)
		} else {
			err = c.JSON(resp.Status, resp)
		}
		if err != nil {
			log.Errorw("could not response", "code", resp.Status, "response_body", resp)
		}
	}
}

func toResponseError(err error, c echo.Context) *ResponseError {
	var (
		respErr *ResponseError
		httpErr *echo.HTTPError
	)
	switch {
	case errors.As(err, &respErr):
		out := *respErr
		out.Success = false
		if out.Status == 0 {
			out.Status = http.StatusInternalServerError
		}
		return &out
	case errors.As(err, &httpErr):
		resp := &ResponseError{Status: httpErr.Code, Err: err, ErrorMessage: fmt.Sprint(httpErr.Message)}
		if resp.Status == http.StatusNotFound && isNotFoundHandler(c.Handler()) {
			resp.ErrorMessage = "no route matched"
		}
		return resp
	}

	var grpcErr interface{ GRPCStatus() *status.Status }
	if errors.As(err, &grpcErr) {
		st := grpcErr.GRPCStatus()
		if code, mapped := grpcToHTTP[st.Code()]; mapped {
			return &ResponseError{
				Status:       code,
				Err:          err,
				ErrorCode:    toSnake(st.Code().String()),
				ErrorMessage: st.Message(),
			}
		}
	}

	resp := &ResponseError{
		Status:       http.StatusInternalServerError,
		Err:          err,
		ErrorMessage: http.StatusText(http.StatusInternalServerError),
	}
	// detect canceled request error
	if errors.Is(err, context.Canceled) && c.Request().Context().Err() == context.Canceled {
		resp.Status = 499
	}
	return resp
}

// toSnake turns a gRPC code name such as NotFound into not_found.
func toSnake(s string) string {
	out := make([]byte, 0, len(s)+4)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch >= 'A' && ch <= 'Z' {
			if i > 0 {
				out = append(out, '_')
			}
			ch += 'a' - 'A'
		}
		out = append(out, ch)
	}
	return string(out)
}
