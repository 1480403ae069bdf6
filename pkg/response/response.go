// Package response defines the JSON envelope used by every API endpoint
// and the echo error handler that renders failures in the same shape.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Envelope is the standard API response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a success envelope with data.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// OKMessage writes a success envelope with a message and optional data.
func OKMessage(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a success envelope carrying a collection and its count.
func List(c echo.Context, status int, count int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Count: &count, Data: data})
}

// Fail writes a failure envelope.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

// HTTPErrorHandler converts echo errors into the failure envelope so that
// middleware short-circuits (auth, rate limit, panics) and handler errors
// all reach the client in one stable shape.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if msg, ok := he.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, Envelope{Success: false, Message: message})
	}
}
