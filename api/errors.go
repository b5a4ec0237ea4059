package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskboard-api/domain"
)

// statusForError maps a typed error to the status code the translator will
// respond with. Deferred metrics use it too: they run before the translator
// has written the response, so the response status is not yet usable there.
func statusForError(err error) int {
	var verr *domain.ValidationError
	var herr *echo.HTTPError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.As(err, &herr):
		return herr.Code
	}
	return http.StatusInternalServerError
}

// errorHandler is the single translation point from typed errors to HTTP
// responses. Handlers and the service return errors unmodified; the mapping
// to status codes lives only here.
func errorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusForError(err)
		resp := errorResponse{Status: "error", Message: "internal server error"}

		var verr *domain.ValidationError
		var herr *echo.HTTPError
		switch {
		case errors.As(err, &verr):
			resp.Message = "validation failed"
			resp.Details = verr.Details
		case errors.Is(err, domain.ErrInvalidStatus):
			resp.Message = err.Error()
		case errors.Is(err, domain.ErrTaskNotFound):
			resp.Message = "task not found"
		case errors.As(err, &herr):
			resp.Message = fmt.Sprintf("%v", herr.Message)
		default:
			// Unexpected failures stay generic towards the caller; the
			// original error is only logged server-side.
			logger.WithFields(log.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
				"error":  err.Error(),
			}).Error("request failed")
		}

		if jsonErr := c.JSON(code, resp); jsonErr != nil {
			logger.WithField("error", jsonErr.Error()).Error("error response write failed")
		}
	}
}
