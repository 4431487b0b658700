package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/goplay/staff-portal/internal/api/response"
	"github.com/goplay/staff-portal/internal/core/domain"
)

const (
	apiPrefix         = "/api"
	errorTemplate     = "error.html"
	internalErrorText = "internal server error"
)

// errorPage is the data handed to the error template.
type errorPage struct {
	StatusCode int
	Message    string
}

// resolvedError is what the boundary decided to tell the client.
type resolvedError struct {
	code    int
	message string
	errs    any
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their own status code and message.
//   - Answers request validation failures with 422 and the field messages.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the JSON envelope under /api and the error page everywhere else.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		res := resolveError(err, log, c)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(res.code)
			return
		}

		if isAPIRequest(c) {
			_ = response.Error(c, res.code, res.message, res.errs)
			return
		}

		page := errorPage{StatusCode: res.code, Message: res.message}
		if rerr := c.Render(res.code, errorTemplate, page); rerr != nil {
			log.Warn().Err(rerr).Msg("error page render failed")
			_ = c.String(res.code, res.message)
		}
	}
}

func isAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/")
}

func resolveError(err error, log zerolog.Logger, c echo.Context) resolvedError {
	res, expected := classifyError(err)
	if !expected || res.code >= http.StatusInternalServerError {
		logUnexpected(log, c, err)
	}
	return res
}

// classifyError decides the status and message err is answered with. The
// second result is false for errors that were not anticipated by any layer.
func classifyError(err error) (resolvedError, bool) {
	// Expected business failures carry their own status and message.
	if de, ok := domain.AsError(err); ok {
		return resolvedError{code: de.StatusCode, message: de.Message, errs: de.Payload}, true
	}

	var ve *response.ValidationError
	if errors.As(err, &ve) {
		return validationFailure(ve.Fields), true
	}

	// Bind failures must not echo the parser's text back.
	var be *echo.BindingError
	if errors.As(err, &be) {
		return validationFailure([]string{be.Field + " is not valid"}), true
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusBadRequest && he.Internal != nil {
			return validationFailure([]string{"request could not be parsed"}), true
		}
		return resolvedError{code: he.Code, message: fmt.Sprintf("%v", he.Message)}, true
	}

	return resolvedError{code: http.StatusInternalServerError, message: internalErrorText}, false
}

func validationFailure(fields []string) resolvedError {
	return resolvedError{code: http.StatusUnprocessableEntity, message: "Validation failed", errs: fields}
}

// responseStatus reports the status a request ends with, including requests
// whose handler returned an error the boundary has not rendered yet.
func responseStatus(c echo.Context, err error) int {
	if err != nil {
		res, _ := classifyError(err)
		return res.code
	}
	if status := c.Response().Status; status != 0 {
		return status
	}
	return http.StatusOK
}

func logUnexpected(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
