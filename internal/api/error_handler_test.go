package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goplay/staff-portal/internal/api/response"
	"github.com/goplay/staff-portal/internal/api/view"
	"github.com/goplay/staff-portal/internal/core/domain"
)

func serveError(t *testing.T, path string, err error, logOut *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	renderer, rerr := view.New()
	require.NoError(t, rerr)
	e.Renderer = renderer

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)

	log := zerolog.Nop()
	if logOut != nil {
		log = zerolog.New(logOut)
	}
	NewHTTPErrorHandler(log)(err, c)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_DomainErrorsUseTheirStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrEmailExists, http.StatusBadRequest, "Email already exists"},
		{fmt.Errorf("login: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, "Incorrect email or password"},
		{domain.ErrInvalidSession, http.StatusUnauthorized, "Invalid or expired session"},
		{domain.ErrForbidden, http.StatusForbidden, "Access forbidden"},
		{domain.ErrUserNotFound, http.StatusBadRequest, "User not found"},
	}
	for _, tc := range cases {
		rec := serveError(t, "/api/user/1", tc.err, nil)
		assert.Equal(t, tc.code, rec.Code)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, float64(tc.code), body["code"])
		assert.Equal(t, response.StatusError, body["status"])
		assert.Equal(t, tc.msg, body["message"])
	}
}

func TestErrorHandler_PayloadBecomesErrors(t *testing.T) {
	err := domain.ErrNameInvalid.WithPayload([]string{"name"})
	body := decodeEnvelope(t, serveError(t, "/api/auth/register", err, nil))
	assert.Equal(t, []any{"name"}, body["errors"])
}

func TestErrorHandler_ValidationIs422(t *testing.T) {
	rec := serveError(t, "/api/user/all", response.NewValidationError("limit must be greater than 0"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, []any{"limit must be greater than 0"}, body["errors"])
}

func TestErrorHandler_EchoHTTPError(t *testing.T) {
	rec := serveError(t, "/api/nope", echo.ErrNotFound, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", decodeEnvelope(t, rec)["message"])
}

func TestErrorHandler_BindFailuresHideParserText(t *testing.T) {
	numErr := &strconv.NumError{Func: "ParseInt", Num: "abc", Err: strconv.ErrSyntax}
	cases := []struct {
		err   error
		field string
	}{
		{echo.NewBindingError("id", []string{"abc"}, "path param", numErr), "id is not valid"},
		{echo.NewHTTPError(http.StatusBadRequest, numErr.Error()).SetInternal(numErr), "request could not be parsed"},
	}
	for _, tc := range cases {
		rec := serveError(t, "/api/user/abc", tc.err, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.NotContains(t, rec.Body.String(), "strconv")

		body := decodeEnvelope(t, rec)
		assert.Equal(t, []any{tc.field}, body["errors"])
	}
}

func TestResponseStatus(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Equal(t, http.StatusUnauthorized, responseStatus(c, domain.ErrInvalidCredentials))
	assert.Equal(t, http.StatusForbidden, responseStatus(c, fmt.Errorf("rbac: %w", domain.ErrForbidden)))
	assert.Equal(t, http.StatusUnprocessableEntity, responseStatus(c, response.NewValidationError("id must be an integer")))
	assert.Equal(t, http.StatusNotFound, responseStatus(c, echo.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, responseStatus(c, errors.New("boom")))
	assert.Equal(t, http.StatusOK, responseStatus(c, nil))

	require.NoError(t, c.NoContent(http.StatusCreated))
	assert.Equal(t, http.StatusCreated, responseStatus(c, nil))
}

func TestErrorHandler_UnexpectedErrorIsHidden(t *testing.T) {
	var logs bytes.Buffer
	rec := serveError(t, "/api/user/me", errors.New("mongo: connection reset"), &logs)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorText, decodeEnvelope(t, rec)["message"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
	assert.Contains(t, logs.String(), "connection reset")
}

func TestErrorHandler_PagesRenderHTML(t *testing.T) {
	rec := serveError(t, "/check", domain.ErrNotLoggedIn, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML))
	assert.Contains(t, rec.Body.String(), "Not authenticated")
	assert.Contains(t, rec.Body.String(), "401")
}

func TestErrorHandler_PagesHideUnexpectedErrors(t *testing.T) {
	rec := serveError(t, "/register", errors.New("boom"), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
