package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tally/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"conflict", NewConflictError("taken"), http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"unauthenticated", NewUnauthenticatedError("who"), http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), http.StatusForbidden},
		{"internal", NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFoundError("missing")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func respond(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return RespondWithAppError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer func() { _ = resp.Body.Close() }()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestRespondWithAppError(t *testing.T) {
	status, body := respond(t, NewNotFoundError("Friend request not found"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, ErrorResponse{Message: "Friend request not found", Code: CodeNotFound}, body)

	// The cause of a server error is never sent to the client.
	status, body = respond(t, NewInternalError(errors.New("pq: password authentication failed")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrorResponse{Message: "Server error", Code: CodeInternal}, body)

	status, body = respond(t, errors.New("raw driver error"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Server error", body.Message)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRespondWithError_LogsServerErrors(t *testing.T) {
	var buf bytes.Buffer
	prev := middleware.Logger
	middleware.Logger = middleware.NewLogger(middleware.LogOptions{Env: "production"}, &buf)
	t.Cleanup(func() { middleware.Logger = prev })

	respond(t, NewNotFoundError("Friend request not found"))
	assert.Zero(t, buf.Len(), "client errors are not logged")

	respond(t, NewInternalError(errors.New("sql: database is closed")))
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "sql: database is closed")
}
