package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidationError("bad"), fiber.StatusBadRequest},
		{"not found", NewNotFoundError("Article", 3), fiber.StatusNotFound},
		{"forbidden", NewForbiddenError("no"), fiber.StatusForbidden},
		{"unauthorized", NewUnauthorizedError("who"), fiber.StatusUnauthorized},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NewNotFoundMessage("gone")), fiber.StatusNotFound},
		{"plain", errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestNewValidationErrors_JoinsMessages(t *testing.T) {
	t.Parallel()
	err := NewValidationErrors([]string{"first", "second"})
	assert.Equal(t, "first\nsecond", err.Error())
	assert.Equal(t, CodeValidation, err.Code)
	assert.Len(t, err.Messages, 2)
}

func TestRespondWithError_DoesNotLeakInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("pq: secret table")))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, errors.New("dial tcp 10.0.0.1"))
	})

	for _, path := range []string{"/internal", "/plain"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var out ErrorResponse
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, "Internal server error", out.Error)
		assert.NotContains(t, string(body), "secret")
		assert.NotContains(t, string(body), "10.0.0.1")
	}
}
