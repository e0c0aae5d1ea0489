package serverutils

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: prompt too short", entity.ErrValidation), 400, "validation failed: prompt too short"},
		{fmt.Errorf("debit: %w", entity.ErrInsufficientBalance), 402, "insufficient credits"},
		{entity.ErrInvalidPlan, 400, "invalid plan"},
		{entity.ErrPaymentNotCompleted, 400, "payment not completed"},
		{entity.ErrProviderUnauthorized, 503, "image generation service unavailable"},
		{entity.ErrProviderRateLimited, 429, "image generation rate limit exceeded"},
		{fmt.Errorf("%w: status 500: upstream said sk-123", entity.ErrProviderUnavailable), 502, "failed to generate image"},
		{entity.ErrNotFound, 404, "resource not found"},
		{errors.New("pq: connection refused"), 500, "internal server error"},
		{fiber.ErrMethodNotAllowed, 405, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestJwtMiddleware(t *testing.T) {
	secret := "test-secret"
	userId := uuid.New()
	token, err := GenerateToken(secret, userId, time.Hour)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.NewNopLogger())})
	app.Get("/me", NewJwtMiddleware(secret), func(ctx *fiber.Ctx) error {
		id, err := GetUserId(ctx)
		if err != nil {
			return err
		}
		return ctx.SendString(id.String())
	})

	call := func(header, value string) (int, string) {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set(header, value)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	status, body := call("Authorization", "Bearer "+token)
	assert.Equal(t, 200, status)
	assert.Equal(t, userId.String(), body)

	status, body = call("token", token)
	assert.Equal(t, 200, status)
	assert.Equal(t, userId.String(), body)

	status, _ = call("", "")
	assert.Equal(t, 401, status)

	other, _ := GenerateToken("other-secret", userId, time.Hour)
	status, _ = call("Authorization", "Bearer "+other)
	assert.Equal(t, 401, status)

	expired, _ := GenerateToken(secret, userId, -time.Minute)
	status, _ = call("Authorization", "Bearer "+expired)
	assert.Equal(t, 401, status)
}

type signupProbe struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidateRequest(t *testing.T) {
	err := ValidateRequest(signupProbe{Email: "nope", Password: "short"})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrValidation)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	assert.NoError(t, ValidateRequest(signupProbe{Email: "a@b.co", Password: "longenough"}))
}
