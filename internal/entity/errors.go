// FILE: internal/entity/errors.go
package entity

import "errors"

// Domain errors are matched with errors.Is by the HTTP layer; wrap them with %w.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("resource not found")
	ErrInternal            = errors.New("internal error")
	ErrInsufficientBalance = errors.New("insufficient credits")

	ErrInvalidPlan         = errors.New("invalid plan")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrAlreadySettled      = errors.New("transaction already settled")

	// Provider errors never carry the provider response body.
	ErrProviderUnauthorized = errors.New("image generation service unavailable")
	ErrProviderRateLimited  = errors.New("image generation rate limit exceeded")
	ErrProviderUnavailable  = errors.New("failed to generate image")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSignature   = errors.New("invalid signature")
)
