package imagegen

import (
	"context"
	"errors"
)

// Provider failures. Adapters wrap these with %w and must not include
// credentials in the wrapped message.
var (
	ErrUnauthorized = errors.New("provider rejected credentials")
	ErrRateLimited  = errors.New("provider rate limit exceeded")
	ErrUnavailable  = errors.New("provider unavailable")
)

// Request carries the final prompt; the style modifier is already folded in.
type Request struct {
	Prompt      string
	AspectRatio string
}

// Image is the raw provider output.
type Image struct {
	Data        []byte
	ContentType string
}

// Provider defines the contract for any text-to-image backend.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Image, error)
}
