// FILE: internal/entity/image_generation_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ImageGeneration is one billed unit of work.
type ImageGeneration struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	Prompt      string
	Style       ImageStyle
	AspectRatio AspectRatio
	ImageRef    string
	Visibility  Visibility
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Populated on public listings only.
	AuthorName string
}
