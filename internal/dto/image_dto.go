package dto

import (
	"time"

	"github.com/google/uuid"
)

type GenerateImageRequest struct {
	Prompt      string `json:"prompt"`
	Style       string `json:"style"`
	AspectRatio string `json:"aspectRatio"`
}

type GenerateImageResponse struct {
	ImageId  uuid.UUID `json:"image_id"`
	ImageURL string    `json:"resultImage"`
	Credits  int       `json:"creditBalance"`
}

type ImageResponse struct {
	Id          uuid.UUID `json:"id"`
	Prompt      string    `json:"prompt"`
	Style       string    `json:"style"`
	AspectRatio string    `json:"aspect_ratio"`
	ImageURL    string    `json:"image_url"`
	Visibility  string    `json:"visibility"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" validate:"required,oneof=private public"`
}

type ListImagesQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ImageListResponse struct {
	Images     []*ImageResponse `json:"images"`
	Pagination PaginationMeta   `json:"pagination"`
}
