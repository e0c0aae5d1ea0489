// FILE: internal/entity/style_entity.go
package entity

import "fmt"

type ImageStyle string

const (
	StyleRealistic ImageStyle = "realistic"
	StyleAnime     ImageStyle = "anime"
	StylePainting  ImageStyle = "painting"
	Style3D        ImageStyle = "3d"
)

// Modifier returns the text folded into the provider prompt for the style.
func (s ImageStyle) Modifier() string {
	switch s {
	case StyleAnime:
		return "anime style, vibrant colors, detailed illustration"
	case StylePainting:
		return "oil painting style, artistic, textured brushstrokes"
	case Style3D:
		return "3D render, photorealistic lighting, octane render"
	default:
		return ""
	}
}

func (s ImageStyle) Valid() bool {
	switch s {
	case StyleRealistic, StyleAnime, StylePainting, Style3D:
		return true
	}
	return false
}

// ParseImageStyle maps an empty value to the realistic default.
func ParseImageStyle(raw string) (ImageStyle, error) {
	if raw == "" {
		return StyleRealistic, nil
	}
	s := ImageStyle(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown style %q", ErrValidation, raw)
	}
	return s, nil
}

// ApplyTo folds the style modifier into the prompt.
func (s ImageStyle) ApplyTo(prompt string) string {
	if m := s.Modifier(); m != "" {
		return prompt + ", " + m
	}
	return prompt
}

type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

func ParseAspectRatio(raw string) (AspectRatio, error) {
	switch AspectRatio(raw) {
	case "":
		return AspectSquare, nil
	case AspectSquare, AspectLandscape, AspectPortrait:
		return AspectRatio(raw), nil
	}
	return "", fmt.Errorf("%w: unknown aspect ratio %q", ErrValidation, raw)
}
