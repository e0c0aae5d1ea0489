package imagegen

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
)

// PlaceholderProvider renders a flat-colour PNG derived from the prompt.
// It is meant for local development without provider credentials.
type PlaceholderProvider struct{}

func NewPlaceholderProvider() *PlaceholderProvider {
	return &PlaceholderProvider{}
}

func (p *PlaceholderProvider) Generate(ctx context.Context, req Request) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrUnavailable
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(req.Prompt))
	sum := h.Sum32()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	c := color.RGBA{R: uint8(sum), G: uint8(sum >> 8), B: uint8(sum >> 16), A: 255}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return &Image{Data: buf.Bytes(), ContentType: "image/png"}, nil
}
