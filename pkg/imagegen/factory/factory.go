package factory

import (
	"fmt"
	"time"

	"ai-imagegen-be/pkg/imagegen"
	"ai-imagegen-be/pkg/imagegen/clipdrop"
)

type Config struct {
	Provider     string
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	MaxPerSecond float64
	Burst        int
}

func NewProvider(cfg Config) (imagegen.Provider, error) {
	switch cfg.Provider {
	case "clipdrop":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("clipdrop provider requires an API key")
		}
		opts := []clipdrop.Option{}
		if cfg.BaseURL != "" {
			opts = append(opts, clipdrop.WithBaseURL(cfg.BaseURL))
		}
		if cfg.MaxPerSecond > 0 {
			opts = append(opts, clipdrop.WithRateLimit(cfg.MaxPerSecond, cfg.Burst))
		}
		return clipdrop.NewClipDropProvider(cfg.APIKey, cfg.Timeout, opts...), nil
	case "placeholder":
		return imagegen.NewPlaceholderProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported image provider: %s", cfg.Provider)
	}
}
