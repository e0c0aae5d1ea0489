package clipdrop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"ai-imagegen-be/pkg/imagegen"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://clipdrop-api.co"

type ClipDropProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

type Option func(*ClipDropProvider)

func WithBaseURL(url string) Option {
	return func(p *ClipDropProvider) {
		p.baseURL = url
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *ClipDropProvider) {
		p.client = c
	}
}

// WithRateLimit caps outbound requests per second; the provider bills per call.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(p *ClipDropProvider) {
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func NewClipDropProvider(apiKey string, timeout time.Duration, opts ...Option) *ClipDropProvider {
	p := &ClipDropProvider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *ClipDropProvider) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Image, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", imagegen.ErrUnavailable, err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("prompt", req.Prompt); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-image/v1", p.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imagegen.ErrUnavailable, redactTransport(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", imagegen.ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", imagegen.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d", imagegen.ErrRateLimited, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", imagegen.ErrUnavailable, resp.StatusCode, truncate(data, 200))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &imagegen.Image{Data: data, ContentType: contentType}, nil
}

// redactTransport keeps timeouts recognisable without echoing the request.
func redactTransport(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
