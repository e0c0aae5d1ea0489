package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/metrics"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/internal/tracer"
	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/imagegen"
	"ai-imagegen-be/pkg/storage"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	generationCost  = 1
	minPromptLength = 3
	maxPromptLength = 1000
	refundTimeout   = 10 * time.Second
)

type IGenerationService interface {
	Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error)
}

type generationService struct {
	uowFactory      unitofwork.RepositoryFactory
	ledger          ICreditLedger
	provider        imagegen.Provider
	store           storage.ImageStore
	publisher       events.Publisher
	logger          logger.ILogger
	metrics         *metrics.Metrics
	providerTimeout time.Duration
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	ledger ICreditLedger,
	provider imagegen.Provider,
	store storage.ImageStore,
	publisher events.Publisher,
	logger logger.ILogger,
	m *metrics.Metrics,
	providerTimeout time.Duration,
) IGenerationService {
	if providerTimeout <= 0 {
		providerTimeout = 60 * time.Second
	}
	return &generationService{
		uowFactory:      uowFactory,
		ledger:          ledger,
		provider:        provider,
		store:           store,
		publisher:       publisher,
		logger:          logger,
		metrics:         m,
		providerTimeout: providerTimeout,
	}
}

type generationInput struct {
	prompt string
	style  entity.ImageStyle
	aspect entity.AspectRatio
}

func parseGenerationInput(req *dto.GenerateImageRequest) (*generationInput, error) {
	prompt := strings.TrimSpace(req.Prompt)
	n := utf8.RuneCountInString(prompt)
	if n < minPromptLength || n > maxPromptLength {
		return nil, fmt.Errorf("%w: prompt must be between %d and %d characters", entity.ErrValidation, minPromptLength, maxPromptLength)
	}
	style, err := entity.ParseImageStyle(req.Style)
	if err != nil {
		return nil, err
	}
	aspect, err := entity.ParseAspectRatio(req.AspectRatio)
	if err != nil {
		return nil, err
	}
	return &generationInput{prompt: prompt, style: style, aspect: aspect}, nil
}

// Generate reserves one credit, calls the provider and stores the result.
// Any failure after the reservation refunds the credit before returning.
func (s *generationService) Generate(ctx context.Context, userId uuid.UUID, req *dto.GenerateImageRequest) (*dto.GenerateImageResponse, error) {
	in, err := parseGenerationInput(req)
	if err != nil {
		s.metrics.Generations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	genId := uuid.New()
	balance, err := s.ledger.Debit(ctx, userId, generationCost, LedgerMemo{
		Kind:        entity.CreditEntryDebit,
		ReferenceId: &genId,
	})
	if err != nil {
		s.metrics.Generations.WithLabelValues("rejected").Inc()
		return nil, err
	}

	gen, err := s.produce(ctx, userId, genId, in)
	if err != nil {
		s.metrics.Generations.WithLabelValues(outcomeLabel(err)).Inc()
		s.refund(ctx, userId, genId, err)
		return nil, err
	}

	s.metrics.Generations.WithLabelValues("success").Inc()
	s.publish(ctx, events.New(events.TypeImageGenerated, map[string]interface{}{
		"user_id":       userId.String(),
		"generation_id": genId.String(),
		"style":         string(in.style),
		"balance":       balance,
	}))

	return &dto.GenerateImageResponse{
		ImageId:  gen.Id,
		ImageURL: gen.ImageRef,
		Credits:  balance,
	}, nil
}

// produce runs every step after the reservation. A panic is turned into
// ErrInternal so the caller still refunds.
func (s *generationService) produce(ctx context.Context, userId, genId uuid.UUID, in *generationInput) (gen *entity.ImageGeneration, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("GenerationService", "Panic during generation", map[string]interface{}{
				"user_id":       userId.String(),
				"generation_id": genId.String(),
				"panic":         fmt.Sprint(r),
			})
			gen, err = nil, fmt.Errorf("%w: generation aborted", entity.ErrInternal)
		}
	}()

	img, err := s.callProvider(ctx, userId, in)
	if err != nil {
		return nil, err
	}

	ref, err := s.store.Save(ctx, genId.String(), img.Data, img.ContentType)
	if err != nil {
		s.logger.Error("GenerationService", "Failed to store image", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil, fmt.Errorf("%w: storing image", entity.ErrInternal)
	}

	gen = &entity.ImageGeneration{
		Id:          genId,
		UserId:      userId,
		Prompt:      in.prompt,
		Style:       in.style,
		AspectRatio: in.aspect,
		ImageRef:    ref,
		Visibility:  entity.VisibilityPrivate,
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ImageGenerationRepository().Create(ctx, gen); err != nil {
		s.logger.Error("GenerationService", "Failed to persist generation record", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		if derr := s.store.Delete(context.WithoutCancel(ctx), ref); derr != nil {
			s.logger.Warn("GenerationService", "Failed to remove orphaned image", map[string]interface{}{
				"ref":   ref,
				"error": derr.Error(),
			})
		}
		return nil, fmt.Errorf("%w: saving generation", entity.ErrInternal)
	}

	return gen, nil
}

func (s *generationService) callProvider(ctx context.Context, userId uuid.UUID, in *generationInput) (*imagegen.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	ctx, span := tracer.Tracer().Start(ctx, "imagegen.provider.generate")
	span.SetAttributes(
		attribute.String("image.style", string(in.style)),
		attribute.String("image.aspect_ratio", string(in.aspect)),
	)
	defer span.End()

	start := time.Now()
	img, err := s.provider.Generate(ctx, imagegen.Request{
		Prompt:      in.style.ApplyTo(in.prompt),
		AspectRatio: string(in.aspect),
	})
	s.metrics.ProviderLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		s.logger.Warn("GenerationService", "Provider call failed", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return nil, mapProviderError(err)
	}
	if img == nil || len(img.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", entity.ErrProviderUnavailable)
	}
	return img, nil
}

func mapProviderError(err error) error {
	switch {
	case errors.Is(err, imagegen.ErrUnauthorized):
		return entity.ErrProviderUnauthorized
	case errors.Is(err, imagegen.ErrRateLimited):
		return entity.ErrProviderRateLimited
	default:
		return entity.ErrProviderUnavailable
	}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, entity.ErrProviderUnauthorized):
		return "provider_unauthorized"
	case errors.Is(err, entity.ErrProviderRateLimited):
		return "provider_rate_limited"
	case errors.Is(err, entity.ErrProviderUnavailable):
		return "provider_unavailable"
	default:
		return "internal_error"
	}
}

// refund returns the reserved credit. It must run even when the request
// context is already done.
func (s *generationService) refund(ctx context.Context, userId, genId uuid.UUID, cause error) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refundTimeout)
	defer cancel()

	balance, err := s.ledger.Credit(rctx, userId, generationCost, LedgerMemo{
		Kind:        entity.CreditEntryRefund,
		ReferenceId: &genId,
		Notes:       outcomeLabel(cause),
	})
	if err != nil {
		s.metrics.Refunds.WithLabelValues("failed").Inc()
		s.logger.Error("GenerationService", "Refund failed, manual reconciliation required", map[string]interface{}{
			"user_id":       userId.String(),
			"generation_id": genId.String(),
			"amount":        generationCost,
			"error":         err.Error(),
		})
		return
	}

	s.metrics.Refunds.WithLabelValues("ok").Inc()
	s.publish(rctx, events.New(events.TypeGenerationRefund, map[string]interface{}{
		"user_id":       userId.String(),
		"generation_id": genId.String(),
		"balance":       balance,
		"reason":        outcomeLabel(cause),
	}))
}

func (s *generationService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("GenerationService", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
