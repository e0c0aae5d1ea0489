package service

import (
	"context"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/pkg/storage"

	"github.com/google/uuid"
)

const (
	historyDefaultLimit = 12
	exploreDefaultLimit = 20
	listMaxLimit        = 50
)

type IImageService interface {
	History(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ImageListResponse, error)
	Get(ctx context.Context, userId, imageId uuid.UUID) (*dto.ImageResponse, error)
	Delete(ctx context.Context, userId, imageId uuid.UUID) error
	SetVisibility(ctx context.Context, userId, imageId uuid.UUID, req *dto.UpdateVisibilityRequest) (*dto.ImageResponse, error)
	Explore(ctx context.Context, page, limit int) (*dto.ImageListResponse, error)
}

type imageService struct {
	uowFactory unitofwork.RepositoryFactory
	store      storage.ImageStore
	logger     logger.ILogger
}

func NewImageService(uowFactory unitofwork.RepositoryFactory, store storage.ImageStore, logger logger.ILogger) IImageService {
	return &imageService{
		uowFactory: uowFactory,
		store:      store,
		logger:     logger,
	}
}

func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > listMaxLimit {
		limit = listMaxLimit
	}
	return page, limit
}

// list counts with filters only; extra specs such as preloads apply to the page query.
func (s *imageService) list(ctx context.Context, page, limit int, filters []specification.Specification, extra ...specification.Specification) (*dto.ImageListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ImageGenerationRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append([]specification.Specification{}, filters...)
	specs = append(specs, extra...)
	specs = append(specs,
		specification.NewestFirst(),
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	gens, err := uow.ImageGenerationRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	images := make([]*dto.ImageResponse, 0, len(gens))
	for _, g := range gens {
		images = append(images, toImageResponse(g))
	}

	return &dto.ImageListResponse{
		Images: images,
		Pagination: dto.PaginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

func (s *imageService) History(ctx context.Context, userId uuid.UUID, page, limit int) (*dto.ImageListResponse, error) {
	page, limit = normalizePage(page, limit, historyDefaultLimit)
	return s.list(ctx, page, limit, []specification.Specification{specification.UserOwnedBy{UserID: userId}})
}

func (s *imageService) Explore(ctx context.Context, page, limit int) (*dto.ImageListResponse, error) {
	page, limit = normalizePage(page, limit, exploreDefaultLimit)
	return s.list(ctx, page, limit, []specification.Specification{specification.PublicOnly{}}, specification.WithAuthor{})
}

func (s *imageService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId, imageId uuid.UUID) (*entity.ImageGeneration, error) {
	gen, err := uow.ImageGenerationRepository().FindOne(ctx,
		specification.ByID{ID: imageId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, entity.ErrNotFound
	}
	return gen, nil
}

func (s *imageService) Get(ctx context.Context, userId, imageId uuid.UUID) (*dto.ImageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	gen, err := s.findOwned(ctx, uow, userId, imageId)
	if err != nil {
		return nil, err
	}
	return toImageResponse(gen), nil
}

func (s *imageService) Delete(ctx context.Context, userId, imageId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	gen, err := s.findOwned(ctx, uow, userId, imageId)
	if err != nil {
		return err
	}

	deleted, err := uow.ImageGenerationRepository().DeleteOwned(ctx, imageId, userId)
	if err != nil {
		return err
	}
	if !deleted {
		return entity.ErrNotFound
	}

	if err := s.store.Delete(ctx, gen.ImageRef); err != nil {
		s.logger.Warn("ImageService", "Failed to remove image file", map[string]interface{}{
			"image_id": imageId.String(),
			"error":    err.Error(),
		})
	}
	return nil
}

func (s *imageService) SetVisibility(ctx context.Context, userId, imageId uuid.UUID, req *dto.UpdateVisibilityRequest) (*dto.ImageResponse, error) {
	visibility := entity.Visibility(req.Visibility)
	if visibility != entity.VisibilityPrivate && visibility != entity.VisibilityPublic {
		return nil, entity.ErrValidation
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.ImageGenerationRepository().UpdateVisibility(ctx, imageId, userId, visibility)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, entity.ErrNotFound
	}

	gen, err := s.findOwned(ctx, uow, userId, imageId)
	if err != nil {
		return nil, err
	}
	return toImageResponse(gen), nil
}

func toImageResponse(g *entity.ImageGeneration) *dto.ImageResponse {
	return &dto.ImageResponse{
		Id:          g.Id,
		Prompt:      g.Prompt,
		Style:       string(g.Style),
		AspectRatio: string(g.AspectRatio),
		ImageURL:    g.ImageRef,
		Visibility:  string(g.Visibility),
		Author:      g.AuthorName,
		CreatedAt:   g.CreatedAt,
	}
}
