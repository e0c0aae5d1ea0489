package contract

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ImageGenerationRepository interface {
	Create(ctx context.Context, gen *entity.ImageGeneration) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImageGeneration, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImageGeneration, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteOwned(ctx context.Context, id, userId uuid.UUID) (bool, error)
	UpdateVisibility(ctx context.Context, id, userId uuid.UUID, visibility entity.Visibility) (bool, error)
}
