package implementation

import (
	"context"
	"errors"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/mapper"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageGenerationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ImageGenerationMapper
}

func NewImageGenerationRepository(db *gorm.DB) contract.ImageGenerationRepository {
	return &ImageGenerationRepositoryImpl{
		db:     db,
		mapper: mapper.NewImageGenerationMapper(),
	}
}

func (r *ImageGenerationRepositoryImpl) Create(ctx context.Context, gen *entity.ImageGeneration) error {
	m := r.mapper.ToModel(gen)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*gen = *r.mapper.ToEntity(m)
	return nil
}

func (r *ImageGenerationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImageGeneration, error) {
	var m model.ImageGeneration
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ImageGenerationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImageGeneration, error) {
	var ms []*model.ImageGeneration
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(ms), nil
}

func (r *ImageGenerationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.ImageGeneration{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ImageGenerationRepositoryImpl) DeleteOwned(ctx context.Context, id, userId uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userId).Delete(&model.ImageGeneration{})
	return res.RowsAffected > 0, res.Error
}

func (r *ImageGenerationRepositoryImpl) UpdateVisibility(ctx context.Context, id, userId uuid.UUID, visibility entity.Visibility) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.ImageGeneration{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("visibility", string(visibility))
	return res.RowsAffected > 0, res.Error
}
