package implementation

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/mapper"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"

	"gorm.io/gorm"
)

type CreditLedgerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CreditLedgerMapper
}

func NewCreditLedgerRepository(db *gorm.DB) contract.CreditLedgerRepository {
	return &CreditLedgerRepositoryImpl{
		db:     db,
		mapper: mapper.NewCreditLedgerMapper(),
	}
}

func (r *CreditLedgerRepositoryImpl) Append(ctx context.Context, entry *entity.CreditLedgerEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *CreditLedgerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditLedgerEntry, error) {
	var ms []*model.CreditLedgerEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(ms), nil
}
