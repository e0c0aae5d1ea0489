package implementation

import (
	"context"
	"errors"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/mapper"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentTransactionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaymentTransactionMapper
}

func NewPaymentTransactionRepository(db *gorm.DB) contract.PaymentTransactionRepository {
	return &PaymentTransactionRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaymentTransactionMapper(),
	}
}

func (r *PaymentTransactionRepositoryImpl) Create(ctx context.Context, tx *entity.PaymentTransaction) error {
	m := r.mapper.ToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*tx = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaymentTransactionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error) {
	var m model.PaymentTransaction
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaymentTransactionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error) {
	var ms []*model.PaymentTransaction
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(ms), nil
}

func (r *PaymentTransactionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.PaymentTransaction{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PaymentTransactionRepositoryImpl) AttachGatewayOrder(ctx context.Context, id uuid.UUID, orderId string, payload []byte) error {
	updates := map[string]interface{}{
		"gateway_order_id": orderId,
	}
	if len(payload) > 0 {
		updates["gateway_payload"] = datatypes.JSON(payload)
	}
	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// MarkSettled is a compare-and-set on the settled column:
// UPDATE ... SET settled = true WHERE id = ? AND settled = false.
func (r *PaymentTransactionRepositoryImpl) MarkSettled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("id = ? AND settled = ?", id, false).
		Updates(map[string]interface{}{
			"settled":    true,
			"settled_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
