package contract

import (
	"context"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PaymentTransactionRepository interface {
	Create(ctx context.Context, tx *entity.PaymentTransaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	AttachGatewayOrder(ctx context.Context, id uuid.UUID, orderId string, payload []byte) error

	// MarkSettled flips settled from false to true. It reports false when the
	// row was already settled (or does not exist).
	MarkSettled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
