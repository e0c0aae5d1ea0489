package contract

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Balance primitives. Each is a single conditional statement against the
	// row; none of them reads the balance before writing it.
	GetBalance(ctx context.Context, id uuid.UUID) (int, error)
	DebitBalance(ctx context.Context, id uuid.UUID, amount int) (int, error)
	CreditBalance(ctx context.Context, id uuid.UUID, amount int) (int, error)
}
