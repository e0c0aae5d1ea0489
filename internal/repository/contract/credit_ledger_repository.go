package contract

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"
)

type CreditLedgerRepository interface {
	Append(ctx context.Context, entry *entity.CreditLedgerEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditLedgerEntry, error)
}
