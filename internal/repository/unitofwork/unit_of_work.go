package unitofwork

import (
	"context"

	"ai-imagegen-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PaymentTransactionRepository() contract.PaymentTransactionRepository
	ImageGenerationRepository() contract.ImageGenerationRepository
	CreditLedgerRepository() contract.CreditLedgerRepository
}
