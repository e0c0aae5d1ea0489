package service

import (
	"context"
	"time"

	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ISettlementTracker guards "credited at most once" for purchases.
type ISettlementTracker interface {
	// MarkSettled reports true only for the single caller that moved the
	// transaction from unsettled to settled.
	MarkSettled(ctx context.Context, uow unitofwork.UnitOfWork, transactionId uuid.UUID) (bool, error)
}

type settlementTracker struct {
	now func() time.Time
}

func NewSettlementTracker() ISettlementTracker {
	return &settlementTracker{now: time.Now}
}

func (t *settlementTracker) MarkSettled(ctx context.Context, uow unitofwork.UnitOfWork, transactionId uuid.UUID) (bool, error) {
	return uow.PaymentTransactionRepository().MarkSettled(ctx, transactionId, t.now().UTC())
}
