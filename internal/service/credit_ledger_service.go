package service

import (
	"context"
	"fmt"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/metrics"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// LedgerMemo describes why a balance moved; it becomes the audit row.
type LedgerMemo struct {
	Kind        entity.CreditEntryKind
	ReferenceId *uuid.UUID
	Notes       string
}

// ICreditLedger is the only writer of account balances. The *Tx variants run
// inside a unit of work the caller has already begun.
type ICreditLedger interface {
	GetBalance(ctx context.Context, userId uuid.UUID) (int, error)
	Debit(ctx context.Context, userId uuid.UUID, amount int, memo LedgerMemo) (int, error)
	Credit(ctx context.Context, userId uuid.UUID, amount int, memo LedgerMemo) (int, error)
	DebitTx(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, memo LedgerMemo) (int, error)
	CreditTx(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, memo LedgerMemo) (int, error)
}

type creditLedger struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	metrics    *metrics.Metrics
}

func NewCreditLedger(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger, m *metrics.Metrics) ICreditLedger {
	return &creditLedger{
		uowFactory: uowFactory,
		logger:     logger,
		metrics:    m,
	}
}

func (l *creditLedger) GetBalance(ctx context.Context, userId uuid.UUID) (int, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().GetBalance(ctx, userId)
}

func (l *creditLedger) Debit(ctx context.Context, userId uuid.UUID, amount int, memo LedgerMemo) (int, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	return l.inTransaction(ctx, func(uow unitofwork.UnitOfWork) (int, error) {
		return l.DebitTx(ctx, uow, userId, amount, memo)
	})
}

func (l *creditLedger) Credit(ctx context.Context, userId uuid.UUID, amount int, memo LedgerMemo) (int, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	return l.inTransaction(ctx, func(uow unitofwork.UnitOfWork) (int, error) {
		return l.CreditTx(ctx, uow, userId, amount, memo)
	})
}

func (l *creditLedger) DebitTx(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, memo LedgerMemo) (int, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	if memo.Kind == "" {
		memo.Kind = entity.CreditEntryDebit
	}

	balance, err := uow.UserRepository().DebitBalance(ctx, userId, amount)
	if err != nil {
		return 0, err
	}
	if err := l.record(ctx, uow, userId, -amount, balance, memo); err != nil {
		return 0, err
	}

	l.metrics.CreditsDebited.Add(float64(amount))
	return balance, nil
}

func (l *creditLedger) CreditTx(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount int, memo LedgerMemo) (int, error) {
	if err := checkAmount(amount); err != nil {
		return 0, err
	}
	if memo.Kind == "" || memo.Kind == entity.CreditEntryDebit {
		return 0, fmt.Errorf("%w: credit requires a credit kind", entity.ErrValidation)
	}

	balance, err := uow.UserRepository().CreditBalance(ctx, userId, amount)
	if err != nil {
		return 0, err
	}
	if err := l.record(ctx, uow, userId, amount, balance, memo); err != nil {
		return 0, err
	}

	l.metrics.CreditsCredited.WithLabelValues(string(memo.Kind)).Add(float64(amount))
	return balance, nil
}

func (l *creditLedger) record(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, amount, balance int, memo LedgerMemo) error {
	entry := &entity.CreditLedgerEntry{
		UserId:       userId,
		Kind:         memo.Kind,
		Amount:       amount,
		BalanceAfter: balance,
		ReferenceId:  memo.ReferenceId,
	}
	if memo.Notes != "" {
		notes := memo.Notes
		entry.Notes = &notes
	}
	if err := uow.CreditLedgerRepository().Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

func (l *creditLedger) inTransaction(ctx context.Context, fn func(uow unitofwork.UnitOfWork) (int, error)) (int, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer uow.Rollback()

	balance, err := fn(uow)
	if err != nil {
		return 0, err
	}
	if err := uow.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

func checkAmount(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %d", entity.ErrValidation, amount)
	}
	return nil
}
