package service

import (
	"context"
	"sync"
	"testing"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditLedgerDebitAndCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := f.seedUser(t, "a@example.com", 5)

	balance, err := f.ledger.Debit(ctx, userId, 2, LedgerMemo{})
	require.NoError(t, err)
	assert.Equal(t, 3, balance)

	balance, err = f.ledger.Credit(ctx, userId, 10, LedgerMemo{Kind: entity.CreditEntryPurchase})
	require.NoError(t, err)
	assert.Equal(t, 13, balance)

	entries, err := f.factory.NewUnitOfWork(ctx).CreditLedgerRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at"},
	)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.CreditEntryGrant, entries[0].Kind)
	assert.Equal(t, -2, entries[1].Amount)
	assert.Equal(t, 3, entries[1].BalanceAfter)
	assert.Equal(t, entity.CreditEntryPurchase, entries[2].Kind)
	assert.Equal(t, 13, entries[2].BalanceAfter)
}

func TestCreditLedgerDebitInsufficient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := f.seedUser(t, "a@example.com", 1)

	_, err := f.ledger.Debit(ctx, userId, 2, LedgerMemo{})
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)
	assert.Equal(t, 1, f.balance(t, userId))

	entries, err := f.factory.NewUnitOfWork(ctx).CreditLedgerRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the seed grant")
}

func TestCreditLedgerUnknownAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Debit(ctx, uuid.New(), 1, LedgerMemo{})
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = f.ledger.GetBalance(ctx, uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCreditLedgerRejectsNonPositiveAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := f.seedUser(t, "a@example.com", 5)

	for _, amount := range []int{0, -1} {
		_, err := f.ledger.Debit(ctx, userId, amount, LedgerMemo{})
		assert.ErrorIs(t, err, entity.ErrValidation)
		_, err = f.ledger.Credit(ctx, userId, amount, LedgerMemo{Kind: entity.CreditEntryGrant})
		assert.ErrorIs(t, err, entity.ErrValidation)
	}
	assert.Equal(t, 5, f.balance(t, userId))
}

func TestCreditLedgerCreditRequiresCreditKind(t *testing.T) {
	f := newFixture(t)
	userId := f.seedUser(t, "a@example.com", 0)

	_, err := f.ledger.Credit(context.Background(), userId, 1, LedgerMemo{Kind: entity.CreditEntryDebit})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestCreditLedgerConcurrentDebitsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const start, workers = 50, 120
	userId := f.seedUser(t, "a@example.com", start)

	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.Debit(ctx, userId, 1, LedgerMemo{})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, entity.ErrInsufficientBalance) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, start, ok)
	assert.Equal(t, workers-start, rejected)
	assert.Equal(t, 0, f.balance(t, userId))
}

func TestCreditLedgerTxRollsBackWithUnitOfWork(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userId := f.seedUser(t, "a@example.com", 3)

	uow := f.factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	balance, err := f.ledger.CreditTx(ctx, uow, userId, 7, LedgerMemo{Kind: entity.CreditEntryPurchase})
	require.NoError(t, err)
	assert.Equal(t, 10, balance)
	require.NoError(t, uow.Rollback())

	assert.Equal(t, 3, f.balance(t, userId))
}
