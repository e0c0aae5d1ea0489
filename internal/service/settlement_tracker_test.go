package service

import (
	"context"
	"testing"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSettledOnce(t *testing.T) {
	f := newFixture(t)
	userId := f.seedUser(t, "a@example.com", 0)
	ctx := context.Background()

	tx := &entity.PaymentTransaction{UserId: userId, PlanId: "Basic", AmountCharged: 1000, Currency: "INR", CreditsGranted: 100}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).PaymentTransactionRepository().Create(ctx, tx))

	tracker := NewSettlementTracker()
	uow := f.factory.NewUnitOfWork(ctx)

	ok, err := tracker.MarkSettled(ctx, uow, tx.Id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tracker.MarkSettled(ctx, uow, tx.Id)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tracker.MarkSettled(ctx, uow, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := uow.PaymentTransactionRepository().FindOne(ctx, specification.ByID{ID: tx.Id})
	require.NoError(t, err)
	assert.True(t, stored.Settled)
	assert.NotNil(t, stored.SettledAt)
}

func TestMarkSettledRollsBack(t *testing.T) {
	f := newFixture(t)
	userId := f.seedUser(t, "a@example.com", 0)
	ctx := context.Background()

	tx := &entity.PaymentTransaction{UserId: userId, PlanId: "Basic", AmountCharged: 1000, Currency: "INR", CreditsGranted: 100}
	require.NoError(t, f.factory.NewUnitOfWork(ctx).PaymentTransactionRepository().Create(ctx, tx))

	uow := f.factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	ok, err := NewSettlementTracker().MarkSettled(ctx, uow, tx.Id)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, uow.Rollback())

	stored, err := f.factory.NewUnitOfWork(ctx).PaymentTransactionRepository().FindOne(ctx, specification.ByID{ID: tx.Id})
	require.NoError(t, err)
	assert.False(t, stored.Settled)
}
