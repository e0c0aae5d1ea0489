package memory

import (
	"context"
	"testing"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebitIsConditional(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := s.NewUnitOfWork(ctx).UserRepository()

	user := &entity.User{Email: "a@example.com", FullName: "A", CreditBalance: 99}
	require.NoError(t, users.Create(ctx, user))
	assert.Equal(t, 0, user.CreditBalance, "new accounts start at zero")

	_, err := users.DebitBalance(ctx, user.Id, 1)
	assert.ErrorIs(t, err, entity.ErrInsufficientBalance)
	_, err = users.DebitBalance(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	balance, err := users.CreditBalance(ctx, user.Id, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, balance)
	balance, err = users.DebitBalance(ctx, user.Id, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	assert.ErrorIs(t, users.Create(ctx, &entity.User{Email: "a@example.com"}), entity.ErrEmailTaken)
}

func TestRollbackUndoesInReverse(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	user := &entity.User{Email: "a@example.com", FullName: "A"}
	require.NoError(t, s.NewUnitOfWork(ctx).UserRepository().Create(ctx, user))

	uow := s.NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	_, err := uow.UserRepository().CreditBalance(ctx, user.Id, 10)
	require.NoError(t, err)
	_, err = uow.UserRepository().DebitBalance(ctx, user.Id, 4)
	require.NoError(t, err)
	require.NoError(t, uow.CreditLedgerRepository().Append(ctx, &entity.CreditLedgerEntry{
		UserId: user.Id, Kind: entity.CreditEntryGrant, Amount: 10, BalanceAfter: 10,
	}))
	require.NoError(t, uow.Rollback())

	balance, err := s.NewUnitOfWork(ctx).UserRepository().GetBalance(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)

	entries, err := s.NewUnitOfWork(ctx).CreditLedgerRepository().FindAll(ctx, specification.UserOwnedBy{UserID: user.Id})
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, uow.Commit())
}

func TestListingOrderAndPaging(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	userId := uuid.New()
	repo := s.NewUnitOfWork(ctx).ImageGenerationRepository()

	same := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		gen := &entity.ImageGeneration{UserId: userId, Prompt: "p", CreatedAt: same}
		require.NoError(t, repo.Create(ctx, gen))
		ids = append(ids, gen.Id)
	}

	page, err := repo.FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NewestFirst(),
		specification.Pagination{Limit: 2, Offset: 1},
	)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[3], page[0].Id)
	assert.Equal(t, ids[2], page[1].Id)
	assert.Equal(t, entity.VisibilityPrivate, page[0].Visibility)

	n, err := repo.Count(ctx, specification.UserOwnedBy{UserID: userId}, specification.Pagination{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}
