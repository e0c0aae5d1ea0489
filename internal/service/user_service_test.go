package service

import (
	"context"
	"testing"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCredits(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.factory, f.ledger, &events.Recorder{}, f.logger)
	userId := f.seedUser(t, "a@example.com", 7)

	res, err := svc.GetCredits(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Credits)
	assert.Equal(t, "a@example.com", res.User.Email)
	assert.Equal(t, "Test a@example.com", res.User.FullName)

	_, err = svc.GetCredits(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestGetTransactionsSettledOnly(t *testing.T) {
	h := newPaymentHarness(t)
	svc := NewUserService(h.factory, h.ledger, &events.Recorder{}, h.logger)
	userId := h.seedUser(t, "a@example.com", 0)
	other := h.seedUser(t, "b@example.com", 0)

	basic := h.order(t, userId, "Basic")
	h.order(t, userId, "Advanced") // never paid
	business := h.order(t, userId, "Business")
	foreign := h.order(t, other, "Basic")

	for _, o := range []*dto.OrderResponse{basic, business, foreign} {
		h.gateway.setState(o.OrderId, payment.OrderPaid)
		_, err := h.svc.VerifyAndSettle(context.Background(), o.OrderId, nil)
		require.NoError(t, err)
	}

	txs, err := svc.GetTransactions(context.Background(), userId)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, business.TransactionId, txs[0].Id)
	assert.Equal(t, basic.TransactionId, txs[1].Id)
	assert.Equal(t, "250.00", txs[0].Amount)
	assert.True(t, txs[0].Settled)
	assert.NotNil(t, txs[0].SettledAt)

	stats, err := svc.GetStats(context.Background(), userId)
	require.NoError(t, err)
	assert.Equal(t, 5100, stats.Credits)
	assert.Equal(t, int64(2), stats.TotalPurchases)
	assert.Equal(t, int64(0), stats.ImagesGenerated)
}

func TestGrantCreditsWritesLedger(t *testing.T) {
	f := newFixture(t)
	rec := &events.Recorder{}
	svc := NewUserService(f.factory, f.ledger, rec, f.logger)
	userId := f.seedUser(t, "a@example.com", 0)

	balance, err := svc.GrantCredits(context.Background(), userId, 25, "support goodwill")
	require.NoError(t, err)
	assert.Equal(t, 25, balance)
	assert.Equal(t, []string{events.TypeCreditsGranted}, rec.Types())

	_, err = svc.GrantCredits(context.Background(), userId, 0, "")
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = svc.GrantCredits(context.Background(), uuid.New(), 5, "")
	assert.ErrorIs(t, err, entity.ErrNotFound)

	entries, err := svc.GetLedger(context.Background(), userId, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "grant", entries[0].Kind)
	assert.Equal(t, 25, entries[0].Amount)
	assert.Equal(t, 25, entries[0].BalanceAfter)
	require.NotNil(t, entries[0].Notes)
	assert.Equal(t, "support goodwill", *entries[0].Notes)
}
