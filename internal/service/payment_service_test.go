package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentHarness struct {
	*fixture
	gateway  *fakeGateway
	events   *events.Recorder
	receipts *recordingQueue
	svc      IPaymentService
}

func newPaymentHarness(t *testing.T) *paymentHarness {
	f := newFixture(t)
	h := &paymentHarness{
		fixture:  f,
		gateway:  newFakeGateway(),
		events:   &events.Recorder{},
		receipts: &recordingQueue{},
	}
	h.svc = NewPaymentService(f.factory, f.ledger, NewSettlementTracker(), h.gateway, h.events, h.receipts, f.logger, f.metrics, "INR")
	return h
}

func (h *paymentHarness) order(t *testing.T, userId uuid.UUID, plan string) *dto.OrderResponse {
	t.Helper()
	res, err := h.svc.CreateOrder(context.Background(), userId, &dto.CreateOrderRequest{PlanId: plan})
	require.NoError(t, err)
	return res
}

func TestGetPlans(t *testing.T) {
	h := newPaymentHarness(t)
	plans := h.svc.GetPlans(context.Background())

	require.Len(t, plans, 3)
	assert.Equal(t, "Basic", plans[0].Id)
	assert.Equal(t, "10.00", plans[0].Price)
	assert.Equal(t, 100, plans[0].Credits)
	assert.Equal(t, "INR", plans[0].Currency)
	assert.Equal(t, "Business", plans[2].Id)
	assert.Equal(t, 5000, plans[2].Credits)
}

func TestCreateOrderInvalidPlanCreatesNothing(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)

	for _, plan := range []string{"Premium", "basic", ""} {
		_, err := h.svc.CreateOrder(context.Background(), userId, &dto.CreateOrderRequest{PlanId: plan})
		assert.ErrorIs(t, err, entity.ErrInvalidPlan)
	}

	ctx := context.Background()
	n, err := h.factory.NewUnitOfWork(ctx).PaymentTransactionRepository().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, h.gateway.requests)
}

func TestCreateOrderRecordsTransaction(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)

	res := h.order(t, userId, "Advanced")
	assert.Equal(t, int64(5000), res.Amount)
	assert.Equal(t, "INR", res.Currency)
	assert.Equal(t, 500, res.Credits)
	assert.Equal(t, "snap-token", res.Token)

	require.Len(t, h.gateway.requests, 1)
	assert.Equal(t, res.TransactionId.String(), h.gateway.requests[0].CorrelationId)
	assert.Equal(t, int64(5000), h.gateway.requests[0].AmountMinor)

	ctx := context.Background()
	tx, err := h.factory.NewUnitOfWork(ctx).PaymentTransactionRepository().FindOne(ctx, specification.ByID{ID: res.TransactionId})
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.False(t, tx.Settled)
	assert.Equal(t, res.OrderId, tx.GatewayOrderId)
	assert.Equal(t, 500, tx.CreditsGranted)
	assert.Equal(t, userId, tx.UserId)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	h := newPaymentHarness(t)
	h.gateway.createErr = payment.ErrGatewayUnavailable
	userId := h.seedUser(t, "a@example.com", 0)

	_, err := h.svc.CreateOrder(context.Background(), userId, &dto.CreateOrderRequest{PlanId: "Basic"})
	assert.ErrorIs(t, err, entity.ErrInternal)
}

func TestVerifyUnpaidOrder(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)
	order := h.order(t, userId, "Basic")

	for _, state := range []payment.OrderState{payment.OrderCreated, payment.OrderFailed} {
		h.gateway.setState(order.OrderId, state)
		_, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, &userId)
		assert.ErrorIs(t, err, entity.ErrPaymentNotCompleted)
	}
	assert.Equal(t, 0, h.balance(t, userId))
}

func TestVerifyTwiceCreditsOnce(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)
	order := h.order(t, userId, "Basic")
	h.gateway.setState(order.OrderId, payment.OrderPaid)

	first, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, &userId)
	require.NoError(t, err)
	assert.True(t, first.Credited)
	assert.Equal(t, 100, first.Credits)

	second, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, &userId)
	require.NoError(t, err)
	assert.False(t, second.Credited)
	assert.True(t, second.AlreadySettled)
	assert.Equal(t, 100, second.Credits)

	assert.Equal(t, 100, h.balance(t, userId))
	assert.Equal(t, 1, h.receipts.len())
	assert.Equal(t, []string{events.TypeOrderCreated, events.TypeCreditsPurchased}, h.events.Types())

	var receipt dto.PurchaseReceiptMessage
	require.NoError(t, json.Unmarshal(h.receipts.payloads[0], &receipt))
	assert.Equal(t, order.TransactionId, receipt.TransactionId)
	assert.Equal(t, 100, receipt.NewBalance)
}

func TestVerifyConcurrentCreditsOnce(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 3)
	order := h.order(t, userId, "Advanced")
	h.gateway.setState(order.OrderId, payment.OrderPaid)

	const n = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		credited int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, nil)
			if !assert.NoError(t, err) {
				return
			}
			if res.Credited {
				mu.Lock()
				credited++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, credited)
	assert.Equal(t, 503, h.balance(t, userId))

	ctx := context.Background()
	entries, err := h.factory.NewUnitOfWork(ctx).CreditLedgerRepository().FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	require.NoError(t, err)
	purchases := 0
	for _, e := range entries {
		if e.Kind == entity.CreditEntryPurchase {
			purchases++
		}
	}
	assert.Equal(t, 1, purchases)
}

func TestVerifyRejectsOtherAccount(t *testing.T) {
	h := newPaymentHarness(t)
	owner := h.seedUser(t, "owner@example.com", 0)
	intruder := h.seedUser(t, "intruder@example.com", 0)
	order := h.order(t, owner, "Basic")
	h.gateway.setState(order.OrderId, payment.OrderPaid)

	_, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, &intruder)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.Equal(t, 0, h.balance(t, intruder))
	assert.Equal(t, 0, h.balance(t, owner))

	res, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, &owner)
	require.NoError(t, err)
	assert.True(t, res.Credited)
}

func TestVerifyUnknownOrder(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)

	_, err := h.svc.VerifyAndSettle(context.Background(), "order-does-not-exist", &userId)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestVerifyGatewayOutage(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)
	order := h.order(t, userId, "Basic")
	h.gateway.fetchErr = payment.ErrGatewayUnavailable

	_, err := h.svc.VerifyAndSettle(context.Background(), order.OrderId, &userId)
	assert.ErrorIs(t, err, entity.ErrInternal)
	assert.Equal(t, 0, h.balance(t, userId))
}

func TestHandleNotification(t *testing.T) {
	h := newPaymentHarness(t)
	userId := h.seedUser(t, "a@example.com", 0)
	order := h.order(t, userId, "Basic")

	err := h.svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           order.OrderId,
		TransactionStatus: "settlement",
		SignatureKey:      "forged",
	})
	assert.ErrorIs(t, err, entity.ErrInvalidSignature)
	assert.Equal(t, 0, h.balance(t, userId))

	// body claims settlement but the gateway still says pending
	err = h.svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
		OrderId:           order.OrderId,
		TransactionStatus: "settlement",
		SignatureKey:      "valid-signature",
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, h.balance(t, userId))

	h.gateway.setState(order.OrderId, payment.OrderPaid)
	for i := 0; i < 2; i++ {
		err = h.svc.HandleNotification(context.Background(), &dto.MidtransWebhookRequest{
			OrderId:           order.OrderId,
			TransactionStatus: "settlement",
			SignatureKey:      "valid-signature",
		})
		assert.NoError(t, err)
	}
	assert.Equal(t, 100, h.balance(t, userId))
}
