// FILE: internal/service/payment_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-imagegen-be/internal/catalog"
	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/metrics"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/internal/tracer"
	"ai-imagegen-be/pkg/events"
	"ai-imagegen-be/pkg/payment"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type IPaymentService interface {
	GetPlans(ctx context.Context) []*dto.PlanResponse
	CreateOrder(ctx context.Context, userId uuid.UUID, req *dto.CreateOrderRequest) (*dto.OrderResponse, error)
	// VerifyAndSettle credits the purchase behind orderId at most once. When
	// callerId is set the transaction must belong to that account.
	VerifyAndSettle(ctx context.Context, orderId string, callerId *uuid.UUID) (*dto.SettlementResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory unitofwork.RepositoryFactory
	ledger     ICreditLedger
	tracker    ISettlementTracker
	gateway    payment.Gateway
	publisher  events.Publisher
	receipts   IPublisherService
	logger     logger.ILogger
	metrics    *metrics.Metrics
	currency   string
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	ledger ICreditLedger,
	tracker ISettlementTracker,
	gateway payment.Gateway,
	publisher events.Publisher,
	receipts IPublisherService,
	logger logger.ILogger,
	m *metrics.Metrics,
	currency string,
) IPaymentService {
	if currency == "" {
		currency = "IDR"
	}
	return &paymentService{
		uowFactory: uowFactory,
		ledger:     ledger,
		tracker:    tracker,
		gateway:    gateway,
		publisher:  publisher,
		receipts:   receipts,
		logger:     logger,
		metrics:    m,
		currency:   currency,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) []*dto.PlanResponse {
	plans := catalog.All()
	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, &dto.PlanResponse{
			Id:       string(p.Id),
			Price:    dto.FormatMajor(p.Price),
			Currency: s.currency,
			Credits:  p.CreditsGranted,
		})
	}
	return res
}

func (s *paymentService) CreateOrder(ctx context.Context, userId uuid.UUID, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	plan, ok := catalog.Lookup(entity.PlanId(req.PlanId))
	if !ok {
		return nil, entity.ErrInvalidPlan
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrNotFound
	}

	tx := &entity.PaymentTransaction{
		Id:             uuid.New(),
		UserId:         userId,
		PlanId:         plan.Id,
		AmountCharged:  plan.MinorUnits(),
		Currency:       s.currency,
		CreditsGranted: plan.CreditsGranted,
	}
	if err := uow.PaymentTransactionRepository().Create(ctx, tx); err != nil {
		return nil, err
	}

	order, err := s.createGatewayOrder(ctx, tx, user)
	if err != nil {
		s.logger.Error("PaymentService", "Gateway order creation failed", map[string]interface{}{
			"user_id":        userId.String(),
			"transaction_id": tx.Id.String(),
			"error":          err.Error(),
		})
		return nil, fmt.Errorf("%w: could not create payment order", entity.ErrInternal)
	}

	payload, _ := json.Marshal(order.Raw)
	if err := uow.PaymentTransactionRepository().AttachGatewayOrder(ctx, tx.Id, order.OrderId, payload); err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.TypeOrderCreated, map[string]interface{}{
		"user_id":        userId.String(),
		"transaction_id": tx.Id.String(),
		"plan_id":        string(plan.Id),
		"amount":         tx.AmountCharged,
		"currency":       tx.Currency,
	}))

	return &dto.OrderResponse{
		TransactionId: tx.Id,
		OrderId:       order.OrderId,
		Token:         order.Token,
		RedirectURL:   order.RedirectURL,
		Amount:        tx.AmountCharged,
		Currency:      tx.Currency,
		Plan:          string(plan.Id),
		Credits:       plan.CreditsGranted,
	}, nil
}

func (s *paymentService) createGatewayOrder(ctx context.Context, tx *entity.PaymentTransaction, user *entity.User) (*payment.Order, error) {
	ctx, span := tracer.Tracer().Start(ctx, "payment.gateway.create_order")
	defer span.End()
	span.SetAttributes(attribute.String("payment.plan", string(tx.PlanId)))

	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		AmountMinor:   tx.AmountCharged,
		Currency:      tx.Currency,
		CorrelationId: tx.Id.String(),
		ItemName:      fmt.Sprintf("%s plan - %d credits", tx.PlanId, tx.CreditsGranted),
		CustomerEmail: user.Email,
		CustomerName:  user.FullName,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create order failed")
		return nil, err
	}
	return order, nil
}

func (s *paymentService) VerifyAndSettle(ctx context.Context, orderId string, callerId *uuid.UUID) (*dto.SettlementResponse, error) {
	status, err := s.fetchOrder(ctx, orderId)
	if err != nil {
		s.metrics.Settlements.WithLabelValues("gateway_error").Inc()
		return nil, err
	}
	if status.State != payment.OrderPaid {
		s.metrics.Settlements.WithLabelValues("not_paid").Inc()
		return nil, entity.ErrPaymentNotCompleted
	}

	txId, err := uuid.Parse(status.CorrelationId)
	if err != nil {
		s.metrics.Settlements.WithLabelValues("unknown").Inc()
		return nil, entity.ErrNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	tx, err := uow.PaymentTransactionRepository().FindOne(ctx, specification.ByID{ID: txId})
	if err != nil {
		return nil, err
	}
	if tx == nil || (callerId != nil && tx.UserId != *callerId) {
		s.metrics.Settlements.WithLabelValues("unknown").Inc()
		return nil, entity.ErrNotFound
	}

	settled, err := s.tracker.MarkSettled(ctx, uow, tx.Id)
	if err != nil {
		return nil, err
	}
	if !settled {
		if err := uow.Rollback(); err != nil {
			return nil, err
		}
		balance, err := s.ledger.GetBalance(ctx, tx.UserId)
		if err != nil {
			return nil, err
		}
		s.metrics.Settlements.WithLabelValues("already_settled").Inc()
		return &dto.SettlementResponse{Credits: balance, AlreadySettled: true}, nil
	}

	balance, err := s.ledger.CreditTx(ctx, uow, tx.UserId, tx.CreditsGranted, LedgerMemo{
		Kind:        entity.CreditEntryPurchase,
		ReferenceId: &tx.Id,
		Notes:       string(tx.PlanId),
	})
	if err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.metrics.Settlements.WithLabelValues("credited").Inc()
	s.logger.Info("PaymentService", "Payment settled", map[string]interface{}{
		"user_id":        tx.UserId.String(),
		"transaction_id": tx.Id.String(),
		"credits":        tx.CreditsGranted,
		"balance":        balance,
	})
	s.afterSettle(ctx, tx, balance)

	return &dto.SettlementResponse{Credits: balance, Credited: true}, nil
}

func (s *paymentService) fetchOrder(ctx context.Context, orderId string) (*payment.OrderStatus, error) {
	ctx, span := tracer.Tracer().Start(ctx, "payment.gateway.fetch_order")
	defer span.End()

	status, err := s.gateway.FetchOrder(ctx, orderId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch order failed")
		if errors.Is(err, payment.ErrOrderNotFound) {
			return nil, entity.ErrNotFound
		}
		s.logger.Error("PaymentService", "Gateway status lookup failed", map[string]interface{}{
			"order_id": orderId,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: payment status unavailable", entity.ErrInternal)
	}
	span.SetAttributes(attribute.String("payment.status", status.GatewayStatus))
	return status, nil
}

func (s *paymentService) afterSettle(ctx context.Context, tx *entity.PaymentTransaction, balance int) {
	s.publish(ctx, events.New(events.TypeCreditsPurchased, map[string]interface{}{
		"user_id":        tx.UserId.String(),
		"transaction_id": tx.Id.String(),
		"plan_id":        string(tx.PlanId),
		"credits":        tx.CreditsGranted,
		"balance":        balance,
	}))

	if s.receipts == nil {
		return
	}
	msg, _ := json.Marshal(dto.PurchaseReceiptMessage{
		TransactionId:  tx.Id,
		UserId:         tx.UserId,
		PlanId:         string(tx.PlanId),
		CreditsGranted: tx.CreditsGranted,
		AmountMinor:    tx.AmountCharged,
		Currency:       tx.Currency,
		NewBalance:     balance,
	})
	if err := s.receipts.Publish(ctx, msg); err != nil {
		s.logger.Warn("PaymentService", "Failed to queue receipt", map[string]interface{}{
			"transaction_id": tx.Id.String(),
			"error":          err.Error(),
		})
	}
}

// HandleNotification authenticates a gateway callback, then settles using the
// status fetched from the gateway rather than the status in the body.
func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	ok := s.gateway.VerifyNotification(payment.Notification{
		OrderId:      req.OrderId,
		StatusCode:   req.StatusCode,
		GrossAmount:  req.GrossAmount,
		SignatureKey: req.SignatureKey,
	})
	if !ok {
		s.logger.Warn("PaymentService", "Webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return entity.ErrInvalidSignature
	}

	res, err := s.VerifyAndSettle(ctx, req.OrderId, nil)
	switch {
	case errors.Is(err, entity.ErrPaymentNotCompleted):
		s.logger.Info("PaymentService", "Webhook for unpaid order", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	case err != nil:
		return err
	}

	s.logger.Info("PaymentService", "Webhook processed", map[string]interface{}{
		"order_id":        req.OrderId,
		"credited":        res.Credited,
		"already_settled": res.AlreadySettled,
	})
	return nil
}

func (s *paymentService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("PaymentService", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
