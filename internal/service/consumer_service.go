// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/pkg/mailer"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService sends purchase receipts queued by the payment service.
type consumerService struct {
	subscriber   message.Subscriber
	topicName    string
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:   subscriber,
		topicName:    topicName,
		uowFactory:   uowFactory,
		emailService: emailService,
		logger:       logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PurchaseReceiptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal receipt message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed messages never succeed
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load user for receipt", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}
	if user == nil {
		msg.Ack()
		return
	}

	err = cs.emailService.SendPurchaseReceipt(mailer.Receipt{
		ToEmail:        user.Email,
		FullName:       user.FullName,
		PlanName:       payload.PlanId,
		CreditsGranted: payload.CreditsGranted,
		Amount:         fmt.Sprintf("%s %s", payload.Currency, dto.FormatMinor(payload.AmountMinor)),
		TransactionId:  payload.TransactionId.String(),
		NewBalance:     payload.NewBalance,
	})
	if err != nil {
		// receipts are not retried; the purchase is already credited
		cs.logger.Warn("ConsumerService", "Failed to send receipt", map[string]interface{}{
			"transaction_id": payload.TransactionId.String(),
			"error":          err.Error(),
		})
	}
	msg.Ack()
}
