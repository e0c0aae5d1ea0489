// FILE: internal/service/user_service.go
package service

import (
	"context"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/pkg/logger"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"
	"ai-imagegen-be/pkg/events"

	"github.com/google/uuid"
)

const transactionHistoryLimit = 20

type IUserService interface {
	GetCredits(ctx context.Context, userId uuid.UUID) (*dto.CreditsResponse, error)
	GetTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.TransactionResponse, error)
	GetStats(ctx context.Context, userId uuid.UUID) (*dto.StatsResponse, error)
	GetLedger(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.LedgerEntryResponse, error)
	GrantCredits(ctx context.Context, userId uuid.UUID, amount int, notes string) (int, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	ledger     ICreditLedger
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewUserService(
	uowFactory unitofwork.RepositoryFactory,
	ledger ICreditLedger,
	publisher events.Publisher,
	logger logger.ILogger,
) IUserService {
	return &userService{
		uowFactory: uowFactory,
		ledger:     ledger,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *userService) findUser(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.User, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrNotFound
	}
	return user, nil
}

func (s *userService) GetCredits(ctx context.Context, userId uuid.UUID) (*dto.CreditsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	return &dto.CreditsResponse{
		Credits: user.CreditBalance,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
			Role:     string(user.Role),
		},
	}, nil
}

func (s *userService) GetTransactions(ctx context.Context, userId uuid.UUID) ([]*dto.TransactionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	txs, err := uow.PaymentTransactionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.SettledOnly{},
		specification.NewestFirst(),
		specification.Pagination{Limit: transactionHistoryLimit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, &dto.TransactionResponse{
			Id:             tx.Id,
			PlanId:         string(tx.PlanId),
			Amount:         dto.FormatMinor(tx.AmountCharged),
			Currency:       tx.Currency,
			CreditsGranted: tx.CreditsGranted,
			Settled:        tx.Settled,
			SettledAt:      tx.SettledAt,
			CreatedAt:      tx.CreatedAt,
		})
	}
	return res, nil
}

func (s *userService) GetStats(ctx context.Context, userId uuid.UUID) (*dto.StatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.findUser(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	images, err := uow.ImageGenerationRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}
	purchases, err := uow.PaymentTransactionRepository().Count(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.SettledOnly{},
	)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		Credits:         user.CreditBalance,
		ImagesGenerated: images,
		TotalPurchases:  purchases,
	}, nil
}

func (s *userService) GetLedger(ctx context.Context, userId uuid.UUID, limit int) ([]*dto.LedgerEntryResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entries, err := uow.CreditLedgerRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.NewestFirst(),
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.LedgerEntryResponse{
			Id:           e.Id,
			Kind:         string(e.Kind),
			Amount:       e.Amount,
			BalanceAfter: e.BalanceAfter,
			ReferenceId:  e.ReferenceId,
			Notes:        e.Notes,
			CreatedAt:    e.CreatedAt,
		})
	}
	return res, nil
}

// GrantCredits adds credits outside of a purchase, e.g. support goodwill.
func (s *userService) GrantCredits(ctx context.Context, userId uuid.UUID, amount int, notes string) (int, error) {
	balance, err := s.ledger.Credit(ctx, userId, amount, LedgerMemo{
		Kind:  entity.CreditEntryGrant,
		Notes: notes,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("UserService", "Credits granted", map[string]interface{}{
		"user_id": userId.String(),
		"amount":  amount,
		"balance": balance,
	})
	if err := s.publisher.Publish(ctx, events.New(events.TypeCreditsGranted, map[string]interface{}{
		"user_id": userId.String(),
		"amount":  amount,
		"balance": balance,
	})); err != nil {
		s.logger.Warn("UserService", "Failed to publish event", map[string]interface{}{"error": err.Error()})
	}
	return balance, nil
}
