package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/mapper"
	"ai-imagegen-be/internal/model"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailTaken
		}
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) GetBalance(ctx context.Context, id uuid.UUID) (int, error) {
	var modelUser model.User
	err := r.db.WithContext(ctx).Select("credit_balance").Where("id = ?", id).First(&modelUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, entity.ErrNotFound
		}
		return 0, err
	}
	return modelUser.CreditBalance, nil
}

// DebitBalance runs
//
//	UPDATE users SET credit_balance = credit_balance - $n
//	WHERE id = $id AND credit_balance >= $n RETURNING credit_balance
//
// so the check and the decrement happen in one statement.
func (r *UserRepositoryImpl) DebitBalance(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var updated model.User
	res := r.db.WithContext(ctx).Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "credit_balance"}}}).
		Where("id = ? AND credit_balance >= ?", id, amount).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("debit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, r.missingOrInsufficient(ctx, id)
	}
	return updated.CreditBalance, nil
}

func (r *UserRepositoryImpl) CreditBalance(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var updated model.User
	res := r.db.WithContext(ctx).Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "credit_balance"}}}).
		Where("id = ?", id).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("credit balance: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, entity.ErrNotFound
	}
	return updated.CreditBalance, nil
}

// missingOrInsufficient explains a debit that matched no row.
func (r *UserRepositoryImpl) missingOrInsufficient(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return entity.ErrNotFound
	}
	return entity.ErrInsufficientBalance
}
