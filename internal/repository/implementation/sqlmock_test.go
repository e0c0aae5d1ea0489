package implementation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"ai-imagegen-be/internal/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestDebitBalanceIsOneConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE "users" SET "credit_balance"=credit_balance - \$1 WHERE .*id = \$2 AND credit_balance >= \$3.* RETURNING "credit_balance"`).
		WithArgs(1, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"credit_balance"}).AddRow(4))

	balance, err := NewUserRepository(db).DebitBalance(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDebitBalanceExplainsMiss(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  error
	}{
		{"insufficient", 1, entity.ErrInsufficientBalance},
		{"unknown account", 0, entity.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			id := uuid.New()

			mock.ExpectQuery(`UPDATE "users" SET "credit_balance"=credit_balance - \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"credit_balance"}))
			mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tt.count))

			_, err := NewUserRepository(db).DebitBalance(context.Background(), id, 5)
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreditBalanceAddsInSQL(t *testing.T) {
	db, mock := newMockDB(t)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE "users" SET "credit_balance"=credit_balance \+ \$1 WHERE .*id = \$2.* RETURNING "credit_balance"`).
		WithArgs(100, id).
		WillReturnRows(sqlmock.NewRows([]string{"credit_balance"}).AddRow(103))

	balance, err := NewUserRepository(db).CreditBalance(context.Background(), id, 100)
	require.NoError(t, err)
	assert.Equal(t, 103, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSettledCompareAndSet(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"first caller wins", 1, true},
		{"already settled", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			id := uuid.New()

			mock.ExpectExec(`UPDATE "payment_transactions" SET .*"settled"=.* WHERE id = \$\d+ AND settled = \$\d+`).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			won, err := NewPaymentTransactionRepository(db).MarkSettled(context.Background(), id, time.Now())
			require.NoError(t, err)
			assert.Equal(t, tt.want, won)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := NewUserRepository(db).Create(context.Background(), &entity.User{Email: "a@example.com", FullName: "A"})
	assert.ErrorIs(t, err, entity.ErrEmailTaken)
}
