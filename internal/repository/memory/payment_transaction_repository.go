package memory

import (
	"context"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type paymentTransactionRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *paymentTransactionRepository) Create(ctx context.Context, tx *entity.PaymentTransaction) error {
	r.store.mutate(r.uow, func() func() {
		if tx.Id == uuid.Nil {
			tx.Id = uuid.New()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = r.store.nowFunc()
			tx.UpdatedAt = tx.CreatedAt
		}
		row := *tx
		r.store.transactions[row.Id] = &row
		r.store.nextSeq(row.Id)
		return func() { delete(r.store.transactions, row.Id) }
	})
	return nil
}

func (r *paymentTransactionRepository) match(t *entity.PaymentTransaction, f filter) bool {
	if f.id != nil && t.Id != *f.id {
		return false
	}
	if f.userId != nil && t.UserId != *f.userId {
		return false
	}
	if f.orderId != nil && t.GatewayOrderId != *f.orderId {
		return false
	}
	if f.settledOnly && !t.Settled {
		return false
	}
	return true
}

func (r *paymentTransactionRepository) selectIds(f filter) []uuid.UUID {
	var ids []uuid.UUID
	for id, t := range r.store.transactions {
		if r.match(t, f) {
			ids = append(ids, id)
		}
	}
	return r.store.order(ids, func(id uuid.UUID) time.Time { return r.store.transactions[id].CreatedAt }, f)
}

func (r *paymentTransactionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PaymentTransaction, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ids := r.selectIds(f)
	if len(ids) == 0 {
		return nil, nil
	}
	row := *r.store.transactions[ids[0]]
	return &row, nil
}

func (r *paymentTransactionRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PaymentTransaction, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	res := make([]*entity.PaymentTransaction, 0)
	for _, id := range r.selectIds(f) {
		row := *r.store.transactions[id]
		res = append(res, &row)
	}
	return res, nil
}

func (r *paymentTransactionRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f := compile(specs...)
	f.page = nil
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.selectIds(f))), nil
}

func (r *paymentTransactionRepository) AttachGatewayOrder(ctx context.Context, id uuid.UUID, orderId string, payload []byte) error {
	var err error
	r.store.mutate(r.uow, func() func() {
		t, ok := r.store.transactions[id]
		if !ok {
			err = entity.ErrNotFound
			return nil
		}
		prevOrder, prevPayload := t.GatewayOrderId, t.GatewayPayload
		t.GatewayOrderId = orderId
		if len(payload) > 0 {
			t.GatewayPayload = payload
		}
		return func() { t.GatewayOrderId, t.GatewayPayload = prevOrder, prevPayload }
	})
	return err
}

func (r *paymentTransactionRepository) MarkSettled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	var won bool
	r.store.mutate(r.uow, func() func() {
		t, ok := r.store.transactions[id]
		if !ok || t.Settled {
			return nil
		}
		t.Settled = true
		settledAt := at
		t.SettledAt = &settledAt
		won = true
		return func() {
			t.Settled = false
			t.SettledAt = nil
		}
	})
	return won, nil
}
