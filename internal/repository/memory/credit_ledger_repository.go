package memory

import (
	"context"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type creditLedgerRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *creditLedgerRepository) Append(ctx context.Context, entry *entity.CreditLedgerEntry) error {
	r.store.mutate(r.uow, func() func() {
		if entry.Id == uuid.Nil {
			entry.Id = uuid.New()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = r.store.nowFunc()
		}
		row := *entry
		r.store.ledger = append(r.store.ledger, &row)
		r.store.nextSeq(row.Id)
		return func() {
			for i, e := range r.store.ledger {
				if e.Id == row.Id {
					r.store.ledger = append(r.store.ledger[:i], r.store.ledger[i+1:]...)
					return
				}
			}
		}
	})
	return nil
}

func (r *creditLedgerRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CreditLedgerEntry, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	byId := make(map[uuid.UUID]*entity.CreditLedgerEntry)
	var ids []uuid.UUID
	for _, e := range r.store.ledger {
		if f.userId != nil && e.UserId != *f.userId {
			continue
		}
		byId[e.Id] = e
		ids = append(ids, e.Id)
	}
	ids = r.store.order(ids, func(id uuid.UUID) time.Time { return byId[id].CreatedAt }, f)

	res := make([]*entity.CreditLedgerEntry, 0, len(ids))
	for _, id := range ids {
		row := *byId[id]
		res = append(res, &row)
	}
	return res, nil
}
