// Package memory is a process-local implementation of the repositories for
// development and tests. Every statement runs under one mutex, so each
// conditional update is atomic like its SQL counterpart. Transactions keep an
// undo log and give atomicity on rollback but no isolation. The store assumes a
// rollback happens before any concurrent spend of the rolled-back credit; undo
// does not floor balances at zero.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/contract"
	"ai-imagegen-be/internal/repository/specification"
	"ai-imagegen-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.Mutex

	users        map[uuid.UUID]*entity.User
	transactions map[uuid.UUID]*entity.PaymentTransaction
	generations  map[uuid.UUID]*entity.ImageGeneration
	ledger       []*entity.CreditLedgerEntry

	// seq orders rows that share a CreatedAt.
	seq     int64
	rowSeq  map[uuid.UUID]int64
	nowFunc func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[uuid.UUID]*entity.User),
		transactions: make(map[uuid.UUID]*entity.PaymentTransaction),
		generations:  make(map[uuid.UUID]*entity.ImageGeneration),
		rowSeq:       make(map[uuid.UUID]int64),
		nowFunc:      time.Now,
	}
}

// NewRepositoryFactory returns the store as a unitofwork.RepositoryFactory.
func NewRepositoryFactory(s *Store) unitofwork.RepositoryFactory {
	return s
}

func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: s}
}

func (s *Store) nextSeq(id uuid.UUID) {
	s.seq++
	s.rowSeq[id] = s.seq
}

// mutate runs fn under the store lock and records its inverse when the
// unit of work has an open transaction.
func (s *Store) mutate(u *unitOfWork, fn func() (undo func())) {
	s.mu.Lock()
	defer s.mu.Unlock()
	undo := fn()
	if undo != nil && u != nil && u.inTx {
		u.undo = append(u.undo, undo)
	}
}

type unitOfWork struct {
	store *Store
	inTx  bool
	undo  []func()
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.inTx {
		return fmt.Errorf("transaction already started")
	}
	u.inTx = true
	u.undo = nil
	return nil
}

func (u *unitOfWork) Commit() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to commit")
	}
	u.inTx = false
	u.undo = nil
	return nil
}

func (u *unitOfWork) Rollback() error {
	if !u.inTx {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i]()
	}
	u.store.mu.Unlock()
	u.inTx = false
	u.undo = nil
	return nil
}

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{store: u.store, uow: u}
}

func (u *unitOfWork) PaymentTransactionRepository() contract.PaymentTransactionRepository {
	return &paymentTransactionRepository{store: u.store, uow: u}
}

func (u *unitOfWork) ImageGenerationRepository() contract.ImageGenerationRepository {
	return &imageGenerationRepository{store: u.store, uow: u}
}

func (u *unitOfWork) CreditLedgerRepository() contract.CreditLedgerRepository {
	return &creditLedgerRepository{store: u.store, uow: u}
}

// filter is the subset of specifications the memory store understands.
type filter struct {
	id          *uuid.UUID
	email       *string
	userId      *uuid.UUID
	orderId     *string
	publicOnly  bool
	settledOnly bool
	withAuthor  bool
	newestFirst bool
	page        *specification.Pagination
}

func compile(specs ...specification.Specification) filter {
	var f filter
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			f.id = &id
		case specification.ByEmail:
			email := s.Email
			f.email = &email
		case specification.UserOwnedBy:
			userId := s.UserID
			f.userId = &userId
		case specification.ByGatewayOrderID:
			orderId := s.OrderID
			f.orderId = &orderId
		case specification.PublicOnly:
			f.publicOnly = true
		case specification.SettledOnly:
			f.settledOnly = true
		case specification.WithAuthor:
			f.withAuthor = true
		case specification.OrderBy:
			if s.Field != "created_at" {
				panic(fmt.Sprintf("memory store: unsupported order field %q", s.Field))
			}
			f.newestFirst = s.Desc
		case specification.Pagination:
			page := s
			f.page = &page
		default:
			panic(fmt.Sprintf("memory store: unsupported specification %T", spec))
		}
	}
	return f
}

// order sorts ids by creation time, then insertion order, and applies paging.
func (s *Store) order(ids []uuid.UUID, createdAt func(uuid.UUID) time.Time, f filter) []uuid.UUID {
	sort.Slice(ids, func(i, j int) bool {
		ci, cj := createdAt(ids[i]), createdAt(ids[j])
		if !ci.Equal(cj) {
			if f.newestFirst {
				return ci.After(cj)
			}
			return ci.Before(cj)
		}
		if f.newestFirst {
			return s.rowSeq[ids[i]] > s.rowSeq[ids[j]]
		}
		return s.rowSeq[ids[i]] < s.rowSeq[ids[j]]
	})
	if f.page == nil {
		return ids
	}
	if f.page.Offset >= len(ids) {
		return nil
	}
	ids = ids[f.page.Offset:]
	if f.page.Limit > 0 && f.page.Limit < len(ids) {
		ids = ids[:f.page.Limit]
	}
	return ids
}
