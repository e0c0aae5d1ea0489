package memory

import (
	"context"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type userRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	var err error
	r.store.mutate(r.uow, func() func() {
		for _, u := range r.store.users {
			if u.Email == user.Email {
				err = entity.ErrEmailTaken
				return nil
			}
		}
		if user.Id == uuid.Nil {
			user.Id = uuid.New()
		}
		if user.CreatedAt.IsZero() {
			user.CreatedAt = r.store.nowFunc()
			user.UpdatedAt = user.CreatedAt
		}
		if user.Role == "" {
			user.Role = entity.UserRoleUser
		}
		user.CreditBalance = 0
		row := *user
		r.store.users[row.Id] = &row
		r.store.nextSeq(row.Id)
		return func() { delete(r.store.users, row.Id) }
	})
	return err
}

func (r *userRepository) match(u *entity.User, f filter) bool {
	if f.id != nil && u.Id != *f.id {
		return false
	}
	if f.email != nil && u.Email != *f.email {
		return false
	}
	return true
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if r.match(u, f) {
			row := *u
			return &row, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, u := range r.store.users {
		if r.match(u, f) {
			n++
		}
	}
	return n, nil
}

func (r *userRepository) GetBalance(ctx context.Context, id uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return 0, entity.ErrNotFound
	}
	return u.CreditBalance, nil
}

func (r *userRepository) DebitBalance(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var (
		balance int
		err     error
	)
	r.store.mutate(r.uow, func() func() {
		u, ok := r.store.users[id]
		if !ok {
			err = entity.ErrNotFound
			return nil
		}
		if u.CreditBalance < amount {
			err = entity.ErrInsufficientBalance
			return nil
		}
		u.CreditBalance -= amount
		balance = u.CreditBalance
		return func() { u.CreditBalance += amount }
	})
	return balance, err
}

func (r *userRepository) CreditBalance(ctx context.Context, id uuid.UUID, amount int) (int, error) {
	var (
		balance int
		err     error
	)
	r.store.mutate(r.uow, func() func() {
		u, ok := r.store.users[id]
		if !ok {
			err = entity.ErrNotFound
			return nil
		}
		u.CreditBalance += amount
		balance = u.CreditBalance
		return func() { u.CreditBalance -= amount }
	})
	return balance, err
}
