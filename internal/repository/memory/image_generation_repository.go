package memory

import (
	"context"
	"time"

	"ai-imagegen-be/internal/entity"
	"ai-imagegen-be/internal/repository/specification"

	"github.com/google/uuid"
)

type imageGenerationRepository struct {
	store *Store
	uow   *unitOfWork
}

func (r *imageGenerationRepository) Create(ctx context.Context, gen *entity.ImageGeneration) error {
	r.store.mutate(r.uow, func() func() {
		if gen.Id == uuid.Nil {
			gen.Id = uuid.New()
		}
		if gen.CreatedAt.IsZero() {
			gen.CreatedAt = r.store.nowFunc()
			gen.UpdatedAt = gen.CreatedAt
		}
		if gen.Visibility == "" {
			gen.Visibility = entity.VisibilityPrivate
		}
		row := *gen
		r.store.generations[row.Id] = &row
		r.store.nextSeq(row.Id)
		return func() { delete(r.store.generations, row.Id) }
	})
	return nil
}

func (r *imageGenerationRepository) match(g *entity.ImageGeneration, f filter) bool {
	if f.id != nil && g.Id != *f.id {
		return false
	}
	if f.userId != nil && g.UserId != *f.userId {
		return false
	}
	if f.publicOnly && g.Visibility != entity.VisibilityPublic {
		return false
	}
	return true
}

func (r *imageGenerationRepository) selectIds(f filter) []uuid.UUID {
	var ids []uuid.UUID
	for id, g := range r.store.generations {
		if r.match(g, f) {
			ids = append(ids, id)
		}
	}
	return r.store.order(ids, func(id uuid.UUID) time.Time { return r.store.generations[id].CreatedAt }, f)
}

func (r *imageGenerationRepository) copyRow(id uuid.UUID, f filter) *entity.ImageGeneration {
	row := *r.store.generations[id]
	if f.withAuthor {
		if u, ok := r.store.users[row.UserId]; ok {
			row.AuthorName = u.FullName
		}
	}
	return &row
}

func (r *imageGenerationRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ImageGeneration, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ids := r.selectIds(f)
	if len(ids) == 0 {
		return nil, nil
	}
	return r.copyRow(ids[0], f), nil
}

func (r *imageGenerationRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ImageGeneration, error) {
	f := compile(specs...)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	res := make([]*entity.ImageGeneration, 0)
	for _, id := range r.selectIds(f) {
		res = append(res, r.copyRow(id, f))
	}
	return res, nil
}

func (r *imageGenerationRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	f := compile(specs...)
	f.page = nil
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.selectIds(f))), nil
}

func (r *imageGenerationRepository) DeleteOwned(ctx context.Context, id, userId uuid.UUID) (bool, error) {
	var deleted bool
	r.store.mutate(r.uow, func() func() {
		g, ok := r.store.generations[id]
		if !ok || g.UserId != userId {
			return nil
		}
		delete(r.store.generations, id)
		deleted = true
		return func() { r.store.generations[id] = g }
	})
	return deleted, nil
}

func (r *imageGenerationRepository) UpdateVisibility(ctx context.Context, id, userId uuid.UUID, visibility entity.Visibility) (bool, error) {
	var updated bool
	r.store.mutate(r.uow, func() func() {
		g, ok := r.store.generations[id]
		if !ok || g.UserId != userId {
			return nil
		}
		prev := g.Visibility
		g.Visibility = visibility
		updated = true
		return func() { g.Visibility = prev }
	})
	return updated, nil
}
