package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-imagegen-be/internal/dto"
	"ai-imagegen-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedImages(t *testing.T, f *fixture, userId uuid.UUID, n int, visibility entity.Visibility) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		gen := &entity.ImageGeneration{
			UserId:      userId,
			Prompt:      fmt.Sprintf("prompt %d", i),
			Style:       entity.StyleRealistic,
			AspectRatio: entity.AspectSquare,
			ImageRef:    fmt.Sprintf("/uploads/%d.png", i),
			Visibility:  visibility,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, f.factory.NewUnitOfWork(ctx).ImageGenerationRepository().Create(ctx, gen))
		ids = append(ids, gen.Id)
	}
	return ids
}

func TestHistoryPaginates(t *testing.T) {
	f := newFixture(t)
	svc := NewImageService(f.factory, newFakeImageStore(), f.logger)
	userId := f.seedUser(t, "a@example.com", 0)
	other := f.seedUser(t, "b@example.com", 0)
	ids := seedImages(t, f, userId, 15, entity.VisibilityPrivate)
	seedImages(t, f, other, 3, entity.VisibilityPrivate)

	first, err := svc.History(context.Background(), userId, 0, 0)
	require.NoError(t, err)
	assert.Len(t, first.Images, 12)
	assert.Equal(t, ids[14], first.Images[0].Id)
	assert.Equal(t, dto.PaginationMeta{Page: 1, Limit: 12, Total: 15, TotalPages: 2}, first.Pagination)

	second, err := svc.History(context.Background(), userId, 2, 12)
	require.NoError(t, err)
	assert.Len(t, second.Images, 3)
	assert.Equal(t, ids[0], second.Images[2].Id)

	capped, err := svc.History(context.Background(), userId, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, capped.Pagination.Limit)
}

func TestExploreShowsPublicOnly(t *testing.T) {
	f := newFixture(t)
	svc := NewImageService(f.factory, newFakeImageStore(), f.logger)
	userId := f.seedUser(t, "a@example.com", 0)
	seedImages(t, f, userId, 4, entity.VisibilityPrivate)
	public := seedImages(t, f, userId, 2, entity.VisibilityPublic)

	res, err := svc.Explore(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, res.Images, 2)
	assert.Equal(t, public[1], res.Images[0].Id)
	assert.Equal(t, "Test a@example.com", res.Images[0].Author)
	assert.Equal(t, int64(2), res.Pagination.Total)
	assert.Equal(t, 20, res.Pagination.Limit)
}

func TestImageOwnerOnly(t *testing.T) {
	f := newFixture(t)
	files := newFakeImageStore()
	svc := NewImageService(f.factory, files, f.logger)
	owner := f.seedUser(t, "a@example.com", 0)
	intruder := f.seedUser(t, "b@example.com", 0)
	id := seedImages(t, f, owner, 1, entity.VisibilityPrivate)[0]

	_, err := svc.Get(context.Background(), intruder, id)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = svc.SetVisibility(context.Background(), intruder, id, &dto.UpdateVisibilityRequest{Visibility: "public"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), intruder, id), entity.ErrNotFound)

	img, err := svc.Get(context.Background(), owner, id)
	require.NoError(t, err)
	assert.Equal(t, "private", img.Visibility)

	img, err = svc.SetVisibility(context.Background(), owner, id, &dto.UpdateVisibilityRequest{Visibility: "public"})
	require.NoError(t, err)
	assert.Equal(t, "public", img.Visibility)

	_, err = svc.SetVisibility(context.Background(), owner, id, &dto.UpdateVisibilityRequest{Visibility: "secret"})
	assert.ErrorIs(t, err, entity.ErrValidation)

	require.NoError(t, svc.Delete(context.Background(), owner, id))
	_, err = svc.Get(context.Background(), owner, id)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
