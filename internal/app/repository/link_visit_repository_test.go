package repository

import (
	"context"
	"testing"
	"time"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkVisitRepositoryCountsDistinctVisits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	visits := NewLinkVisitRepository(f.db)

	author := f.user(t, "chef")
	pancakes := f.recipe(t, author, "Pancakes", nil, amount{"Flour", 100})

	visit := func(id string) *model.LinkVisit {
		return &model.LinkVisit{ID: id, Token: "Ab3x", RecipeID: pancakes.ID, IP: "10.0.0.1", VisitedAt: time.Now()}
	}
	require.NoError(t, visits.Create(ctx, visit("visit-1")))
	require.NoError(t, visits.Create(ctx, visit("visit-2")))
	// A redelivered event is stored once.
	require.NoError(t, visits.Create(ctx, visit("visit-1")))

	count, err := visits.CountByRecipe(ctx, pancakes.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = visits.CountByRecipe(ctx, pancakes.ID+1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTagRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tags := NewTagRepository(f.db)

	created, err := tags.CreateBatch(ctx, []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, created)

	all, err := tags.List(ctx)
	require.NoError(t, err)
	slugs := make([]string, 0, len(all))
	for _, tag := range all {
		slugs = append(slugs, tag.Slug)
	}
	assert.ElementsMatch(t, []string{"breakfast", "dinner", "lunch"}, slugs)

	found, err := tags.FindByIDs(ctx, []uint{f.tags["dinner"].ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "dinner", found[0].Slug)

	_, err = tags.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrTagNotFound)
}
