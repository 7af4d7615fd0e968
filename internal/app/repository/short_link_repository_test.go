package repository

import (
	"context"
	"testing"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortLinkRepository_CreateAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipe := f.recipe(t, f.user(t, "chef"), "Pancakes", []string{"breakfast"}, amount{"Flour", 200})
	links := NewShortLinkRepository(f.db)

	require.NoError(t, links.Create(ctx, &model.ShortLink{RecipeID: recipe.ID, Token: "aB3x", CanonicalURL: "http://x/api/recipes/1/"}))

	byRecipe, err := links.GetByRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "aB3x", byRecipe.Token)

	byToken, err := links.GetByToken(ctx, "aB3x")
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, byToken.RecipeID)

	_, err = links.GetByToken(ctx, "AB3X")
	assert.ErrorIs(t, err, ErrShortLinkNotFound, "tokens are case-sensitive")

	tokens, err := links.ListTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aB3x"}, tokens)
}

func TestShortLinkRepository_CreateDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chef := f.user(t, "chef")
	first := f.recipe(t, chef, "Pancakes", []string{"breakfast"}, amount{"Flour", 200})
	second := f.recipe(t, chef, "Waffles", []string{"breakfast"}, amount{"Flour", 250})
	links := NewShortLinkRepository(f.db)

	require.NoError(t, links.Create(ctx, &model.ShortLink{RecipeID: first.ID, Token: "aaaa", CanonicalURL: "u"}))

	err := links.Create(ctx, &model.ShortLink{RecipeID: second.ID, Token: "aaaa", CanonicalURL: "u"})
	assert.ErrorIs(t, err, ErrDuplicate, "token collision")

	err = links.Create(ctx, &model.ShortLink{RecipeID: first.ID, Token: "bbbb", CanonicalURL: "u"})
	assert.ErrorIs(t, err, ErrDuplicate, "second link for the same recipe")
}
