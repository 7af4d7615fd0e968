package repository

import (
	"context"
	"testing"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeRepository_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")

	created := f.recipe(t, author, "Pancakes", []string{"breakfast"}, amount{"Flour", 200}, amount{"milk", 300})

	got, err := f.recipes.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	assert.Equal(t, author.ID, got.Author.ID)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Flour", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 200, got.Ingredients[0].Amount)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
}

func TestRecipeRepository_GetByID_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.recipes.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeRepository_UpdateReplacesComposition(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	recipe := f.recipe(t, author, "Pancakes", []string{"breakfast"}, amount{"Flour", 200}, amount{"milk", 300})

	recipe.Name = "Sweet pancakes"
	lines := []model.RecipeIngredient{{IngredientID: f.ingredients["Sugar"].ID, Amount: 30}}
	require.NoError(t, f.recipes.Update(ctx, &recipe, lines, []model.Tag{f.tags["dinner"]}))

	got, err := f.recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sweet pancakes", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "Sugar", got.Ingredients[0].Ingredient.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dinner", got.Tags[0].Slug)
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "chef")
	recipe := f.recipe(t, author, "Pancakes", []string{"breakfast"}, amount{"Flour", 200})

	members := NewMembershipRepository(f.db)
	require.NoError(t, members.Add(ctx, author.ID, recipe.ID, model.MembershipShoppingCart))
	links := NewShortLinkRepository(f.db)
	require.NoError(t, links.Create(ctx, &model.ShortLink{RecipeID: recipe.ID, Token: "Ab12", CanonicalURL: "http://x/api/recipes/1/"}))

	require.NoError(t, f.recipes.Delete(ctx, recipe.ID))

	_, err := links.GetByToken(ctx, "Ab12")
	assert.ErrorIs(t, err, ErrShortLinkNotFound)
	inCart, err := members.Exists(ctx, author.ID, recipe.ID, model.MembershipShoppingCart)
	require.NoError(t, err)
	assert.False(t, inCart)

	var lines int64
	require.NoError(t, f.db.Model(&model.RecipeIngredient{}).Count(&lines).Error)
	assert.Zero(t, lines)

	assert.ErrorIs(t, f.recipes.Delete(ctx, recipe.ID), ErrRecipeNotFound)
}

func TestRecipeRepository_ListFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	porridge := f.recipe(t, alice, "Porridge", []string{"breakfast"}, amount{"milk", 200})
	stew := f.recipe(t, alice, "Stew", []string{"dinner"}, amount{"Flour", 10})
	cake := f.recipe(t, bob, "Cake", []string{"breakfast", "dinner"}, amount{"Sugar", 100})

	members := NewMembershipRepository(f.db)
	require.NoError(t, members.Add(ctx, bob.ID, porridge.ID, model.MembershipFavorite))
	require.NoError(t, members.Add(ctx, bob.ID, stew.ID, model.MembershipShoppingCart))

	ids := func(recipes []model.Recipe) []uint {
		out := make([]uint, 0, len(recipes))
		for _, r := range recipes {
			out = append(out, r.ID)
		}
		return out
	}

	all, total, err := f.recipes.List(ctx, RecipeFilter{}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{cake.ID, stew.ID, porridge.ID}, ids(all), "newest first")

	byAuthor, total, err := f.recipes.List(ctx, RecipeFilter{AuthorID: alice.ID}, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.ElementsMatch(t, []uint{porridge.ID, stew.ID}, ids(byAuthor))

	byTag, _, err := f.recipes.List(ctx, RecipeFilter{TagSlugs: []string{"breakfast"}}, 10, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{porridge.ID, cake.ID}, ids(byTag))

	favorited, _, err := f.recipes.List(ctx, RecipeFilter{FavoritedBy: bob.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{porridge.ID}, ids(favorited))

	inCart, _, err := f.recipes.List(ctx, RecipeFilter{InCartOf: bob.ID, AuthorID: alice.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{stew.ID}, ids(inCart))

	page, total, err := f.recipes.List(ctx, RecipeFilter{}, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []uint{stew.ID}, ids(page))
}

func TestRecipeRepository_CountByAuthors(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.recipe(t, alice, "Porridge", []string{"breakfast"}, amount{"milk", 200})
	f.recipe(t, alice, "Stew", []string{"dinner"}, amount{"Flour", 10})

	counts, err := f.recipes.CountByAuthors(context.Background(), []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[alice.ID])
	assert.EqualValues(t, 0, counts[bob.ID])

	limited, err := f.recipes.ListByAuthor(context.Background(), alice.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Stew", limited[0].Name)
}
