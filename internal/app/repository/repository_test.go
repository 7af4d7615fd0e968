package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db          *gorm.DB
	recipes     RecipeRepository
	ingredients map[string]model.Ingredient
	tags        map[string]model.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{
		db:          db,
		recipes:     NewRecipeRepository(db),
		ingredients: map[string]model.Ingredient{},
		tags:        map[string]model.Tag{},
	}
	for _, ing := range []model.Ingredient{
		{Name: "Flour", MeasurementUnit: "g"},
		{Name: "Sugar", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	} {
		ing := ing
		require.NoError(t, db.Create(&ing).Error)
		f.ingredients[ing.Name] = ing
	}
	for _, tag := range []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Dinner", Slug: "dinner"},
	} {
		tag := tag
		require.NoError(t, db.Create(&tag).Error)
		f.tags[tag.Slug] = tag
	}
	return f
}

func (f *fixture) user(t *testing.T, name string) model.User {
	t.Helper()
	u := model.User{Email: name + "@example.com", Username: name, FirstName: name, LastName: "Test", PasswordHash: "hash"}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

type amount struct {
	name   string
	amount int
}

func (f *fixture) recipe(t *testing.T, author model.User, name string, tagSlugs []string, amounts ...amount) model.Recipe {
	t.Helper()
	recipe := model.Recipe{AuthorID: author.ID, Name: name, Image: "data:image/png;base64,AA==", Text: name, CookingTime: 10}
	lines := make([]model.RecipeIngredient, 0, len(amounts))
	for _, a := range amounts {
		lines = append(lines, model.RecipeIngredient{IngredientID: f.ingredients[a.name].ID, Amount: a.amount})
	}
	tags := make([]model.Tag, 0, len(tagSlugs))
	for _, slug := range tagSlugs {
		tags = append(tags, f.tags[slug])
	}
	require.NoError(t, f.recipes.Create(context.Background(), &recipe, lines, tags))
	return recipe
}
