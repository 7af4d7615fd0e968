package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	passwordCost = bcrypt.MinCost
}

// store wires real repositories over an in-memory SQLite database.
type store struct {
	db          *gorm.DB
	users       repository.UserRepository
	subs        repository.SubscriptionRepository
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	members     repository.MembershipRepository
	flour       model.Ingredient
	sugar       model.Ingredient
	breakfast   model.Tag
	dinner      model.Tag
}

func newStore(t *testing.T) *store {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	s := &store{
		db:          db,
		users:       repository.NewUserRepository(db),
		subs:        repository.NewSubscriptionRepository(db),
		recipes:     repository.NewRecipeRepository(db),
		ingredients: repository.NewIngredientRepository(db),
		tags:        repository.NewTagRepository(db),
		members:     repository.NewMembershipRepository(db),
		flour:       model.Ingredient{Name: "Flour", MeasurementUnit: "g"},
		sugar:       model.Ingredient{Name: "Sugar", MeasurementUnit: "g"},
		breakfast:   model.Tag{Name: "Breakfast", Slug: "breakfast"},
		dinner:      model.Tag{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, db.Create(&s.flour).Error)
	require.NoError(t, db.Create(&s.sugar).Error)
	require.NoError(t, db.Create(&s.breakfast).Error)
	require.NoError(t, db.Create(&s.dinner).Error)
	return s
}

func (s *store) recipeService() RecipeService {
	return NewRecipeService(s.recipes, s.ingredients, s.tags, s.members, s.subs)
}

func (s *store) register(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := NewUserService(s.users, s.subs).Register(context.Background(), RegisterInput{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func (s *store) pancakes() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Image:       "data:image/png;base64,AA==",
		Text:        "Mix and fry.",
		CookingTime: 15,
		Ingredients: []IngredientAmount{{ID: s.flour.ID, Amount: 200}, {ID: s.sugar.ID, Amount: 20}},
		Tags:        []uint{s.breakfast.ID},
	}
}
