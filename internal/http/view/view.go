// Package view maps domain values onto the JSON shapes served by the API.
package view

import (
	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/service"
)

type Tag struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Ingredient struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// User is the public profile; Avatar is null when unset.
type User struct {
	Email        string  `json:"email"`
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type RecipeIngredient struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type Recipe struct {
	ID               uint               `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           User               `json:"author"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
}

// RecipeShort is the compact form used in lists and subscriptions.
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Author is a followed user with a preview of their recipes.
type Author struct {
	User
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

func NewTag(t model.Tag) Tag {
	return Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func NewTags(tags []model.Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, NewTag(t))
	}
	return out
}

func NewIngredient(i model.Ingredient) Ingredient {
	return Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func NewIngredients(ingredients []model.Ingredient) []Ingredient {
	out := make([]Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		out = append(out, NewIngredient(i))
	}
	return out
}

func NewUser(u model.User, subscribed bool) User {
	user := User{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		user.Avatar = &avatar
	}
	return user
}

func NewUsers(views []service.UserView) []User {
	out := make([]User, 0, len(views))
	for _, v := range views {
		out = append(out, NewUser(v.User, v.IsSubscribed))
	}
	return out
}

func NewRecipe(v service.RecipeView) Recipe {
	r := v.Recipe
	ingredients := make([]RecipeIngredient, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		ingredients = append(ingredients, RecipeIngredient{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	return Recipe{
		ID:               r.ID,
		Tags:             NewTags(r.Tags),
		Author:           NewUser(r.Author, v.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func NewRecipes(views []service.RecipeView) []Recipe {
	out := make([]Recipe, 0, len(views))
	for _, v := range views {
		out = append(out, NewRecipe(v))
	}
	return out
}

func NewRecipeShort(r model.Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func NewAuthor(v service.AuthorView) Author {
	recipes := make([]RecipeShort, 0, len(v.Recipes))
	for _, r := range v.Recipes {
		recipes = append(recipes, NewRecipeShort(r))
	}
	return Author{
		User:         NewUser(v.User, v.IsSubscribed),
		Recipes:      recipes,
		RecipesCount: v.RecipesCount,
	}
}

func NewAuthors(views []service.AuthorView) []Author {
	out := make([]Author, 0, len(views))
	for _, v := range views {
		out = append(out, NewAuthor(v))
	}
	return out
}
