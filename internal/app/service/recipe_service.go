package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
)

const maxRecipeNameLength = 256

// IngredientAmount is one requested ingredient line of a recipe.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput carries recipe fields for create and update.
// On update empty Name, Text, Image and zero CookingTime keep the stored value.
type RecipeInput struct {
	Name        string
	Image       string
	Text        string
	CookingTime int
	Ingredients []IngredientAmount
	Tags        []uint
}

// RecipeView is a recipe as seen by a particular viewer.
type RecipeView struct {
	Recipe           model.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeListQuery selects and pages recipes. The membership flags need a viewer.
type RecipeListQuery struct {
	AuthorID         uint
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

// RecipePage is one page of a recipe listing.
type RecipePage struct {
	Items []RecipeView
	Total int64
}

// RecipeService defines recipe operations. viewerID and actorID are 0 for anonymous callers.
type RecipeService interface {
	List(ctx context.Context, viewerID uint, query RecipeListQuery) (*RecipePage, error)
	Get(ctx context.Context, viewerID, id uint) (*RecipeView, error)
	Create(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, actorID, id uint, input RecipeInput) (*RecipeView, error)
	Delete(ctx context.Context, actorID, id uint) error
}

type recipeService struct {
	recipes     repository.RecipeRepository
	ingredients repository.IngredientRepository
	tags        repository.TagRepository
	members     repository.MembershipRepository
	subs        repository.SubscriptionRepository
}

// NewRecipeService returns a RecipeService over the given repositories.
func NewRecipeService(
	recipes repository.RecipeRepository,
	ingredients repository.IngredientRepository,
	tags repository.TagRepository,
	members repository.MembershipRepository,
	subs repository.SubscriptionRepository,
) RecipeService {
	return &recipeService{
		recipes:     recipes,
		ingredients: ingredients,
		tags:        tags,
		members:     members,
		subs:        subs,
	}
}

func (s *recipeService) List(ctx context.Context, viewerID uint, query RecipeListQuery) (*RecipePage, error) {
	filter := repository.RecipeFilter{
		AuthorID: query.AuthorID,
		TagSlugs: query.Tags,
	}
	if viewerID != 0 {
		if query.IsFavorited {
			filter.FavoritedBy = viewerID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.recipes.List(ctx, filter, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	views, err := s.views(ctx, viewerID, recipes)
	if err != nil {
		return nil, err
	}
	return &RecipePage{Items: views, Total: total}, nil
}

func (s *recipeService) Get(ctx context.Context, viewerID, id uint) (*RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return s.view(ctx, viewerID, recipe)
}

func (s *recipeService) Create(ctx context.Context, authorID uint, input RecipeInput) (*RecipeView, error) {
	recipe := &model.Recipe{
		AuthorID:    authorID,
		Name:        strings.TrimSpace(input.Name),
		Image:       input.Image,
		Text:        input.Text,
		CookingTime: input.CookingTime,
	}
	lines, tags, err := s.compose(ctx, recipe, input, true)
	if err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, recipe, lines, tags); err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return s.Get(ctx, authorID, recipe.ID)
}

func (s *recipeService) Update(ctx context.Context, actorID, id uint, input RecipeInput) (*RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if recipe.AuthorID != actorID {
		return nil, ErrForbidden
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		recipe.Name = name
	}
	if input.Image != "" {
		recipe.Image = input.Image
	}
	if input.Text != "" {
		recipe.Text = input.Text
	}
	if input.CookingTime != 0 {
		recipe.CookingTime = input.CookingTime
	}

	lines, tags, err := s.compose(ctx, recipe, input, false)
	if err != nil {
		return nil, err
	}
	if err := s.recipes.Update(ctx, recipe, lines, tags); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return s.Get(ctx, actorID, recipe.ID)
}

func (s *recipeService) Delete(ctx context.Context, actorID, id uint) error {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load recipe: %w", err)
	}
	if recipe.AuthorID != actorID {
		return ErrForbidden
	}
	if err := s.recipes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	return nil
}

// compose validates recipe and input and resolves the ingredient lines and tags.
func (s *recipeService) compose(ctx context.Context, recipe *model.Recipe, input RecipeInput, creating bool) ([]model.RecipeIngredient, []model.Tag, error) {
	errs := fieldErrors{}

	switch {
	case recipe.Name == "":
		errs.add("name", "this field is required")
	case utf8.RuneCountInString(recipe.Name) > maxRecipeNameLength:
		errs.add("name", fmt.Sprintf("ensure this field has no more than %d characters", maxRecipeNameLength))
	}
	if strings.TrimSpace(recipe.Text) == "" {
		errs.add("text", "this field is required")
	}
	if creating && recipe.Image == "" {
		errs.add("image", "this field is required")
	}
	if recipe.CookingTime < 1 {
		errs.add("cooking_time", "ensure this value is greater than or equal to 1")
	}

	ingredientIDs := make([]uint, 0, len(input.Ingredients))
	seenIngredients := make(map[uint]bool, len(input.Ingredients))
	if len(input.Ingredients) == 0 {
		errs.add("ingredients", "at least one ingredient is required")
	}
	for _, item := range input.Ingredients {
		if seenIngredients[item.ID] {
			errs.add("ingredients", "ingredients must not repeat")
			continue
		}
		seenIngredients[item.ID] = true
		ingredientIDs = append(ingredientIDs, item.ID)
		if item.Amount < 1 {
			errs.add("ingredients", "amount must be at least 1")
		}
	}

	tagIDs := make([]uint, 0, len(input.Tags))
	seenTags := make(map[uint]bool, len(input.Tags))
	if len(input.Tags) == 0 {
		errs.add("tags", "at least one tag is required")
	}
	for _, id := range input.Tags {
		if seenTags[id] {
			errs.add("tags", "tags must not repeat")
			continue
		}
		seenTags[id] = true
		tagIDs = append(tagIDs, id)
	}

	if err := errs.err(); err != nil {
		return nil, nil, err
	}

	ingredients, err := s.ingredients.FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load ingredients: %w", err)
	}
	if len(ingredients) != len(ingredientIDs) {
		errs.add("ingredients", "unknown ingredient")
	}
	tags, err := s.tags.FindByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		errs.add("tags", "unknown tag")
	}
	if err := errs.err(); err != nil {
		return nil, nil, err
	}

	lines := make([]model.RecipeIngredient, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		lines = append(lines, model.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	return lines, tags, nil
}

func (s *recipeService) view(ctx context.Context, viewerID uint, recipe *model.Recipe) (*RecipeView, error) {
	views, err := s.views(ctx, viewerID, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// views decorates recipes with the viewer's list and subscription flags.
func (s *recipeService) views(ctx context.Context, viewerID uint, recipes []model.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := s.members.ContainedAmong(ctx, viewerID, recipeIDs, model.MembershipFavorite)
	if err != nil {
		return nil, fmt.Errorf("lookup favorites: %w", err)
	}
	inCart, err := s.members.ContainedAmong(ctx, viewerID, recipeIDs, model.MembershipShoppingCart)
	if err != nil {
		return nil, fmt.Errorf("lookup shopping cart: %w", err)
	}
	followed, err := s.subs.FollowedAmong(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("lookup subscriptions: %w", err)
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		views = append(views, RecipeView{
			Recipe:           r,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			AuthorSubscribed: followed[r.AuthorID],
		})
	}
	return views, nil
}
