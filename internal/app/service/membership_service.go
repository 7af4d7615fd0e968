package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
)

// MembershipService manages the favorites and shopping cart lists of a user.
type MembershipService interface {
	Add(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) (*model.Recipe, error)
	Remove(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) error
	Contains(ctx context.Context, userID uint, recipeIDs []uint, kind model.MembershipKind) (map[uint]bool, error)
}

type membershipService struct {
	members repository.MembershipRepository
	recipes repository.RecipeRepository
}

// NewMembershipService returns a MembershipService over the given repositories.
func NewMembershipService(members repository.MembershipRepository, recipes repository.RecipeRepository) MembershipService {
	return &membershipService{members: members, recipes: recipes}
}

func (s *membershipService) Add(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) (*model.Recipe, error) {
	if !kind.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"kind": "unknown list"}}
	}

	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			return nil, ErrUnknownRecipe
		}
		return nil, fmt.Errorf("load recipe: %w", err)
	}

	if err := s.members.Add(ctx, userID, recipeID, kind); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyInList
		}
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}
	return recipe, nil
}

func (s *membershipService) Remove(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) error {
	if !kind.Valid() {
		return &ValidationError{Fields: map[string]string{"kind": "unknown list"}}
	}

	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return fmt.Errorf("remove %s: %w", kind, repository.ErrRecipeNotFound)
	}

	if err := s.members.Remove(ctx, userID, recipeID, kind); err != nil {
		if errors.Is(err, repository.ErrMembershipNotFound) {
			return ErrNotInList
		}
		return fmt.Errorf("remove %s: %w", kind, err)
	}
	return nil
}

func (s *membershipService) Contains(ctx context.Context, userID uint, recipeIDs []uint, kind model.MembershipKind) (map[uint]bool, error) {
	found, err := s.members.ContainedAmong(ctx, userID, recipeIDs, kind)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", kind, err)
	}
	return found, nil
}
