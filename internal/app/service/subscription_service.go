package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
)

// AuthorView is a followed author with a preview of their recipes.
type AuthorView struct {
	User         model.User
	IsSubscribed bool
	Recipes      []model.Recipe
	RecipesCount int64
}

// SubscriptionService manages who follows whom.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorView, error)
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	List(ctx context.Context, userID uint, limit, offset, recipesLimit int) ([]AuthorView, int64, error)
}

type subscriptionService struct {
	subs    repository.SubscriptionRepository
	users   repository.UserRepository
	recipes repository.RecipeRepository
}

// NewSubscriptionService returns a SubscriptionService over the given repositories.
func NewSubscriptionService(subs repository.SubscriptionRepository, users repository.UserRepository, recipes repository.RecipeRepository) SubscriptionService {
	return &subscriptionService{subs: subs, users: users, recipes: recipes}
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*AuthorView, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("load author: %w", err)
	}

	if err := s.subs.Create(ctx, &model.Subscription{UserID: userID, AuthorID: authorID}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	views, err := s.authorViews(ctx, []model.User{*author}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	if _, err := s.users.GetByID(ctx, authorID); err != nil {
		return fmt.Errorf("load author: %w", err)
	}
	if err := s.subs.Delete(ctx, userID, authorID); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrNotSubscribed
		}
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

func (s *subscriptionService) List(ctx context.Context, userID uint, limit, offset, recipesLimit int) ([]AuthorView, int64, error) {
	authors, total, err := s.subs.ListAuthors(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list subscriptions: %w", err)
	}
	views, err := s.authorViews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// authorViews attaches recipe previews and counts. Every author here is followed by the caller.
func (s *subscriptionService) authorViews(ctx context.Context, authors []model.User, recipesLimit int) ([]AuthorView, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountByAuthors(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count recipes: %w", err)
	}

	views := make([]AuthorView, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.recipes.ListByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, fmt.Errorf("list author recipes: %w", err)
		}
		views = append(views, AuthorView{
			User:         a,
			IsSubscribed: true,
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}
	return views, nil
}
