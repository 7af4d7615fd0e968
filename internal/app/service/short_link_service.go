package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/app/shortlink"
	metrics "github.com/sifan077/FoodGram/internal/infra/prometheus"
	"go.uber.org/zap"
)

const (
	defaultMaxTokenAttempts = 8
	// filterSkips bounds how many candidates are discarded because the filter has seen them.
	filterSkips = 16
)

// Visitor identifies who followed a short link.
type Visitor struct {
	IP        string
	UserAgent string
}

// ShortLinkService issues recipe short links and resolves them back.
type ShortLinkService interface {
	GetOrCreate(ctx context.Context, recipeID uint) (*model.ShortLink, error)
	Resolve(ctx context.Context, token string, visitor Visitor) (string, error)
	ShortURL(link *model.ShortLink) string
	Visits(ctx context.Context, actorID, recipeID uint) (int64, error)
}

// ShortLinkOptions configures NewShortLinkService. Zero fields fall back to defaults.
type ShortLinkOptions struct {
	BaseURL     string
	Generator   *shortlink.Generator
	Filter      TokenFilter
	Publisher   VisitPublisher
	Visits      repository.LinkVisitRepository
	Logger      *zap.Logger
	MaxAttempts int
}

type shortLinkService struct {
	links       repository.ShortLinkRepository
	recipes     repository.RecipeRepository
	visits      repository.LinkVisitRepository
	baseURL     string
	generator   *shortlink.Generator
	filter      TokenFilter
	publisher   VisitPublisher
	logger      *zap.Logger
	maxAttempts int
}

// NewShortLinkService returns a ShortLinkService backed by the given repositories.
func NewShortLinkService(links repository.ShortLinkRepository, recipes repository.RecipeRepository, opts ShortLinkOptions) ShortLinkService {
	s := &shortLinkService{
		links:       links,
		recipes:     recipes,
		visits:      opts.Visits,
		baseURL:     opts.BaseURL,
		generator:   opts.Generator,
		filter:      opts.Filter,
		publisher:   opts.Publisher,
		logger:      opts.Logger,
		maxAttempts: opts.MaxAttempts,
	}
	if s.generator == nil {
		s.generator = shortlink.NewGenerator(nil)
	}
	if s.filter == nil {
		s.filter = NewBloomTokenFilter(0, 0)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultMaxTokenAttempts
	}
	return s
}

func (s *shortLinkService) GetOrCreate(ctx context.Context, recipeID uint) (*model.ShortLink, error) {
	link, err := s.links.GetByRecipe(ctx, recipeID)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repository.ErrShortLinkNotFound) {
		return nil, fmt.Errorf("load short link: %w", err)
	}

	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("check recipe: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("get short link: %w", repository.ErrRecipeNotFound)
	}

	canonical := shortlink.CanonicalURL(s.baseURL, recipeID)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		link := &model.ShortLink{
			RecipeID:     recipeID,
			Token:        s.candidate(),
			CanonicalURL: canonical,
		}

		err := s.links.Create(ctx, link)
		if err == nil {
			s.filter.Add(link.Token)
			metrics.ShortLinksCreated.Inc()
			s.logger.Info("short link created",
				zap.Uint("recipe_id", recipeID),
				zap.String("token", link.Token),
				zap.Int("attempt", attempt),
			)
			return link, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("create short link: %w", err)
		}

		// A concurrent request may have bound the recipe first.
		existing, getErr := s.links.GetByRecipe(ctx, recipeID)
		if getErr == nil {
			return existing, nil
		}
		if !errors.Is(getErr, repository.ErrShortLinkNotFound) {
			return nil, fmt.Errorf("reload short link: %w", getErr)
		}

		s.filter.Add(link.Token)
		metrics.ShortLinkCollisions.Inc()
		s.logger.Debug("short link token collision",
			zap.Uint("recipe_id", recipeID),
			zap.String("token", link.Token),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Error("short link token attempts exhausted",
		zap.Uint("recipe_id", recipeID),
		zap.Int("attempts", s.maxAttempts),
	)
	return nil, ErrTokenSpaceExhausted
}

// candidate draws a token the filter has not seen, or the last draw if every one was seen.
func (s *shortLinkService) candidate() string {
	token := s.generator.Next()
	for i := 1; i < filterSkips && s.filter.Test(token); i++ {
		token = s.generator.Next()
	}
	return token
}

func (s *shortLinkService) Resolve(ctx context.Context, token string, visitor Visitor) (string, error) {
	link, err := s.links.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrShortLinkNotFound) {
			metrics.ShortLinkResolutions.WithLabelValues("miss").Inc()
		}
		return "", fmt.Errorf("resolve short link: %w", err)
	}

	target, err := shortlink.RedirectTarget(link.CanonicalURL)
	if err != nil {
		return "", fmt.Errorf("resolve short link: %w", err)
	}
	metrics.ShortLinkResolutions.WithLabelValues("hit").Inc()

	if s.publisher != nil {
		go s.publishVisit(link, visitor)
	}
	return target, nil
}

func (s *shortLinkService) publishVisit(link *model.ShortLink, visitor Visitor) {
	visit := model.LinkVisit{
		Token:     link.Token,
		RecipeID:  link.RecipeID,
		IP:        visitor.IP,
		UserAgent: visitor.UserAgent,
	}
	if err := s.publisher.Publish(visit); err != nil {
		s.logger.Error("failed to publish link visit", zap.Error(err), zap.String("token", link.Token))
	}
}

func (s *shortLinkService) ShortURL(link *model.ShortLink) string {
	return shortlink.ShortURL(s.baseURL, link.Token)
}

func (s *shortLinkService) Visits(ctx context.Context, actorID, recipeID uint) (int64, error) {
	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		return 0, fmt.Errorf("load recipe: %w", err)
	}
	if recipe.AuthorID != actorID {
		return 0, ErrForbidden
	}
	if s.visits == nil {
		return 0, nil
	}

	count, err := s.visits.CountByRecipe(ctx, recipeID)
	if err != nil {
		return 0, fmt.Errorf("count link visits: %w", err)
	}
	return count, nil
}
