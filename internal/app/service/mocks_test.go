package service

import (
	"context"
	"sync"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
)

type mockShortLinkRepository struct {
	createFn      func(ctx context.Context, link *model.ShortLink) error
	getByRecipeFn func(ctx context.Context, recipeID uint) (*model.ShortLink, error)
	getByTokenFn  func(ctx context.Context, token string) (*model.ShortLink, error)
	listTokensFn  func(ctx context.Context) ([]string, error)
}

func (m *mockShortLinkRepository) Create(ctx context.Context, link *model.ShortLink) error {
	if m.createFn != nil {
		return m.createFn(ctx, link)
	}
	return nil
}

func (m *mockShortLinkRepository) GetByRecipe(ctx context.Context, recipeID uint) (*model.ShortLink, error) {
	if m.getByRecipeFn != nil {
		return m.getByRecipeFn(ctx, recipeID)
	}
	return nil, repository.ErrShortLinkNotFound
}

func (m *mockShortLinkRepository) GetByToken(ctx context.Context, token string) (*model.ShortLink, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, repository.ErrShortLinkNotFound
}

func (m *mockShortLinkRepository) ListTokens(ctx context.Context) ([]string, error) {
	if m.listTokensFn != nil {
		return m.listTokensFn(ctx)
	}
	return nil, nil
}

type mockRecipeRepository struct {
	existsFn  func(ctx context.Context, id uint) (bool, error)
	getByIDFn func(ctx context.Context, id uint) (*model.Recipe, error)
}

func (m *mockRecipeRepository) Create(ctx context.Context, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error {
	return nil
}

func (m *mockRecipeRepository) Update(ctx context.Context, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error {
	return nil
}

func (m *mockRecipeRepository) Delete(ctx context.Context, id uint) error {
	return nil
}

func (m *mockRecipeRepository) GetByID(ctx context.Context, id uint) (*model.Recipe, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrRecipeNotFound
}

func (m *mockRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

func (m *mockRecipeRepository) List(ctx context.Context, filter repository.RecipeFilter, limit, offset int) ([]model.Recipe, int64, error) {
	return nil, 0, nil
}

func (m *mockRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]model.Recipe, error) {
	return nil, nil
}

func (m *mockRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	return map[uint]int64{}, nil
}

type mockShoppingListRepository struct {
	cartLinesFn func(ctx context.Context, userID uint) ([]model.IngredientLine, error)
}

func (m *mockShoppingListRepository) CartLines(ctx context.Context, userID uint) ([]model.IngredientLine, error) {
	if m.cartLinesFn != nil {
		return m.cartLinesFn(ctx, userID)
	}
	return nil, nil
}

type mockLinkVisitRepository struct {
	countFn func(ctx context.Context, recipeID uint) (int64, error)
}

func (m *mockLinkVisitRepository) Create(ctx context.Context, visit *model.LinkVisit) error {
	return nil
}

func (m *mockLinkVisitRepository) CountByRecipe(ctx context.Context, recipeID uint) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, recipeID)
	}
	return 0, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	visits chan model.LinkVisit
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{visits: make(chan model.LinkVisit, 8)}
}

func (p *recordingPublisher) Publish(visit model.LinkVisit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visits <- visit
	return nil
}

// sequenceSource replays fixed indices into a shortlink.Generator.
type sequenceSource struct {
	values []int
	pos    int
}

func (s *sequenceSource) IntN(n int) int {
	v := s.values[s.pos%len(s.values)] % n
	s.pos++
	return v
}

// tokens returns a source yielding the given alphabet-index tokens in order.
func tokens(indices ...[4]int) *sequenceSource {
	src := &sequenceSource{}
	for _, idx := range indices {
		src.values = append(src.values, idx[0], idx[1], idx[2], idx[3])
	}
	return src
}
