package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	metrics "github.com/sifan077/FoodGram/internal/infra/prometheus"
	"go.uber.org/zap"
)

const shoppingListFooter = "FoodGram 2024"

// ShoppingListEntry is one merged (name, unit) row of a shopping list.
type ShoppingListEntry struct {
	Name   string
	Unit   string
	Amount int
}

// ShoppingList is the merged, ordered ingredient list of a shopping cart.
type ShoppingList struct {
	entries []ShoppingListEntry
}

// Entries returns the merged rows ordered by name, then unit.
func (l ShoppingList) Entries() []ShoppingListEntry {
	return slices.Clone(l.entries)
}

// Lines renders the report: one line per entry, a blank separator and the footer.
func (l ShoppingList) Lines() []string {
	lines := make([]string, 0, len(l.entries)+2)
	for _, e := range l.entries {
		lines = append(lines, e.Name+" ("+e.Unit+") - "+strconv.Itoa(e.Amount))
	}
	return append(lines, "", shoppingListFooter)
}

// Text joins Lines with newlines.
func (l ShoppingList) Text() string {
	return strings.Join(l.Lines(), "\n")
}

// Aggregate merges lines sharing a name and unit and orders the result byte-wise by name, then unit.
func Aggregate(lines []model.IngredientLine) ShoppingList {
	type key struct{ name, unit string }

	sums := make(map[key]int, len(lines))
	for _, line := range lines {
		sums[key{line.Name, line.Unit}] += line.Amount
	}

	entries := make([]ShoppingListEntry, 0, len(sums))
	for k, amount := range sums {
		entries = append(entries, ShoppingListEntry{Name: k.name, Unit: k.unit, Amount: amount})
	}
	slices.SortFunc(entries, func(a, b ShoppingListEntry) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Unit, b.Unit)
	})
	return ShoppingList{entries: entries}
}

// ShoppingListService builds shopping lists from users' carts.
type ShoppingListService interface {
	Generate(ctx context.Context, userID uint) (ShoppingList, error)
}

type shoppingListService struct {
	repo   repository.ShoppingListRepository
	logger *zap.Logger
}

// NewShoppingListService returns a ShoppingListService reading cart lines from repo.
func NewShoppingListService(repo repository.ShoppingListRepository, logger *zap.Logger) ShoppingListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &shoppingListService{repo: repo, logger: logger}
}

func (s *shoppingListService) Generate(ctx context.Context, userID uint) (ShoppingList, error) {
	lines, err := s.repo.CartLines(ctx, userID)
	if err != nil {
		return ShoppingList{}, fmt.Errorf("generate shopping list: %w", err)
	}

	list := Aggregate(lines)
	metrics.ShoppingListsGenerated.Inc()
	s.logger.Debug("shopping list generated",
		zap.Uint("user_id", userID),
		zap.Int("source_lines", len(lines)),
		zap.Int("entries", len(list.entries)),
	)
	return list, nil
}
