package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sifan077/FoodGram/internal/app/model"
)

func TestShoppingListService_Generate(t *testing.T) {
	repo := &mockShoppingListRepository{
		cartLinesFn: func(ctx context.Context, userID uint) ([]model.IngredientLine, error) {
			return []model.IngredientLine{
				{Name: "Flour", Unit: "g", Amount: 200},
				{Name: "Sugar", Unit: "g", Amount: 50},
				{Name: "Flour", Unit: "g", Amount: 300},
			}, nil
		},
	}
	svc := NewShoppingListService(repo, nil)

	list, err := svc.Generate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	want := []string{"Flour (g) - 500", "Sugar (g) - 50", "", "FoodGram 2024"}
	if diff := cmp.Diff(want, list.Lines()); diff != "" {
		t.Fatalf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if got := list.Text(); got != "Flour (g) - 500\nSugar (g) - 50\n\nFoodGram 2024" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestShoppingListService_EmptyCart(t *testing.T) {
	svc := NewShoppingListService(&mockShoppingListRepository{}, nil)

	list, err := svc.Generate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"", "FoodGram 2024"}, list.Lines()); diff != "" {
		t.Fatalf("Lines() mismatch (-want +got):\n%s", diff)
	}
	if list.Text() != "\nFoodGram 2024" {
		t.Fatalf("unexpected text %q", list.Text())
	}
}

func TestShoppingListService_StoreError(t *testing.T) {
	boom := errors.New("boom")
	repo := &mockShoppingListRepository{
		cartLinesFn: func(ctx context.Context, userID uint) ([]model.IngredientLine, error) {
			return nil, boom
		},
	}
	_, err := NewShoppingListService(repo, nil).Generate(context.Background(), 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAggregate_GroupsByNameAndUnitAndSortsBytewise(t *testing.T) {
	list := Aggregate([]model.IngredientLine{
		{Name: "milk", Unit: "ml", Amount: 100},
		{Name: "Sugar", Unit: "tbsp", Amount: 2},
		{Name: "Sugar", Unit: "g", Amount: 10},
		{Name: "milk", Unit: "ml", Amount: 150},
		{Name: "Apple", Unit: "pcs", Amount: 3},
	})

	want := []ShoppingListEntry{
		{Name: "Apple", Unit: "pcs", Amount: 3},
		{Name: "Sugar", Unit: "g", Amount: 10},
		{Name: "Sugar", Unit: "tbsp", Amount: 2},
		{Name: "milk", Unit: "ml", Amount: 250},
	}
	if diff := cmp.Diff(want, list.Entries()); diff != "" {
		t.Fatalf("Entries() mismatch (-want +got):\n%s", diff)
	}
}
