package model

// IngredientLine is a single ingredient entry of a recipe sitting in a shopping cart.
type IngredientLine struct {
	Name   string
	Unit   string
	Amount int
}
