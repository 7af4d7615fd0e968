package main

import (
	"strings"
	"testing"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIngredients(t *testing.T) {
	input := `[
		{"name": " flour ", "measurement_unit": "g"},
		{"name": "milk", "measurement_unit": "ml"},
		{"name": "flour", "measurement_unit": "g"},
		{"name": "flour", "measurement_unit": "cup"}
	]`

	got, err := readIngredients(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []model.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "flour", MeasurementUnit: "cup"},
	}, got)
}

func TestReadIngredientsRejectsIncompleteRecords(t *testing.T) {
	_, err := readIngredients(strings.NewReader(`[{"name": "salt"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingredient 0")

	_, err = readIngredients(strings.NewReader(`{"name": "salt"}`))
	require.Error(t, err)
}

func TestReadTags(t *testing.T) {
	got, err := readTags(strings.NewReader(`[{"name": "Breakfast", "slug": "breakfast"}]`))
	require.NoError(t, err)
	assert.Equal(t, []model.Tag{{Name: "Breakfast", Slug: "breakfast"}}, got)

	_, err = readTags(strings.NewReader(`[{"name": "Lunch", "slug": " "}]`))
	require.Error(t, err)
}
