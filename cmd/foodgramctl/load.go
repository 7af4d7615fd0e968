package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sifan077/FoodGram/internal/app/model"
	"github.com/sifan077/FoodGram/internal/app/repository"
	"github.com/sifan077/FoodGram/internal/infra/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ingredientRecord struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagRecord struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

var (
	ingredientsFile string
	tagsFile        string
)

var loadIngredientsCmd = &cobra.Command{
	Use:   "load-ingredients",
	Short: "Import ingredients from a JSON file, skipping ones already present",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return err
		}
		defer f.Close()

		ingredients, err := readIngredients(f)
		if err != nil {
			return fmt.Errorf("%s: %w", ingredientsFile, err)
		}

		return withDB(func(db *gorm.DB) error {
			created, err := repository.NewIngredientRepository(db).CreateBatch(cmd.Context(), ingredients)
			if err != nil {
				return err
			}
			logger.L().Info("ingredients loaded",
				zap.Int("read", len(ingredients)),
				zap.Int64("created", created),
			)
			return nil
		})
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "load-tags",
	Short: "Import tags from a JSON file, skipping ones already present",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(tagsFile)
		if err != nil {
			return err
		}
		defer f.Close()

		tags, err := readTags(f)
		if err != nil {
			return fmt.Errorf("%s: %w", tagsFile, err)
		}

		return withDB(func(db *gorm.DB) error {
			created, err := repository.NewTagRepository(db).CreateBatch(cmd.Context(), tags)
			if err != nil {
				return err
			}
			logger.L().Info("tags loaded", zap.Int("read", len(tags)), zap.Int64("created", created))
			return nil
		})
	},
}

func init() {
	loadIngredientsCmd.Flags().StringVarP(&ingredientsFile, "file", "f", "data/ingredients.json", "path to the ingredients JSON file")
	loadTagsCmd.Flags().StringVarP(&tagsFile, "file", "f", "data/tags.json", "path to the tags JSON file")
	rootCmd.AddCommand(loadIngredientsCmd, loadTagsCmd)
}

// readIngredients decodes a JSON array of ingredients, trimming names and
// dropping duplicates within the file.
func readIngredients(r io.Reader) ([]model.Ingredient, error) {
	var records []ingredientRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}

	type key struct{ name, unit string }
	seen := make(map[key]bool, len(records))
	ingredients := make([]model.Ingredient, 0, len(records))
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		unit := strings.TrimSpace(rec.MeasurementUnit)
		if name == "" || unit == "" {
			return nil, fmt.Errorf("ingredient %d: name and measurement_unit are required", i)
		}
		k := key{name, unit}
		if seen[k] {
			continue
		}
		seen[k] = true
		ingredients = append(ingredients, model.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return ingredients, nil
}

func readTags(r io.Reader) ([]model.Tag, error) {
	var records []tagRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	tags := make([]model.Tag, 0, len(records))
	for i, rec := range records {
		name := strings.TrimSpace(rec.Name)
		slug := strings.TrimSpace(rec.Slug)
		if name == "" || slug == "" {
			return nil, fmt.Errorf("tag %d: name and slug are required", i)
		}
		tags = append(tags, model.Tag{Name: name, Slug: slug})
	}
	return tags, nil
}
