package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrIngredientNotFound signals that the requested ingredient does not exist.
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// IngredientRepository defines the data access contract for ingredient reference data.
type IngredientRepository interface {
	// Search returns ingredients whose name starts with prefix, case-insensitively.
	Search(ctx context.Context, prefix string) ([]model.Ingredient, error)
	GetByID(ctx context.Context, id uint) (*model.Ingredient, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Ingredient, error)
	// CreateBatch inserts ingredients, skipping (name, unit) pairs already present.
	CreateBatch(ctx context.Context, ingredients []model.Ingredient) (int64, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository returns a GORM-backed IngredientRepository.
func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) Search(ctx context.Context, prefix string) ([]model.Ingredient, error) {
	query := r.db.WithContext(ctx).Model(&model.Ingredient{})
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%")
	}

	var result []model.Ingredient
	if err := query.Order("name ASC").Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ingredientRepository) GetByID(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var result []model.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *ingredientRepository) CreateBatch(ctx context.Context, ingredients []model.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, 500)
	return result.RowsAffected, result.Error
}
