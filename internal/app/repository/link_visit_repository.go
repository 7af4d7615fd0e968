package repository

import (
	"context"

	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
)

// LinkVisitRepository defines the data access contract for short link visits.
type LinkVisitRepository interface {
	Create(ctx context.Context, visit *model.LinkVisit) error
	CountByRecipe(ctx context.Context, recipeID uint) (int64, error)
}

type linkVisitRepository struct {
	db *gorm.DB
}

// NewLinkVisitRepository returns a GORM-backed LinkVisitRepository.
func NewLinkVisitRepository(db *gorm.DB) LinkVisitRepository {
	return &linkVisitRepository{db: db}
}

func (r *linkVisitRepository) Create(ctx context.Context, visit *model.LinkVisit) error {
	// Redelivered events carry the same id; storing them twice would double count.
	err := r.db.WithContext(ctx).Create(visit).Error
	if isDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *linkVisitRepository) CountByRecipe(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.LinkVisit{}).Where("recipe_id = ?", recipeID).Count(&count).Error
	return count, err
}
