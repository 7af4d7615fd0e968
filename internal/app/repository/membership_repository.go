package repository

import (
	"context"
	"errors"

	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrMembershipNotFound signals that the recipe is not in the user's list.
	ErrMembershipNotFound = errors.New("recipe is not in the list")
)

// MembershipRepository stores favorites and shopping cart entries alike; kind picks the list.
type MembershipRepository interface {
	Add(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) error
	Remove(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) error
	Exists(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) (bool, error)
	// ContainedAmong returns the subset of recipeIDs present in the user's list.
	ContainedAmong(ctx context.Context, userID uint, recipeIDs []uint, kind model.MembershipKind) (map[uint]bool, error)
}

type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository returns a GORM-backed MembershipRepository.
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Add(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) error {
	entry := &model.Membership{UserID: userID, RecipeID: recipeID, Kind: kind}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *membershipRepository) Remove(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&model.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

func (r *membershipRepository) Exists(ctx context.Context, userID, recipeID uint, kind model.MembershipKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error
	return count > 0, err
}

func (r *membershipRepository) ContainedAmong(ctx context.Context, userID uint, recipeIDs []uint, kind model.MembershipKind) (map[uint]bool, error) {
	result := make(map[uint]bool, len(recipeIDs))
	if userID == 0 || len(recipeIDs) == 0 {
		return result, nil
	}

	var contained []uint
	if err := r.db.WithContext(ctx).Model(&model.Membership{}).
		Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Pluck("recipe_id", &contained).Error; err != nil {
		return nil, err
	}
	for _, id := range contained {
		result[id] = true
	}
	return result, nil
}
