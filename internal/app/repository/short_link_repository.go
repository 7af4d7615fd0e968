package repository

import (
	"context"
	"errors"

	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrShortLinkNotFound signals that the requested short link does not exist.
	ErrShortLinkNotFound = errors.New("short link not found")
)

// ShortLinkRepository defines the data access contract for short links.
type ShortLinkRepository interface {
	// Create inserts link and returns ErrDuplicate when either the recipe
	// already owns a link or the token is taken.
	Create(ctx context.Context, link *model.ShortLink) error
	GetByRecipe(ctx context.Context, recipeID uint) (*model.ShortLink, error)
	GetByToken(ctx context.Context, token string) (*model.ShortLink, error)
	ListTokens(ctx context.Context) ([]string, error)
}

type shortLinkRepository struct {
	db *gorm.DB
}

// NewShortLinkRepository returns a GORM-backed ShortLinkRepository.
func NewShortLinkRepository(db *gorm.DB) ShortLinkRepository {
	return &shortLinkRepository{db: db}
}

func (r *shortLinkRepository) Create(ctx context.Context, link *model.ShortLink) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *shortLinkRepository) GetByRecipe(ctx context.Context, recipeID uint) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShortLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *shortLinkRepository) GetByToken(ctx context.Context, token string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShortLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *shortLinkRepository) ListTokens(ctx context.Context) ([]string, error) {
	var tokens []string
	if err := r.db.WithContext(ctx).Model(&model.ShortLink{}).Pluck("token", &tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}
