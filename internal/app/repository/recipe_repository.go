package repository

import (
	"context"
	"errors"

	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrRecipeNotFound signals that the requested recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// RecipeFilter narrows recipe listings. Zero values disable a criterion.
type RecipeFilter struct {
	AuthorID uint
	// TagSlugs matches recipes carrying any of the slugs.
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

// RecipeRepository defines the data access contract for recipes and their composition.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error
	Update(ctx context.Context, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*model.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, filter RecipeFilter, limit, offset int) ([]model.Recipe, int64, error)
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a GORM-backed RecipeRepository.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe, lines, tags)
	})
}

func (r *recipeRepository) Update(ctx context.Context, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"image":        recipe.Image,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return replaceComposition(tx, recipe, lines, tags)
	})
}

// replaceComposition swaps the ingredient lines and tags of recipe inside tx.
func replaceComposition(tx *gorm.DB, recipe *model.Recipe, lines []model.RecipeIngredient, tags []model.Tag) error {
	if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(lines) > 0 {
		for i := range lines {
			lines[i].ID = 0
			lines[i].RecipeID = recipe.ID
		}
		if err := tx.Omit("Ingredient").Create(&lines).Error; err != nil {
			return err
		}
	}
	return tx.Model(recipe).Association("Tags").Replace(tags)
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&model.RecipeIngredient{},
			&model.Membership{},
			&model.ShortLink{},
			&model.LinkVisit{},
		}
		for _, dep := range dependents {
			if err := tx.Where("recipe_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := withComposition(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter, limit, offset int) ([]model.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Recipe{})

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.FavoritedBy != 0 {
		query = query.Where("recipes.id IN (?)", r.memberRecipes(filter.FavoritedBy, model.MembershipFavorite))
	}
	if filter.InCartOf != 0 {
		query = query.Where("recipes.id IN (?)", r.memberRecipes(filter.InCartOf, model.MembershipShoppingCart))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []model.Recipe
	if err := withComposition(applyPagination(query, limit, offset)).
		Order("recipes.pub_date DESC").
		Order("recipes.id DESC").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (r *recipeRepository) memberRecipes(userID uint, kind model.MembershipKind) *gorm.DB {
	return r.db.Model(&model.Membership{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]model.Recipe, error) {
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func withComposition(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id ASC") }).
		Preload("Ingredients.Ingredient")
}
