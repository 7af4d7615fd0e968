package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
)

// ShoppingListRepository reads the raw ingredient lines behind a user's shopping cart.
// Lines are returned unmerged; grouping and ordering belong to the caller.
type ShoppingListRepository interface {
	CartLines(ctx context.Context, userID uint) ([]model.IngredientLine, error)
}

const cartLinesQuery = `
SELECT i.name, i.measurement_unit, ri.amount
FROM recipe_memberships m
JOIN recipe_ingredients ri ON ri.recipe_id = m.recipe_id
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE m.user_id = $1 AND m.kind = $2`

type pgxShoppingListRepository struct {
	pool *pgxpool.Pool
}

// NewPgxShoppingListRepository reads cart lines straight from Postgres through pgx.
func NewPgxShoppingListRepository(pool *pgxpool.Pool) ShoppingListRepository {
	return &pgxShoppingListRepository{pool: pool}
}

func (r *pgxShoppingListRepository) CartLines(ctx context.Context, userID uint) ([]model.IngredientLine, error) {
	rows, err := r.pool.Query(ctx, cartLinesQuery, int64(userID), string(model.MembershipShoppingCart))
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.IngredientLine
	for rows.Next() {
		var line model.IngredientLine
		if err := rows.Scan(&line.Name, &line.Unit, &line.Amount); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}
	return lines, nil
}

type gormShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository returns the GORM-backed implementation, usable on any dialect.
func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &gormShoppingListRepository{db: db}
}

func (r *gormShoppingListRepository) CartLines(ctx context.Context, userID uint) ([]model.IngredientLine, error) {
	var lines []model.IngredientLine
	err := r.db.WithContext(ctx).
		Table("recipe_memberships AS m").
		Select("i.name AS name, i.measurement_unit AS unit, ri.amount AS amount").
		Joins("JOIN recipe_ingredients ri ON ri.recipe_id = m.recipe_id").
		Joins("JOIN ingredients i ON i.id = ri.ingredient_id").
		Where("m.user_id = ? AND m.kind = ?", userID, model.MembershipShoppingCart).
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("query cart lines: %w", err)
	}
	return lines, nil
}
