package model

import "time"

// Ingredient is immutable reference data loaded by foodgramctl.
type Ingredient struct {
	ID              uint   `gorm:"primaryKey"`
	Name            string `gorm:"size:256;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `gorm:"size:64;not null;uniqueIndex:idx_ingredient_name_unit"`
}

type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:256;not null;uniqueIndex"`
	Slug string `gorm:"size:256;not null;uniqueIndex"`
}

// Recipe describes a published recipe together with its composition.
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      User               `gorm:"foreignKey:AuthorID"`
	Name        string             `gorm:"size:256;not null"`
	Image       string             `gorm:"type:text;not null"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null"`
	PubDate     time.Time          `gorm:"autoCreateTime;index"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Tags        []Tag              `gorm:"many2many:recipe_tags"`
}

// RecipeIngredient is one ingredient line of a recipe. Amount is always positive.
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient;index"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	Amount       int        `gorm:"not null"`
}
