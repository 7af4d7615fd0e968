package model

import "time"

// MembershipKind tags which per-user recipe list a Membership belongs to.
type MembershipKind string

const (
	MembershipFavorite     MembershipKind = "favorite"
	MembershipShoppingCart MembershipKind = "shopping_cart"
)

// Valid reports whether k is one of the known list kinds.
func (k MembershipKind) Valid() bool {
	return k == MembershipFavorite || k == MembershipShoppingCart
}

// Membership places a recipe in one of a user's lists (favorites or shopping cart).
// A (user, recipe, kind) triple exists at most once.
type Membership struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_membership_user_recipe_kind"`
	RecipeID  uint           `gorm:"not null;uniqueIndex:idx_membership_user_recipe_kind;index"`
	Kind      MembershipKind `gorm:"size:16;not null;uniqueIndex:idx_membership_user_recipe_kind"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Membership) TableName() string {
	return "recipe_memberships"
}
