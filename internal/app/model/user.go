package model

import "time"

// User is a registered account; recipes, memberships and subscriptions hang off it.
type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"size:254;not null;uniqueIndex"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	FirstName    string    `gorm:"size:150;not null"`
	LastName     string    `gorm:"size:150;not null"`
	PasswordHash string    `gorm:"size:128;not null"`
	Avatar       string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// Subscription records that User follows Author.
type Subscription struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	AuthorID  uint      `gorm:"not null;uniqueIndex:idx_subscription_user_author;index"`
	Author    User      `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
