package model

import "time"

// ShortLink binds a short token to a recipe. It is created once and never changes.
type ShortLink struct {
	RecipeID     uint      `gorm:"primaryKey;autoIncrement:false"`
	Token        string    `gorm:"size:16;not null;uniqueIndex"`
	CanonicalURL string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// LinkVisit represents a resolved short link.
type LinkVisit struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Token     string    `json:"token" gorm:"size:16;not null;index"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;index"`
	IP        string    `json:"ip" gorm:"size:64"`
	UserAgent string    `json:"user_agent" gorm:"type:text"`
	VisitedAt time.Time `json:"visited_at" gorm:"not null"`
}

const (
	VisitStreamName     = "LINK_VISITS"
	VisitStreamSubject  = "links.visits"
	VisitConsumerName   = "visit-recorder"
	VisitStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
