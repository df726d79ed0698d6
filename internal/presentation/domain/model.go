package domain

import (
	"context"
	"time"
)

// Presentation is a shared deck with a limited lifetime. Records are
// created by the upload surface; this service only reads and deletes them.
type Presentation struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	Title     string    `json:"title" gorm:"type:text;not null;default:''"`
	FileURL   string    `json:"file_url" gorm:"type:text;not null;default:''"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
}

func (Presentation) TableName() string { return "presentations" }

type Repository interface {
	// ListExpired returns every presentation whose expiry is at or before
	// now.
	ListExpired(ctx context.Context, now time.Time) ([]Presentation, error)

	Delete(ctx context.Context, id string) error
}
