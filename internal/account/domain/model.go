package domain

import (
	"context"
	"errors"
	"time"
)

type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

var ErrInvalidUser = errors.New("invalid_user")

// Account is the persisted subscription state for one user.
type Account struct {
	UserID    string    `json:"user_id" gorm:"primaryKey;type:text"`
	Tier      Tier      `json:"tier" gorm:"type:text;not null;default:'free'"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Account) TableName() string { return "accounts" }

type Service interface {
	// GrantPremium sets the user's tier to premium. The write is
	// idempotent: granting an already-premium account is a no-op.
	GrantPremium(ctx context.Context, userID string) error

	Get(ctx context.Context, userID string) (*Account, error)
}

type Repository interface {
	UpsertTier(ctx context.Context, userID string, tier Tier, now time.Time) error
	FindByID(ctx context.Context, userID string) (*Account, error)
}
