package repository

import (
	"context"
	"time"

	"github.com/deckdrop/deckdrop/internal/account/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) UpsertTier(ctx context.Context, userID string, tier domain.Tier, now time.Time) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO accounts (user_id, tier, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET tier = excluded.tier, updated_at = excluded.updated_at`,
		userID,
		tier,
		now,
		now,
	).Error
}

func (r *repo) FindByID(ctx context.Context, userID string) (*domain.Account, error) {
	var item domain.Account
	err := r.db.WithContext(ctx).Raw(
		`SELECT user_id, tier, created_at, updated_at
		 FROM accounts
		 WHERE user_id = ?
		 LIMIT 1`,
		userID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.UserID == "" {
		return nil, nil
	}
	return &item, nil
}
