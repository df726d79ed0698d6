package repository

import (
	"context"
	"time"

	"github.com/deckdrop/deckdrop/internal/presentation/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) ListExpired(ctx context.Context, now time.Time) ([]domain.Presentation, error) {
	var items []domain.Presentation
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, title, file_url, expires_at, created_at
		 FROM presentations
		 WHERE expires_at <= ?`,
		now,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM presentations WHERE id = ?`,
		id,
	).Error
}
