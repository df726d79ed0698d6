package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/account/repository"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Account{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return NewService(Params{
		Log:   zap.NewNop(),
		Repo:  repository.Provide(db),
		Clock: clock.NewFakeClock(time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)),
	})
}

func TestGrantPremiumUpsertsAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.GrantPremium(ctx, "user-1"); err != nil {
		t.Fatalf("grant: %v", err)
	}

	acct, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acct == nil || acct.Tier != domain.TierPremium {
		t.Fatalf("expected premium account, got %+v", acct)
	}
}

func TestGrantPremiumIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.GrantPremium(ctx, "user-1"); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if err := svc.GrantPremium(ctx, "user-1"); err != nil {
		t.Fatalf("second grant: %v", err)
	}

	acct, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if acct == nil || acct.Tier != domain.TierPremium {
		t.Fatalf("expected premium account after duplicate grant, got %+v", acct)
	}
}

func TestGrantPremiumRejectsEmptyUser(t *testing.T) {
	svc := newTestService(t)

	err := svc.GrantPremium(context.Background(), "  ")
	if !errors.Is(err, domain.ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser, got %v", err)
	}
}
