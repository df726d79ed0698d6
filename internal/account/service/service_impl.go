package service

import (
	"context"
	"strings"

	"github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("account.service"),
		repo:  p.Repo,
		clock: p.Clock,
	}
}

// GrantPremium upgrades the account to the premium tier. The transition is
// monotonic: there is no downgrade path, and writing the same tier twice
// produces no observable difference, so duplicate confirmations are safe.
func (s *Service) GrantPremium(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.ErrInvalidUser
	}

	if err := s.repo.UpsertTier(ctx, userID, domain.TierPremium, s.clock.Now()); err != nil {
		s.log.Error("entitlement grant failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("account upgraded to premium", zap.String("user_id", userID))
	return nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Account, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.FindByID(ctx, userID)
}
