package service

import (
	"context"
	"strings"

	accountdomain "github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/deckdrop/deckdrop/internal/config"
	obsmetrics "github.com/deckdrop/deckdrop/internal/observability/metrics"
	"github.com/deckdrop/deckdrop/internal/payment/domain"
	"github.com/deckdrop/deckdrop/internal/payment/gateway/razorpay"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// The notes key carrying the purchasing user's identity through to
// asynchronous webhook delivery.
const notesUserIDKey = "user_id"

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Plan       *config.PlanConfigHolder
	Gateway    razorpay.Client
	AccountSvc accountdomain.Service
	Clock      clock.Clock
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log        *zap.Logger
	keySecret  string
	plan       *config.PlanConfigHolder
	gateway    razorpay.Client
	accountSvc accountdomain.Service
	clock      clock.Clock
	metrics    *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		log:        p.Log.Named("payment.service"),
		keySecret:  p.Cfg.Razorpay.KeySecret,
		plan:       p.Plan,
		gateway:    p.Gateway,
		accountSvc: p.AccountSvc,
		clock:      p.Clock,
		metrics:    p.Metrics,
	}
}

// CreateOrder requests a new order from the gateway. Amount and currency
// come from server config only; nothing price-related is accepted from the
// caller. The user's identity rides along in the order notes so a later
// webhook delivery can recover it without a session.
func (s *Service) CreateOrder(ctx context.Context, userID string) (*domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, accountdomain.ErrInvalidUser
	}

	plan := s.plan.Get()
	receipt := makeReceipt(userID, s.clock.Now())

	orderID, err := s.gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:   plan.Amount,
		Currency: plan.Currency,
		Receipt:  receipt,
		Notes:    map[string]string{notesUserIDKey: userID},
	})
	if err != nil {
		s.log.Error("gateway order creation failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		s.metrics.IncOrderCreated("error")
		return nil, domain.ErrOrderCreateFailed
	}

	s.log.Info("gateway order created",
		zap.String("user_id", userID),
		zap.String("order_id", orderID),
	)
	s.metrics.IncOrderCreated("ok")

	return &domain.Order{
		ID:       orderID,
		Amount:   plan.Amount,
		Currency: plan.Currency,
		Receipt:  receipt,
	}, nil
}

// ConfirmClient recomputes the payment signature and, only on a match,
// grants the premium entitlement. A gateway- or client-supplied success
// flag is never trusted; the recomputation is the sole source of truth.
func (s *Service) ConfirmClient(ctx context.Context, confirmation domain.ClientConfirmation) error {
	userID := strings.TrimSpace(confirmation.UserID)
	if userID == "" {
		return accountdomain.ErrInvalidUser
	}

	if !razorpay.VerifyPaymentSignature(s.keySecret, confirmation.OrderID, confirmation.PaymentID, confirmation.Signature) {
		s.log.Error("payment verification failed",
			zap.String("user_id", userID),
			zap.String("order_id", confirmation.OrderID),
			zap.String("payment_id", confirmation.PaymentID),
		)
		s.metrics.IncConfirmation("client", "invalid_signature")
		return domain.ErrInvalidSignature
	}

	if err := s.accountSvc.GrantPremium(ctx, userID); err != nil {
		s.metrics.IncConfirmation("client", "error")
		return err
	}

	s.log.Info("payment verified",
		zap.String("user_id", userID),
		zap.String("order_id", confirmation.OrderID),
		zap.String("payment_id", confirmation.PaymentID),
	)
	s.metrics.IncConfirmation("client", "ok")
	return nil
}
