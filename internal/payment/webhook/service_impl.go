package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/deckdrop/deckdrop/internal/config"
	obsmetrics "github.com/deckdrop/deckdrop/internal/observability/metrics"
	"github.com/deckdrop/deckdrop/internal/payment/domain"
	"github.com/deckdrop/deckdrop/internal/payment/gateway/razorpay"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	provider = "razorpay"

	signatureHeader = "X-Razorpay-Signature"
	eventIDHeader   = "X-Razorpay-Event-Id"

	eventPaymentCaptured = "payment.captured"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	GenID      *snowflake.Node
	Repo       domain.Repository
	AccountSvc accountdomain.Service
	Clock      clock.Clock
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log           *zap.Logger
	webhookSecret string
	genID         *snowflake.Node
	repo          domain.Repository
	accountSvc    accountdomain.Service
	clock         clock.Clock
	metrics       *obsmetrics.Metrics
}

func NewService(p Params) (domain.WebhookService, error) {
	// An empty secret would verify deliveries signed with the empty key;
	// refuse to start instead.
	secret := strings.TrimSpace(p.Cfg.Razorpay.WebhookSecret)
	if secret == "" {
		return nil, errors.New("razorpay webhook secret is not configured")
	}

	return &Service{
		log:           p.Log.Named("payment.webhook"),
		webhookSecret: secret,
		genID:         p.GenID,
		repo:          p.Repo,
		accountSvc:    p.AccountSvc,
		clock:         p.Clock,
		metrics:       p.Metrics,
	}, nil
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity paymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type paymentEntity struct {
	ID       string            `json:"id"`
	OrderID  string            `json:"order_id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// Ingest processes one gateway delivery. Trust is established solely by
// recomputing the HMAC over the raw body; the event's own status fields are
// never treated as proof of payment.
func (s *Service) Ingest(ctx context.Context, payload []byte, headers http.Header) error {
	signature := strings.TrimSpace(headers.Get(signatureHeader))
	if signature == "" || !razorpay.VerifyWebhookSignature(s.webhookSecret, payload, signature) {
		s.log.Error("webhook signature verification failed",
			zap.String("event_id", strings.TrimSpace(headers.Get(eventIDHeader))),
		)
		s.metrics.IncConfirmation("webhook", "invalid_signature")
		return domain.ErrInvalidSignature
	}

	if !json.Valid(payload) {
		return domain.ErrInvalidPayload
	}
	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.ErrInvalidPayload
	}

	if strings.TrimSpace(event.Event) != eventPaymentCaptured {
		// Unrelated event types are acknowledged without side effects.
		s.log.Debug("webhook event ignored", zap.String("event", event.Event))
		return domain.ErrEventIgnored
	}

	entity := event.Payload.Payment.Entity
	if strings.TrimSpace(entity.ID) == "" {
		return domain.ErrInvalidEvent
	}

	userID := userIDFromNotes(entity.Notes)
	if userID == "" {
		// Without the order-creation metadata there is no way to know who
		// paid. Log and acknowledge; retrying would not help.
		s.log.Error("webhook payment has no recoverable user",
			zap.String("payment_id", entity.ID),
			zap.String("order_id", entity.OrderID),
		)
		s.metrics.IncConfirmation("webhook", "missing_user")
		return domain.ErrMissingUser
	}

	eventID := strings.TrimSpace(headers.Get(eventIDHeader))
	if eventID == "" {
		// Razorpay retries carry the same payment entity; the payment id
		// still dedupes the grant.
		eventID = entity.ID
	}

	now := s.clock.Now()
	record := &domain.EventRecord{
		ID:              s.genID.Generate(),
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       event.Event,
		UserID:          userID,
		Payload:         datatypes.JSON(payload),
		ReceivedAt:      now,
	}

	inserted, err := s.repo.InsertEvent(ctx, record)
	if err != nil {
		return err
	}
	if !inserted {
		stored, err := s.repo.FindEvent(ctx, provider, eventID)
		if err != nil {
			return err
		}
		if stored == nil {
			// A concurrent delivery won the insert but its row is not
			// readable yet. Marking our un-inserted ID would update nothing,
			// so surface an error and let the gateway redeliver.
			return fmt.Errorf("payment event %s/%s not readable after duplicate insert", provider, eventID)
		}
		if stored.ProcessedAt != nil {
			s.log.Info("webhook replay acknowledged",
				zap.String("event_id", eventID),
				zap.String("payment_id", entity.ID),
			)
			s.metrics.IncConfirmation("webhook", "duplicate")
			return domain.ErrEventAlreadyProcessed
		}
		// A previous delivery inserted the record but failed before the
		// grant completed; re-run the grant against the stored record.
		record = stored
	}

	if err := s.accountSvc.GrantPremium(ctx, userID); err != nil {
		s.metrics.IncConfirmation("webhook", "error")
		return err
	}

	if err := s.repo.MarkProcessed(ctx, record.ID, now); err != nil {
		return err
	}

	s.log.Info("webhook payment processed",
		zap.String("event_id", eventID),
		zap.String("payment_id", entity.ID),
		zap.String("user_id", userID),
	)
	s.metrics.IncConfirmation("webhook", "ok")
	return nil
}

func userIDFromNotes(notes map[string]string) string {
	for _, key := range []string{"user_id", "firebase_user_id"} {
		if value := strings.TrimSpace(notes[key]); value != "" {
			return value
		}
	}
	return ""
}
