package domain

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrMissingUser           = errors.New("missing_user")
	ErrEventIgnored          = errors.New("event_ignored")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrOrderCreateFailed     = errors.New("order_create_failed")
)

// EventRecord is the idempotency ledger for gateway-pushed confirmations.
// The unique (provider, provider_event_id) key makes duplicate webhook
// deliveries observable as insert conflicts.
type EventRecord struct {
	ID              snowflake.ID   `json:"id" gorm:"primaryKey"`
	Provider        string         `json:"provider" gorm:"type:text;not null"`
	ProviderEventID string         `json:"provider_event_id" gorm:"type:text;not null;uniqueIndex:idx_payment_events_provider_event,priority:2"`
	EventType       string         `json:"event_type" gorm:"type:text;not null"`
	UserID          string         `json:"user_id" gorm:"type:text;not null;default:''"`
	Payload         datatypes.JSON `json:"payload" gorm:"not null"`
	ReceivedAt      time.Time      `json:"received_at" gorm:"not null"`
	ProcessedAt     *time.Time     `json:"processed_at"`
}

func (EventRecord) TableName() string { return "payment_events" }

// ClientConfirmation is the client-submitted confirmation triple. UserID
// comes from the caller's authenticated session, never from the request
// body.
type ClientConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    string
}

// Order is the gateway-issued payment order returned to the caller.
type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
}

type Service interface {
	// CreateOrder requests a new fixed-price order from the gateway on
	// behalf of the authenticated user.
	CreateOrder(ctx context.Context, userID string) (*Order, error)

	// ConfirmClient verifies a client-submitted confirmation and, on a
	// signature match, grants the premium entitlement. Verification always
	// completes before any state change.
	ConfirmClient(ctx context.Context, confirmation ClientConfirmation) error
}

type WebhookService interface {
	// Ingest verifies a gateway-pushed delivery against the webhook secret
	// and processes captured payments exactly once.
	Ingest(ctx context.Context, payload []byte, headers http.Header) error
}

type Repository interface {
	InsertEvent(ctx context.Context, event *EventRecord) (bool, error)
	FindEvent(ctx context.Context, provider, providerEventID string) (*EventRecord, error)
	MarkProcessed(ctx context.Context, id snowflake.ID, processedAt time.Time) error
}
