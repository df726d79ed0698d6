package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/deckdrop/deckdrop/internal/account/domain"
	accountrepo "github.com/deckdrop/deckdrop/internal/account/repository"
	accountservice "github.com/deckdrop/deckdrop/internal/account/service"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/deckdrop/deckdrop/internal/config"
	"github.com/deckdrop/deckdrop/internal/payment/domain"
	paymentrepo "github.com/deckdrop/deckdrop/internal/payment/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testWebhookSecret = "webhook_secret_test"

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.EventRecord{}, &accountdomain.Account{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) (domain.WebhookService, accountdomain.Service) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC))

	accounts := accountservice.NewService(accountservice.Params{
		Log:   zap.NewNop(),
		Repo:  accountrepo.Provide(db),
		Clock: fakeClock,
	})

	svc, err := NewService(Params{
		Log: zap.NewNop(),
		Cfg: config.Config{
			Razorpay: config.RazorpayConfig{WebhookSecret: testWebhookSecret},
		},
		GenID:      node,
		Repo:       paymentrepo.Provide(db),
		AccountSvc: accounts,
		Clock:      fakeClock,
	})
	require.NoError(t, err)
	return svc, accounts
}

func capturedPayload(t *testing.T, notes map[string]string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"event": "payment.captured",
		"payload": map[string]any{
			"payment": map[string]any{
				"entity": map[string]any{
					"id":       "pay_test_1",
					"order_id": "order_test_1",
					"amount":   2900,
					"currency": "INR",
					"status":   "captured",
					"notes":    notes,
				},
			},
		},
	})
	require.NoError(t, err)
	return payload
}

func signedHeaders(payload []byte) http.Header {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(payload)
	headers := http.Header{}
	headers.Set("X-Razorpay-Signature", hex.EncodeToString(mac.Sum(nil)))
	headers.Set("X-Razorpay-Event-Id", "evt_test_1")
	return headers
}

func accountTier(t *testing.T, accounts accountdomain.Service, userID string) accountdomain.Tier {
	t.Helper()
	acct, err := accounts.Get(context.Background(), userID)
	require.NoError(t, err)
	if acct == nil {
		return accountdomain.TierFree
	}
	return acct.Tier
}

func TestIngestCapturedPaymentGrantsPremium(t *testing.T) {
	db := setupDB(t)
	svc, accounts := newTestService(t, db)

	payload := capturedPayload(t, map[string]string{"user_id": "user-42"})
	require.NoError(t, svc.Ingest(context.Background(), payload, signedHeaders(payload)))

	assert.Equal(t, accountdomain.TierPremium, accountTier(t, accounts, "user-42"))

	var events []domain.EventRecord
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "evt_test_1", events[0].ProviderEventID)
	assert.NotNil(t, events[0].ProcessedAt)
}

func TestIngestReplayIsIdempotent(t *testing.T) {
	db := setupDB(t)
	svc, accounts := newTestService(t, db)

	payload := capturedPayload(t, map[string]string{"user_id": "user-42"})
	headers := signedHeaders(payload)

	require.NoError(t, svc.Ingest(context.Background(), payload, headers))

	err := svc.Ingest(context.Background(), payload, headers)
	require.ErrorIs(t, err, domain.ErrEventAlreadyProcessed)

	assert.Equal(t, accountdomain.TierPremium, accountTier(t, accounts, "user-42"))

	var count int64
	require.NoError(t, db.Model(&domain.EventRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIngestRejectsInvalidSignature(t *testing.T) {
	db := setupDB(t)
	svc, accounts := newTestService(t, db)

	payload := capturedPayload(t, map[string]string{"user_id": "user-42"})
	headers := http.Header{}
	headers.Set("X-Razorpay-Signature", "deadbeef")

	err := svc.Ingest(context.Background(), payload, headers)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	assert.Equal(t, accountdomain.TierFree, accountTier(t, accounts, "user-42"))

	var count int64
	require.NoError(t, db.Model(&domain.EventRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIngestIgnoresOtherEventTypes(t *testing.T) {
	db := setupDB(t)
	svc, accounts := newTestService(t, db)

	payload, err := json.Marshal(map[string]any{
		"event":   "payment.failed",
		"payload": map[string]any{},
	})
	require.NoError(t, err)

	ingestErr := svc.Ingest(context.Background(), payload, signedHeaders(payload))
	require.ErrorIs(t, ingestErr, domain.ErrEventIgnored)

	assert.Equal(t, accountdomain.TierFree, accountTier(t, accounts, "user-42"))
}

func TestIngestMissingUserCorrelation(t *testing.T) {
	db := setupDB(t)
	svc, accounts := newTestService(t, db)

	payload := capturedPayload(t, nil)
	err := svc.Ingest(context.Background(), payload, signedHeaders(payload))
	require.ErrorIs(t, err, domain.ErrMissingUser)

	assert.Equal(t, accountdomain.TierFree, accountTier(t, accounts, "user-42"))
}

func TestNewServiceRequiresWebhookSecret(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	for _, secret := range []string{"", "   "} {
		_, err := NewService(Params{
			Log:   zap.NewNop(),
			Cfg:   config.Config{Razorpay: config.RazorpayConfig{WebhookSecret: secret}},
			GenID: node,
			Clock: clock.NewFakeClock(time.Now()),
		})
		require.Error(t, err, "secret %q must be rejected", secret)
	}
}

// ghostRepo simulates a duplicate insert whose winning row is not readable
// yet: InsertEvent reports a conflict but FindEvent sees nothing.
type ghostRepo struct {
	marked []snowflake.ID
}

func (g *ghostRepo) InsertEvent(ctx context.Context, event *domain.EventRecord) (bool, error) {
	return false, nil
}

func (g *ghostRepo) FindEvent(ctx context.Context, provider, providerEventID string) (*domain.EventRecord, error) {
	return nil, nil
}

func (g *ghostRepo) MarkProcessed(ctx context.Context, id snowflake.ID, processedAt time.Time) error {
	g.marked = append(g.marked, id)
	return nil
}

type grantRecorder struct {
	granted []string
}

func (g *grantRecorder) GrantPremium(ctx context.Context, userID string) error {
	g.granted = append(g.granted, userID)
	return nil
}

func (g *grantRecorder) Get(ctx context.Context, userID string) (*accountdomain.Account, error) {
	return nil, nil
}

func TestIngestDuplicateWithUnreadableRowIsRetryable(t *testing.T) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := &ghostRepo{}
	accounts := &grantRecorder{}

	svc, err := NewService(Params{
		Log:        zap.NewNop(),
		Cfg:        config.Config{Razorpay: config.RazorpayConfig{WebhookSecret: testWebhookSecret}},
		GenID:      node,
		Repo:       repo,
		AccountSvc: accounts,
		Clock:      clock.NewFakeClock(time.Now()),
	})
	require.NoError(t, err)

	payload := capturedPayload(t, map[string]string{"user_id": "user-42"})
	ingestErr := svc.Ingest(context.Background(), payload, signedHeaders(payload))

	require.Error(t, ingestErr)
	assert.NotErrorIs(t, ingestErr, domain.ErrEventAlreadyProcessed)
	assert.Empty(t, accounts.granted, "no grant may run against an unreadable event")
	assert.Empty(t, repo.marked, "nothing may be marked processed")
}

func TestIngestAcceptsLegacyNotesKey(t *testing.T) {
	db := setupDB(t)
	svc, accounts := newTestService(t, db)

	payload := capturedPayload(t, map[string]string{"firebase_user_id": "user-77"})
	require.NoError(t, svc.Ingest(context.Background(), payload, signedHeaders(payload)))

	assert.Equal(t, accountdomain.TierPremium, accountTier(t, accounts, "user-77"))
}
