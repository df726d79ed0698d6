package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	accountdomain "github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/clock"
	"github.com/deckdrop/deckdrop/internal/config"
	"github.com/deckdrop/deckdrop/internal/payment/domain"
	"github.com/deckdrop/deckdrop/internal/payment/gateway/razorpay"
	"go.uber.org/zap"
)

type fakeGateway struct {
	lastRequest razorpay.OrderRequest
	orderID     string
	err         error
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req razorpay.OrderRequest) (string, error) {
	f.lastRequest = req
	if f.err != nil {
		return "", f.err
	}
	return f.orderID, nil
}

type fakeAccounts struct {
	granted []string
	err     error
}

func (f *fakeAccounts) GrantPremium(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.granted = append(f.granted, userID)
	return nil
}

func (f *fakeAccounts) Get(ctx context.Context, userID string) (*accountdomain.Account, error) {
	return nil, nil
}

const testKeySecret = "key_secret_test"

func newTestService(gateway *fakeGateway, accounts *fakeAccounts) domain.Service {
	return NewService(Params{
		Log: zap.NewNop(),
		Cfg: config.Config{
			Razorpay: config.RazorpayConfig{KeySecret: testKeySecret},
		},
		Plan:       config.StaticPlanConfigHolder(config.DefaultPlanConfig()),
		Gateway:    gateway,
		AccountSvc: accounts,
		Clock:      clock.NewFakeClock(time.Unix(1700000000, 0)),
	})
}

func TestCreateOrderFixedPrice(t *testing.T) {
	gateway := &fakeGateway{orderID: "order_test_1"}
	svc := newTestService(gateway, &fakeAccounts{})

	order, err := svc.CreateOrder(context.Background(), "user-42")
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_test_1" {
		t.Fatalf("expected gateway order id, got %q", order.ID)
	}

	plan := config.DefaultPlanConfig()
	if gateway.lastRequest.Amount != plan.Amount {
		t.Fatalf("expected fixed amount %d, got %d", plan.Amount, gateway.lastRequest.Amount)
	}
	if gateway.lastRequest.Currency != plan.Currency {
		t.Fatalf("expected fixed currency %s, got %s", plan.Currency, gateway.lastRequest.Currency)
	}
	if gateway.lastRequest.Notes["user_id"] != "user-42" {
		t.Fatalf("expected order notes to carry the user id, got %v", gateway.lastRequest.Notes)
	}
	if len(gateway.lastRequest.Receipt) > maxReceiptLen {
		t.Fatalf("receipt exceeds gateway limit: %q", gateway.lastRequest.Receipt)
	}
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("gateway unavailable")}
	svc := newTestService(gateway, &fakeAccounts{})

	_, err := svc.CreateOrder(context.Background(), "user-42")
	if !errors.Is(err, domain.ErrOrderCreateFailed) {
		t.Fatalf("expected ErrOrderCreateFailed, got %v", err)
	}
}

func TestConfirmClientGrantsOnValidSignature(t *testing.T) {
	accounts := &fakeAccounts{}
	svc := newTestService(&fakeGateway{}, accounts)

	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte("order_1|pay_1"))
	signature := hex.EncodeToString(mac.Sum(nil))

	err := svc.ConfirmClient(context.Background(), domain.ClientConfirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: signature,
		UserID:    "user-42",
	})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(accounts.granted) != 1 || accounts.granted[0] != "user-42" {
		t.Fatalf("expected one grant for user-42, got %v", accounts.granted)
	}
}

func TestConfirmClientRejectsForgedSignature(t *testing.T) {
	accounts := &fakeAccounts{}
	svc := newTestService(&fakeGateway{}, accounts)

	err := svc.ConfirmClient(context.Background(), domain.ClientConfirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: "forged",
		UserID:    "user-42",
	})
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if len(accounts.granted) != 0 {
		t.Fatalf("no entitlement may be granted on signature mismatch")
	}
}

func TestConfirmClientSurfacesGrantFailure(t *testing.T) {
	accounts := &fakeAccounts{err: errors.New("db down")}
	svc := newTestService(&fakeGateway{}, accounts)

	mac := hmac.New(sha256.New, []byte(testKeySecret))
	mac.Write([]byte("order_1|pay_1"))
	signature := hex.EncodeToString(mac.Sum(nil))

	err := svc.ConfirmClient(context.Background(), domain.ClientConfirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: signature,
		UserID:    "user-42",
	})
	if err == nil {
		t.Fatalf("expected persistence failure to surface")
	}
}
