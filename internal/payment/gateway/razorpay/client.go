package razorpay

import (
	"context"
	"errors"
	"strings"

	"github.com/deckdrop/deckdrop/internal/config"
	razorpaygo "github.com/razorpay/razorpay-go"
)

var ErrInvalidCredentials = errors.New("razorpay credentials are not configured")

// OrderRequest describes one order to create at the gateway. Amount is in
// the minor currency unit.
type OrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Client is the outbound gateway surface. Services depend on this interface
// so tests can substitute fakes.
type Client interface {
	CreateOrder(ctx context.Context, req OrderRequest) (string, error)
}

type client struct {
	api *razorpaygo.Client
}

func NewClient(cfg config.Config) (Client, error) {
	keyID := strings.TrimSpace(cfg.Razorpay.KeyID)
	keySecret := strings.TrimSpace(cfg.Razorpay.KeySecret)
	if keyID == "" || keySecret == "" {
		return nil, ErrInvalidCredentials
	}
	return &client{api: razorpaygo.NewClient(keyID, keySecret)}, nil
}

func (c *client) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	_ = ctx // the SDK does not accept a context

	notes := map[string]interface{}{}
	for key, value := range req.Notes {
		notes[key] = value
	}
	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes":    notes,
	}

	order, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", err
	}

	orderID, _ := order["id"].(string)
	if orderID == "" {
		return "", errors.New("gateway returned no order id")
	}
	return orderID, nil
}
