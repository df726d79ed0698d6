package payment

import (
	"github.com/deckdrop/deckdrop/internal/payment/gateway/razorpay"
	"github.com/deckdrop/deckdrop/internal/payment/repository"
	paymentservice "github.com/deckdrop/deckdrop/internal/payment/service"
	"github.com/deckdrop/deckdrop/internal/payment/webhook"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(razorpay.NewClient),
	fx.Provide(repository.Provide),
	fx.Provide(paymentservice.NewService),
	fx.Provide(webhook.NewService),
)
