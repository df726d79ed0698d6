package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/deckdrop/deckdrop/internal/account"
	accountdomain "github.com/deckdrop/deckdrop/internal/account/domain"
	"github.com/deckdrop/deckdrop/internal/config"
	"github.com/deckdrop/deckdrop/internal/identity"
	"github.com/deckdrop/deckdrop/internal/observability"
	obsmiddleware "github.com/deckdrop/deckdrop/internal/observability/logger"
	obstracing "github.com/deckdrop/deckdrop/internal/observability/tracing"
	"github.com/deckdrop/deckdrop/internal/payment"
	paymentdomain "github.com/deckdrop/deckdrop/internal/payment/domain"
)

var Module = fx.Module("http.server",
	account.Module,
	payment.Module,
	identity.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	log        *zap.Logger
	engine     *gin.Engine
	cfg        config.Config
	verifier   identity.Verifier
	accountSvc accountdomain.Service
	paymentSvc paymentdomain.Service
	webhookSvc paymentdomain.WebhookService
}

type Params struct {
	fx.In

	Log        *zap.Logger
	Gin        *gin.Engine
	Cfg        config.Config
	Verifier   identity.Verifier
	AccountSvc accountdomain.Service
	PaymentSvc paymentdomain.Service
	WebhookSvc paymentdomain.WebhookService
}

func NewServer(p Params) *Server {
	return &Server{
		log:        p.Log.Named("http.server"),
		engine:     p.Gin,
		cfg:        p.Cfg,
		verifier:   p.Verifier,
		accountSvc: p.AccountSvc,
		paymentSvc: p.PaymentSvc,
		webhookSvc: p.WebhookSvc,
	}
}

func (s *Server) RegisterRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())
	{
		api.POST("/orders", s.HandleCreateOrder)
		api.POST("/payments/verify", s.HandleVerifyPayment)
		api.GET("/account", s.HandleGetAccount)
	}

	// Webhook deliveries carry no bearer credential; trust is established
	// solely by the signature over the raw body.
	s.engine.POST("/webhooks/razorpay", s.HandlePaymentWebhook)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
