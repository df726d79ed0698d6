package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	paymentdomain "github.com/deckdrop/deckdrop/internal/payment/domain"
)

// HandlePaymentWebhook ingests a gateway-pushed delivery. A 200 tells the
// gateway to stop retrying, so it is returned only once processing has
// completed or the delivery can never succeed (ignored event, missing
// user, replay). Persistence failures surface as 5xx so the gateway
// redelivers.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err = s.webhookSvc.Ingest(c.Request.Context(), payload, c.Request.Header)
	switch {
	case err == nil,
		errors.Is(err, paymentdomain.ErrEventIgnored),
		errors.Is(err, paymentdomain.ErrEventAlreadyProcessed),
		errors.Is(err, paymentdomain.ErrMissingUser):
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrInvalidPayload),
		errors.Is(err, paymentdomain.ErrInvalidEvent):
		AbortWithError(c, err)
	default:
		// The mapped response hides the cause from the gateway; record it
		// here before it is replaced.
		s.log.Error("webhook processing failed", zap.Error(err))
		AbortWithError(c, ErrInternal)
	}
}
