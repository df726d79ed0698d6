package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	paymentdomain "github.com/deckdrop/deckdrop/internal/payment/domain"
)

type verifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// HandleVerifyPayment confirms a client-submitted payment. The target user
// is always the authenticated caller; nothing in the body can redirect the
// entitlement to another account.
func (s *Server) HandleVerifyPayment(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if strings.TrimSpace(req.OrderID) == "" || strings.TrimSpace(req.PaymentID) == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.paymentSvc.ConfirmClient(c.Request.Context(), paymentdomain.ClientConfirmation{
		OrderID:   strings.TrimSpace(req.OrderID),
		PaymentID: strings.TrimSpace(req.PaymentID),
		Signature: strings.TrimSpace(req.Signature),
		UserID:    userID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
