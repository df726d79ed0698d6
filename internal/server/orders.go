package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createOrderResponse struct {
	OrderID string `json:"orderId"`
}

// HandleCreateOrder issues a new gateway order for the authenticated
// caller. The request carries no pricing fields; amount and currency are
// fixed server-side.
func (s *Server) HandleCreateOrder(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	order, err := s.paymentSvc.CreateOrder(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, createOrderResponse{OrderID: order.ID})
}

func (s *Server) HandleGetAccount(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == "" {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	acct, err := s.accountSvc.Get(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if acct == nil {
		c.JSON(http.StatusOK, gin.H{"userId": userID, "tier": "free"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": acct.UserID, "tier": acct.Tier})
}
