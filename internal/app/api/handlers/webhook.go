package handlers

import (
	"io"
	"net/http"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/reconciler"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      Stripe Webhook
// @Description  Verifies the Stripe signature over the raw payload and applies the event.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  response.APIResponse[any]
// @Router       /webhooks/stripe [post]
func ApiStripeWebhook(svc *reconciler.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "cannot read body"))
			return
		}
		if err := svc.HandleEvent(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func RegisterWebhookRoutes(r gin.IRouter, svc *reconciler.Service) {
	r.POST("/stripe", ApiStripeWebhook(svc))
}
