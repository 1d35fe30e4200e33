package handlers

import (
	"net/http"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/api/middleware"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/billing"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      My Subscription
// @Description  Returns the caller's subscription, or not found when none exists.
// @Tags         Billing
// @Produce      json
// @Success      200  {object}  handlers.RespSubscription
// @Failure      404  {object}  response.APIResponse[any]
// @Router       /api/v1/billing/subscription [get]
func ApiGetMySubscription(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		sub, err := svc.GetMySubscription(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      My Payments
// @Description  Lists the caller's payments, most recent first.
// @Tags         Billing
// @Produce      json
// @Success      200  {object}  handlers.RespPayments
// @Router       /api/v1/billing/payments [get]
func ApiListMyPayments(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.PrincipalFrom(c)
		rows, err := svc.ListMyPayments(c.Request.Context(), p)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterBillingRoutes(r gin.IRouter, svc *billing.Service) {
	r.GET("/subscription", ApiGetMySubscription(svc))
	r.GET("/payments", ApiListMyPayments(svc))
}
