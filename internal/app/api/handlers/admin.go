package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/api/middleware"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/billing"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/settings"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type AdminReplyRequest struct {
	Reply string `json:"reply" binding:"required"`
}

type ResolveTicketRequest struct {
	ResolutionNote string `json:"resolution_note" binding:"required"`
}

type UpdateStatusRequest struct {
	Status         types.TicketStatus `json:"status" binding:"required"`
	ResolutionNote *string            `json:"resolution_note"`
}

// PaymentItem is the flattened payment row returned by the admin listing.
type PaymentItem struct {
	ID                    string              `json:"id"`
	SubscriptionID        string              `json:"subscription_id"`
	StripePaymentIntentID string              `json:"stripe_payment_intent_id"`
	StripeChargeID        *string             `json:"stripe_charge_id"`
	AmountCents           int64               `json:"amount_cents"`
	Currency              string              `json:"currency"`
	Status                types.PaymentStatus `json:"status"`
	Description           string              `json:"description"`
	PaymentMethodBrand    string              `json:"payment_method_brand"`
	PaymentMethodLast4    string              `json:"payment_method_last4"`
	PaidAt                *time.Time          `json:"paid_at"`
	OwnerType             types.OwnerType     `json:"owner_type"`
	OwnerID               string              `json:"owner_id"`
	CreatedAt             time.Time           `json:"created_at"`
}

type ListPaymentsResponse struct {
	Items []*PaymentItem `json:"items"`
	Total int64          `json:"total"`
}

func toPaymentItem(m *models.Payment) *PaymentItem {
	return &PaymentItem{
		ID:                    m.ID,
		SubscriptionID:        m.SubscriptionID,
		StripePaymentIntentID: m.StripePaymentIntentID,
		StripeChargeID:        m.StripeChargeID,
		AmountCents:           m.AmountCents,
		Currency:              m.Currency,
		Status:                m.Status,
		Description:           m.Description,
		PaymentMethodBrand:    m.PaymentMethodBrand,
		PaymentMethodLast4:    m.PaymentMethodLast4,
		PaidAt:                m.PaidAt,
		OwnerType:             m.OwnerType,
		OwnerID:               m.OwnerID,
		CreatedAt:             m.CreatedAt,
	}
}

// @Summary      Reply To Ticket (Admin)
// @Description  Records the admin reply; an open ticket moves to in_progress.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        request body AdminReplyRequest true "Reply text"
// @Success      200  {object}  handlers.RespTicket
// @Router       /api/v1/admin/support/{id}/reply [post]
func ApiAdminReply(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AdminReplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		p := middleware.PrincipalFrom(c)
		ticket, err := svc.ReplyAsAdmin(c.Request.Context(), c.Param("id"), p.Email, req.Reply)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ticket))
	}
}

// @Summary      Resolve Ticket (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        request body ResolveTicketRequest true "Resolution note"
// @Success      200  {object}  handlers.RespTicket
// @Router       /api/v1/admin/support/{id}/resolve [post]
func ApiAdminResolve(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResolveTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		ticket, err := svc.ResolveTicket(c.Request.Context(), c.Param("id"), req.ResolutionNote)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ticket))
	}
}

// @Summary      Update Ticket Status (Admin)
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        request body UpdateStatusRequest true "New status"
// @Success      200  {object}  handlers.RespTicket
// @Router       /api/v1/admin/support/{id}/status [post]
func ApiAdminUpdateStatus(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		ticket, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.ResolutionNote)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ticket))
	}
}

// @Summary      Ticket Statistics (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespTicketStats
// @Router       /api/v1/admin/support/stats [get]
func ApiAdminTicketStats(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(stats))
	}
}

// @Summary      List Payments (Admin)
// @Description  Paginated and filterable payment listing.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body billing.ScanPaymentsRequest true "Filters, pagination, sorting"
// @Success      200  {object}  handlers.RespPaymentList
// @Router       /api/v1/admin/payments/list [post]
func ApiAdminListPayments(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req billing.ScanPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanPayments(c.Request.Context(), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		items := lo.Map(res.Items, func(it *models.Payment, _ int) *PaymentItem { return toPaymentItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListPaymentsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Revenue Statistics (Admin)
// @Tags         Admin
// @Produce      json
// @Param        from query string false "Inclusive start date (YYYY-MM-DD)"
// @Param        to query string false "Exclusive end date (YYYY-MM-DD)"
// @Success      200  {object}  handlers.RespRevenueStats
// @Router       /api/v1/admin/payments/revenue [get]
func ApiAdminRevenueStats(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.RevenueStats(c.Request.Context(), c.Query("from"), c.Query("to"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Platform Settings (Admin)
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespSettings
// @Router       /api/v1/admin/settings [get]
func ApiAdminGetSettings(svc *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := svc.Get(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(row))
	}
}

// @Summary      Update Platform Settings (Admin)
// @Description  Applies a typed partial update; unknown keys are rejected.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body settings.UpdateRequest true "Settings fields"
// @Success      200  {object}  handlers.RespSettings
// @Router       /api/v1/admin/settings [patch]
func ApiAdminUpdateSettings(svc *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The settings schema is closed: a decoder rejecting unknown
		// fields replaces the old merge-anything payloads.
		dec := json.NewDecoder(c.Request.Body)
		dec.DisallowUnknownFields()
		var req settings.UpdateRequest
		if err := dec.Decode(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		row, err := svc.Update(c.Request.Context(), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(row))
	}
}

func RegisterAdminRoutes(r gin.IRouter, tickets *support.Service, payments *billing.Service, cfg *settings.Service) {
	r.GET("/support/stats", ApiAdminTicketStats(tickets))
	r.POST("/support/:id/reply", ApiAdminReply(tickets))
	r.POST("/support/:id/resolve", ApiAdminResolve(tickets))
	r.POST("/support/:id/status", ApiAdminUpdateStatus(tickets))
	r.POST("/payments/list", ApiAdminListPayments(payments))
	r.GET("/payments/revenue", ApiAdminRevenueStats(payments))
	r.GET("/settings", ApiAdminGetSettings(cfg))
	r.PATCH("/settings", ApiAdminUpdateSettings(cfg))
}
