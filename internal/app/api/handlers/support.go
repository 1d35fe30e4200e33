package handlers

import (
	"net/http"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/api/middleware"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/thread"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// @Summary      Create Support Ticket
// @Description  Opens a new support ticket for the authenticated clinic or therapist.
// @Tags         Support
// @Accept       json
// @Produce      json
// @Param        request body CreateTicketRequest true "Ticket subject and message"
// @Success      201  {object}  handlers.RespTicket
// @Router       /api/v1/support [post]
func ApiCreateTicket(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		p := middleware.PrincipalFrom(c)
		ticket, err := svc.CreateTicket(c.Request.Context(), p, req.Subject, req.Message)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(ticket))
	}
}

// @Summary      List Support Tickets
// @Description  Lists all tickets for admins, owned tickets otherwise.
// @Tags         Support
// @Produce      json
// @Success      200  {object}  handlers.RespTicketList
// @Router       /api/v1/support [get]
func ApiListTickets(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tickets, err := svc.ListTickets(c.Request.Context(), middleware.PrincipalFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(tickets))
	}
}

// @Summary      Get Support Ticket
// @Tags         Support
// @Produce      json
// @Param        id path string true "Ticket id"
// @Success      200  {object}  handlers.RespTicket
// @Router       /api/v1/support/{id} [get]
func ApiGetTicket(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := svc.GetTicket(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ticket))
	}
}

// @Summary      Update Support Ticket
// @Description  Owner-only subject/message amendment while the ticket is not resolved or closed.
// @Tags         Support
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        request body support.UpdateTicketRequest true "Fields to update"
// @Success      200  {object}  handlers.RespTicket
// @Router       /api/v1/support/{id} [patch]
func ApiUpdateTicket(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req support.UpdateTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		ticket, err := svc.UpdateTicket(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), &req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(ticket))
	}
}

// @Summary      Delete Support Ticket
// @Description  Owners may delete their own still-open tickets.
// @Tags         Support
// @Produce      json
// @Param        id path string true "Ticket id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/support/{id} [delete]
func ApiDeleteTicket(svc *support.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteTicket(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"message": "ticket deleted"}))
	}
}

// @Summary      Send Thread Message
// @Tags         Support
// @Accept       json
// @Produce      json
// @Param        id path string true "Ticket id"
// @Param        request body SendMessageRequest true "Message text"
// @Success      201  {object}  handlers.RespMessage
// @Router       /api/v1/support/{id}/messages [post]
func ApiSendMessage(svc *thread.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		msg, err := svc.SendMessage(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"), req.Message)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(msg))
	}
}

// @Summary      List Thread Messages
// @Description  Returns the thread in creation order and acknowledges the counterparty's messages as read.
// @Tags         Support
// @Produce      json
// @Param        id path string true "Ticket id"
// @Success      200  {object}  handlers.RespMessageList
// @Router       /api/v1/support/{id}/messages [get]
func ApiListMessages(svc *thread.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages, err := svc.ListAndAcknowledge(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(messages))
	}
}

// @Summary      Ticket Unread Count
// @Tags         Support
// @Produce      json
// @Param        id path string true "Ticket id"
// @Success      200  {object}  handlers.RespUnreadCount
// @Router       /api/v1/support/{id}/messages/unread_count [get]
func ApiUnreadCount(svc *thread.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.UnreadCount(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]int64{"unread": count}))
	}
}

// @Summary      Total Unread Count
// @Description  Unread counterparty messages across every ticket visible to the caller.
// @Tags         Support
// @Produce      json
// @Success      200  {object}  handlers.RespUnreadCount
// @Router       /api/v1/support/messages/unread_total [get]
func ApiTotalUnreadCount(svc *thread.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.TotalUnreadCount(c.Request.Context(), middleware.PrincipalFrom(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]int64{"unread": count}))
	}
}

// @Summary      Delete Thread Message
// @Tags         Support
// @Produce      json
// @Param        messageId path string true "Message id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/support/messages/{messageId} [delete]
func ApiDeleteMessage(svc *thread.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteMessage(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("messageId")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"message": "message deleted"}))
	}
}

func RegisterSupportRoutes(r gin.IRouter, tickets *support.Service, threads *thread.Service) {
	r.POST("", ApiCreateTicket(tickets))
	r.GET("", ApiListTickets(tickets))
	r.GET("/messages/unread_total", ApiTotalUnreadCount(threads))
	r.DELETE("/messages/:messageId", ApiDeleteMessage(threads))
	r.GET("/:id", ApiGetTicket(tickets))
	r.PATCH("/:id", ApiUpdateTicket(tickets))
	r.DELETE("/:id", ApiDeleteTicket(tickets))
	r.POST("/:id/messages", ApiSendMessage(threads))
	r.GET("/:id/messages", ApiListMessages(threads))
	r.GET("/:id/messages/unread_count", ApiUnreadCount(threads))
}
