package handlers

import (
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/billing"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespTicket wraps a single support ticket in the standard envelope.
type RespTicket struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.SupportTicket     `json:"data"`
}

// RespTicketList wraps a list of support tickets in the standard envelope.
type RespTicketList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.SupportTicket   `json:"data"`
}

// RespTicketStats wraps aggregate ticket counts in the standard envelope.
type RespTicketStats struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    support.TicketStats      `json:"data"`
}

// RespMessage wraps a single thread message in the standard envelope.
type RespMessage struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.SupportMessage    `json:"data"`
}

// RespMessageList wraps a message thread in the standard envelope.
type RespMessageList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.SupportMessage  `json:"data"`
}

// RespUnreadCount wraps an unread counter in the standard envelope.
type RespUnreadCount struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    int64                    `json:"data"`
}

// RespSubscription wraps a subscription row in the standard envelope.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Subscription      `json:"data"`
}

// RespPayments wraps a list of payment rows in the standard envelope.
type RespPayments struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Payment         `json:"data"`
}

// RespPaymentList wraps the paginated admin payment listing in the standard envelope.
type RespPaymentList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListPaymentsResponse     `json:"data"`
}

// RespRevenueStats wraps revenue aggregates in the standard envelope.
type RespRevenueStats struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    billing.RevenueStatistics `json:"data"`
}

// RespSettings wraps the platform settings row in the standard envelope.
type RespSettings struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.PlatformSettings  `json:"data"`
}
