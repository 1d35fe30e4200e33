package types

// TicketStatus is the support ticket lifecycle state.
// closed is terminal; no transition leaves it.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// SenderType identifies which side of a support thread wrote a message.
type SenderType string

const (
	SenderTypeAdmin SenderType = "ADMIN"
	SenderTypeUser  SenderType = "USER"
)

// Opposite returns the counterparty sender type, used when acknowledging a
// thread read.
func (s SenderType) Opposite() SenderType {
	if s == SenderTypeAdmin {
		return SenderTypeUser
	}
	return SenderTypeAdmin
}
