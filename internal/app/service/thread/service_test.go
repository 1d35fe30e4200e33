package thread

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/notifier"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/settings"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/tool"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopSender struct{}

func (noopSender) Send(context.Context, string, string, string) error { return nil }

func newTestServices(t *testing.T) (*Service, *support.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.SupportTicket{},
		&models.SupportMessage{},
		&models.PlatformSettings{},
	))

	log := zap.NewNop().Sugar()
	notif := notifier.NewService(noopSender{}, settings.NewService(db, log), log)
	tickets := support.NewService(db, log, notif)
	return NewService(db, log, tickets), tickets, db
}

func clinicPrincipal(id string) *types.Principal {
	return &types.Principal{ID: id, Type: types.ActorTypeClinic, Email: "clinic@example.com"}
}

func adminPrincipal() *types.Principal {
	return &types.Principal{ID: tool.GenerateUUIDV7(), Type: types.ActorTypeAdmin, Email: "admin@example.com"}
}

func TestSendMessage(t *testing.T) {
	svc, tickets, _ := newTestServices(t)
	ctx := context.Background()
	owner := clinicPrincipal(tool.GenerateUUIDV7())
	admin := adminPrincipal()

	ticket, err := tickets.CreateTicket(ctx, owner, "subject", "message")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, owner, ticket.ID, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	msg, err := svc.SendMessage(ctx, owner, ticket.ID, "any update?")
	require.NoError(t, err)
	assert.Equal(t, types.SenderTypeUser, msg.SenderType)
	assert.Equal(t, owner.ID, msg.SenderID)
	assert.False(t, msg.IsRead)

	// Owner traffic does not change ticket status.
	got, err := tickets.GetTicket(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TicketStatusOpen, got.Status)

	// An admin engaging the thread promotes the open ticket.
	adminMsg, err := svc.SendMessage(ctx, admin, ticket.ID, "on it")
	require.NoError(t, err)
	assert.Equal(t, types.SenderTypeAdmin, adminMsg.SenderType)
	got, err = tickets.GetTicket(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TicketStatusInProgress, got.Status)

	// Strangers cannot post into someone else's thread.
	_, err = svc.SendMessage(ctx, clinicPrincipal(tool.GenerateUUIDV7()), ticket.ID, "hi")
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestSendMessage_ClosedTicket(t *testing.T) {
	svc, tickets, db := newTestServices(t)
	ctx := context.Background()
	owner := clinicPrincipal(tool.GenerateUUIDV7())

	ticket, err := tickets.CreateTicket(ctx, owner, "subject", "message")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.SupportTicket{}).Where("id = ?", ticket.ID).Update("status", types.TicketStatusClosed).Error)

	_, err = svc.SendMessage(ctx, owner, ticket.ID, "still there?")
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestSendMessage_SenderFromAccountDirectory(t *testing.T) {
	svc, tickets, db := newTestServices(t)
	ctx := context.Background()
	owner := clinicPrincipal(tool.GenerateUUIDV7())
	require.NoError(t, db.Create(&models.Account{
		ID:    owner.ID,
		Type:  types.ActorTypeClinic,
		Name:  "Sunrise Clinic",
		Email: "hello@sunrise.example.com",
	}).Error)

	ticket, err := tickets.CreateTicket(ctx, owner, "subject", "message")
	require.NoError(t, err)

	msg, err := svc.SendMessage(ctx, owner, ticket.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Sunrise Clinic", msg.SenderName)
	assert.Equal(t, "hello@sunrise.example.com", msg.SenderEmail)
}

func TestListAndAcknowledge(t *testing.T) {
	svc, tickets, _ := newTestServices(t)
	ctx := context.Background()
	owner := clinicPrincipal(tool.GenerateUUIDV7())
	admin := adminPrincipal()

	ticket, err := tickets.CreateTicket(ctx, owner, "subject", "message")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, owner, ticket.ID, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, admin, ticket.ID, "reply one")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, admin, ticket.ID, "reply two")
	require.NoError(t, err)

	// The owner has two unread admin messages; the admin one unread user message.
	n, err := svc.UnreadCount(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = svc.UnreadCount(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// The owner reading the thread acknowledges the admin side only.
	msgs, err := svc.ListAndAcknowledge(ctx, owner, ticket.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Message)
	for _, m := range msgs {
		if m.SenderType == types.SenderTypeAdmin {
			assert.True(t, m.IsRead)
		}
	}

	n, err = svc.UnreadCount(ctx, owner, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The user message is still unread from the admin's side.
	n, err = svc.UnreadCount(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.ListAndAcknowledge(ctx, admin, ticket.ID)
	require.NoError(t, err)
	n, err = svc.UnreadCount(ctx, admin, ticket.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTotalUnreadCount(t *testing.T) {
	svc, tickets, _ := newTestServices(t)
	ctx := context.Background()
	ownerA := clinicPrincipal(tool.GenerateUUIDV7())
	ownerB := clinicPrincipal(tool.GenerateUUIDV7())
	admin := adminPrincipal()

	ticketA, err := tickets.CreateTicket(ctx, ownerA, "a", "a")
	require.NoError(t, err)
	ticketB, err := tickets.CreateTicket(ctx, ownerB, "b", "b")
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, admin, ticketA.ID, "for A")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, admin, ticketB.ID, "for B")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, ownerB, ticketB.ID, "from B")
	require.NoError(t, err)

	// Owners only see unread counterparty traffic on their own tickets.
	n, err := svc.TotalUnreadCount(ctx, ownerA)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = svc.TotalUnreadCount(ctx, ownerB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// Admins see unread user traffic across every ticket.
	n, err = svc.TotalUnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDeleteMessage(t *testing.T) {
	svc, tickets, _ := newTestServices(t)
	ctx := context.Background()
	owner := clinicPrincipal(tool.GenerateUUIDV7())
	admin := adminPrincipal()

	ticket, err := tickets.CreateTicket(ctx, owner, "subject", "message")
	require.NoError(t, err)
	msg, err := svc.SendMessage(ctx, owner, ticket.ID, "oops, wrong ticket")
	require.NoError(t, err)

	// Another user may not delete someone else's message.
	err = svc.DeleteMessage(ctx, clinicPrincipal(tool.GenerateUUIDV7()), msg.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	require.NoError(t, svc.DeleteMessage(ctx, owner, msg.ID))
	err = svc.DeleteMessage(ctx, owner, msg.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	adminMsg, err := svc.SendMessage(ctx, admin, ticket.ID, "admin note")
	require.NoError(t, err)
	other := adminPrincipal()
	require.NoError(t, svc.DeleteMessage(ctx, other, adminMsg.ID))
}
