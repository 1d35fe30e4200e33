package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/api/middleware"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/notifier"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/settings"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/support"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/thread"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/tool"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type silentSender struct{}

func (silentSender) Send(_ context.Context, _, _, _ string) error { return nil }

// newSupportRouter wires the support routes over sqlite with the given
// principal injected in place of the auth middleware.
func newSupportRouter(t *testing.T, p *types.Principal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	notif := notifier.NewService(silentSender{}, settings.NewService(db, log), log)
	tickets := support.NewService(db, log, notif)
	threads := thread.NewService(db, log, tickets)

	r := gin.New()
	g := r.Group("/api/v1/support")
	g.Use(func(c *gin.Context) { middleware.SetPrincipal(c, p) })
	RegisterSupportRoutes(g, tickets, threads)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSupportTicketFlow(t *testing.T) {
	owner := &types.Principal{ID: tool.GenerateUUIDV7(), Type: types.ActorTypeClinic, Email: "c@example.com"}
	r := newSupportRouter(t, owner)

	// Create.
	w := doJSON(r, http.MethodPost, "/api/v1/support", CreateTicketRequest{Subject: "Billing", Message: "Help"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data models.SupportTicket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, types.TicketStatusOpen, created.Data.Status)

	// List.
	w = doJSON(r, http.MethodGet, "/api/v1/support", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data []models.SupportTicket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)

	// Message the thread and read it back.
	w = doJSON(r, http.MethodPost, "/api/v1/support/"+created.Data.ID+"/messages", SendMessageRequest{Message: "any update?"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/support/"+created.Data.ID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msgs struct {
		Data []models.SupportMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msgs))
	require.Len(t, msgs.Data, 1)
	assert.Equal(t, "any update?", msgs.Data[0].Message)

	// Delete while open.
	w = doJSON(r, http.MethodDelete, "/api/v1/support/"+created.Data.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/support/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSupportHandlers_ErrorMapping(t *testing.T) {
	owner := &types.Principal{ID: tool.GenerateUUIDV7(), Type: types.ActorTypeClinic, Email: "c@example.com"}
	r := newSupportRouter(t, owner)

	// Binding failure.
	w := doJSON(r, http.MethodPost, "/api/v1/support", map[string]string{"subject": "no message"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown ticket.
	w = doJSON(r, http.MethodGet, "/api/v1/support/"+tool.GenerateUUIDV7(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Admins cannot open tickets of their own.
	admin := &types.Principal{ID: tool.GenerateUUIDV7(), Type: types.ActorTypeAdmin, Email: "a@example.com"}
	ra := newSupportRouter(t, admin)
	w = doJSON(ra, http.MethodPost, "/api/v1/support", CreateTicketRequest{Subject: "s", Message: "m"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
