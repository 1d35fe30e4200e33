package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/reconciler"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/webhooklog"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"
	cfgpkg "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_handler_test"

func newWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.Payment{}, &models.WebhookEventLog{}))

	log := zap.NewNop().Sugar()
	cfg := &cfgpkg.Config{Stripe: cfgpkg.StripeConfig{WebhookSecret: testWebhookSecret}}
	svc := reconciler.NewService(db, cfg, log, nil, webhooklog.New(db, log))

	r := gin.New()
	RegisterWebhookRoutes(r.Group("/webhooks"), svc)
	return r
}

func stripeSignature(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeWebhook_MissingSignature(t *testing.T) {
	r := newWebhookRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStripeWebhook_BadSignature(t *testing.T) {
	r := newWebhookRouter(t)
	payload := []byte(`{"id":"evt_1","type":"invoice.payment_succeeded","data":{"object":{}}}`)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", stripeSignature(payload, "whsec_other"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStripeWebhook_AcknowledgesValidEvent(t *testing.T) {
	r := newWebhookRouter(t)
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": %q,
		"type": "charge.refunded",
		"data": {"object": {"id": "ch_1"}}
	}`, stripe.APIVersion))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBuffer(payload))
	req.Header.Set("Stripe-Signature", stripeSignature(payload, testWebhookSecret))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())
}
