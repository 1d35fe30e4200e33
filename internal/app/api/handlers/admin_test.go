package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/app/service/settings"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSettingsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PlatformSettings{}))

	svc := settings.NewService(db, zap.NewNop().Sugar())
	r := gin.New()
	g := r.Group("/api/v1/admin")
	g.GET("/settings", ApiAdminGetSettings(svc))
	g.PATCH("/settings", ApiAdminUpdateSettings(svc))
	return r
}

func TestAdminSettings_GetAndUpdate(t *testing.T) {
	r := newSettingsRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/admin/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email_notifications_enabled":true`)

	w = doJSON(r, http.MethodPatch, "/api/v1/admin/settings", map[string]any{
		"maintenance_mode":        true,
		"session_timeout_minutes": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"maintenance_mode":true`)
	assert.Contains(t, w.Body.String(), `"session_timeout_minutes":30`)
}

func TestAdminSettings_RejectsUnknownKeys(t *testing.T) {
	r := newSettingsRouter(t)

	w := doJSON(r, http.MethodPatch, "/api/v1/admin/settings", map[string]any{
		"maintenance_mode": true,
		"theme_color":      "blue",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The valid sibling key was not applied either.
	w = doJSON(r, http.MethodGet, "/api/v1/admin/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"maintenance_mode":false`)
}

func TestAdminSettings_InvalidTimeout(t *testing.T) {
	r := newSettingsRouter(t)

	w := doJSON(r, http.MethodPatch, "/api/v1/admin/settings", map[string]any{
		"session_timeout_minutes": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
