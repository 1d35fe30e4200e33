package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	cfgpkg "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func testConfig() *cfgpkg.Config {
	return &cfgpkg.Config{Auth: cfgpkg.AuthConfig{JWTSecret: testSecret}}
}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(cfg *cfgpkg.Config) (*gin.Engine, *types.Principal) {
	gin.SetMode(gin.TestMode)
	var captured types.Principal
	r := gin.New()
	r.GET("/probe", AuthMiddleware(cfg), func(c *gin.Context) {
		if p := PrincipalFrom(c); p != nil {
			captured = *p
		}
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "not a bearer token", authHeader: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{
			name:       "wrong signing secret",
			authHeader: "Bearer " + signToken(t, jwt.MapClaims{"sub": "u1", "role": "CLINIC"}, "other-secret"),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing subject claim",
			authHeader: "Bearer " + signToken(t, jwt.MapClaims{"role": "CLINIC"}, testSecret),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown role claim",
			authHeader: "Bearer " + signToken(t, jwt.MapClaims{"sub": "u1", "role": "SUPERUSER"}, testSecret),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid clinic token",
			authHeader: "Bearer " + signToken(t, jwt.MapClaims{"sub": "u1", "role": "CLINIC", "email": "c@example.com"}, testSecret),
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newAuthRouter(cfg)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_ExtractsPrincipal(t *testing.T) {
	cfg := testConfig()
	r, captured := newAuthRouter(cfg)

	token := signToken(t, jwt.MapClaims{"sub": "user-42", "role": "THERAPIST", "email": "th@example.com"}, testSecret)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", captured.ID)
	assert.Equal(t, types.ActorTypeTherapist, captured.Type)
	assert.Equal(t, "th@example.com", captured.Email)
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		principal  *types.Principal
		wantStatus int
	}{
		{name: "no principal", principal: nil, wantStatus: http.StatusForbidden},
		{name: "clinic rejected", principal: &types.Principal{ID: "c1", Type: types.ActorTypeClinic}, wantStatus: http.StatusForbidden},
		{name: "admin allowed", principal: &types.Principal{ID: "a1", Type: types.ActorTypeAdmin}, wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin-probe", func(c *gin.Context) {
				if tt.principal != nil {
					SetPrincipal(c, tt.principal)
				}
			}, RequireAdmin(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-probe", nil))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
