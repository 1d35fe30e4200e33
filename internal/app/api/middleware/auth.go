package middleware

import (
	"net/http"
	"strings"

	cfgpkg "github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/config"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const principalKey = "principal"

// AuthMiddleware validates the bearer token issued by the identity
// provider and attaches the extracted principal to the request. Claims are
// trusted once the signature checks out; no further identity logic lives
// here.
func AuthMiddleware(cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing bearer token"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid token"))
			return
		}

		p := &types.Principal{}
		if v, ok := claims["sub"].(string); ok {
			p.ID = v
		}
		if v, ok := claims["role"].(string); ok {
			p.Type = types.ActorType(v)
		}
		if v, ok := claims["email"].(string); ok {
			p.Email = v
		}
		if p.ID == "" || !p.Type.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeBadRequest, "token missing identity claims"))
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireAdmin guards admin sub-routes.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil || !p.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeBadRequest, "admin access required"))
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated principal attached by
// AuthMiddleware, or nil.
func PrincipalFrom(c *gin.Context) *types.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*types.Principal); ok {
			return p
		}
	}
	return nil
}

// SetPrincipal attaches a principal directly; test helper.
func SetPrincipal(c *gin.Context, p *types.Principal) {
	c.Set(principalKey, p)
}
