package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Marga-Ghale/org-portal-backend/internal/auth"
	"github.com/Marga-Ghale/org-portal-backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	principalKey = "principal"
	roleKey      = "role"
)

// Authenticate verifies the bearer token and stores the principal. A missing
// header is rejected before the verifier runs.
func Authenticate(verifier *auth.Verifier, log *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Debug().Str("path", c.Request.URL.Path).Msg("[Auth] Missing Authorization header")
			abortAuth(c, http.StatusUnauthorized, auth.ErrMissingCredential, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Debug().Str("path", c.Request.URL.Path).Msg("[Auth] Invalid header format")
			abortAuth(c, http.StatusUnauthorized, auth.ErrMalformed, "Invalid authorization header format")
			return
		}

		principal, err := verifier.Verify(parts[1])
		if err != nil {
			log.Info().Err(err).Str("path", c.Request.URL.Path).Msg("[Auth] Token rejected")
			abortAuth(c, http.StatusUnauthorized, err, "Invalid or expired token")
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireCapability resolves the caller's role and checks it against cap.
// It must run after Authenticate.
func RequireCapability(resolver auth.RoleResolver, capability auth.Capability, log *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			abortAuth(c, http.StatusUnauthorized, auth.ErrMissingCredential, "User not authenticated")
			return
		}

		role, err := auth.Authorize(c.Request.Context(), resolver, principal, capability)
		switch {
		case err == nil:
		case errors.Is(err, auth.ErrNoRoleAssigned):
			log.Info().Str("email", principal.Email).Msg("[Auth] No role assigned")
			abortAuth(c, http.StatusForbidden, err, "No role assigned")
			return
		case errors.Is(err, auth.ErrForbidden):
			log.Info().
				Str("email", principal.Email).
				Str("role", string(role)).
				Str("required", string(capability)).
				Msg("[Auth] Insufficient role")
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error:  "Insufficient role",
				Reason: auth.Reason(err),
				Role:   string(role),
			})
			return
		default:
			log.Error().Err(err).Str("email", principal.Email).Msg("[Auth] Role lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to resolve role"})
			return
		}

		c.Set(roleKey, role)
		c.Next()
	}
}

func abortAuth(c *gin.Context, status int, err error, msg string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{Error: msg, Reason: auth.Reason(err)})
}

// GetPrincipal extracts the verified caller from gin context
func GetPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// GetRole returns the role resolved by RequireCapability, empty if none.
func GetRole(c *gin.Context) auth.Role {
	v, exists := c.Get(roleKey)
	if !exists {
		return ""
	}
	role, _ := v.(auth.Role)
	return role
}
