package middlewares

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"smartroad-be/apperrors"
	"smartroad-be/models"
	"smartroad-be/response"
	authUtils "smartroad-be/utils"
)

// AuthCookieName is the cookie that carries the auth token.
const AuthCookieName = "auth_token"

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware accepts a token from the Authorization header or the auth
// cookie and stores its claims on the context.
func AuthMiddleware(tokens *authUtils.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			// Extracting token from "Bearer <token>" format
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if cookie, err := c.Cookie(AuthCookieName); err == nil {
			tokenString = cookie
		}

		if tokenString == "" {
			response.Error(c, apperrors.Unauthorized("No authorization token provided", nil))
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			slog.Debug("token validation failed", "error", err)
			response.Error(c, apperrors.Unauthorized("Invalid authorization token", err))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// AdminMiddleware lets only admin tokens through. It must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ContextRole)
		if r, ok := role.(models.Role); !ok || r != models.RoleAdmin {
			response.Error(c, apperrors.Forbidden("Admin access required", nil))
			return
		}
		c.Next()
	}
}
