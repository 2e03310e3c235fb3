package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

const (
	ContextSubject  = "subject"
	ContextUserRole = "userRole"
)

// AuthMiddleware requires an HS256 bearer token signed with secret. The
// token's sub and role claims are copied into the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a bearer token.")
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			httperr.Unauthorized(c, "invalid_token_payload", "Token has no subject.")
			return
		}
		role, _ := claims["role"].(string)

		c.Set(ContextSubject, sub)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}
