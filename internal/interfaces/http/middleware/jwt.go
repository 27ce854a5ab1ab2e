package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcredit/backend/internal/infrastructure/auth"
	"github.com/microcredit/backend/internal/infrastructure/logger"
	"github.com/microcredit/backend/internal/interfaces/http/dto"
)

// Context keys for authenticated request data
const (
	ContextKeyClaims   = "jwt_claims"
	ContextKeyUserID   = "jwt_user_id"
	ContextKeyUsername = "jwt_username"
	ContextKeyRole     = "jwt_role"
)

// JWTAuthConfig configures the JWT authentication middleware
type JWTAuthConfig struct {
	// SkipPaths lists paths that bypass authentication
	SkipPaths []string
}

// JWTAuth returns a middleware that validates Bearer tokens on every request
// except the configured skip paths. Valid claims are stored in the gin context
// and the user ID is propagated into the request context for logging.
func JWTAuth(jwtService *auth.JWTService, cfg JWTAuthConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		token, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, "UNAUTHORIZED", err.Error())
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			code, message := mapTokenError(err)
			abortUnauthorized(c, code, message)
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyRole, claims.Role)

		reqCtx := c.Request.Context()
		ctx, _ := logger.WithUserID(reqCtx, logger.FromContext(reqCtx), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole returns a middleware that allows only the given role. It must
// run after JWTAuth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID("FORBIDDEN", "insufficient permissions", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user ID from the gin context
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// GetUsername retrieves the authenticated username from the gin context
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetRole retrieves the authenticated user role from the gin context
func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}

func mapTokenError(err error) (code, message string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "TOKEN_EXPIRED", "token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		return "TOKEN_INVALID", "wrong token type"
	default:
		return "TOKEN_INVALID", "invalid token"
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
