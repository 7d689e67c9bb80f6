package middleware

import (
	"net/http"
	"strings"

	"storefront/models"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookie      = "storefront_session"
	SessionTokenHeader = "X-Session-Token"
	StorefrontKey      = "storefront"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}
	return tokenParts[1]
}

func sessionToken(c *gin.Context) string {
	if token := bearerToken(c); token != "" {
		return token
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionMiddleware resolves the caller's storefront from the session token,
// minting a new session when the token is missing or no longer valid. The
// current token is echoed back as a cookie and in X-Session-Token.
func SessionMiddleware(registry *services.SessionRegistry, tokens *utils.TokenIssuer, secure bool, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)

		var sessionID string
		if token != "" {
			claims, err := tokens.Validate(token)
			if err == nil && claims.SessionID != "" {
				sessionID = claims.SessionID
			} else {
				logger.Debug("discarding session token", zap.Error(err))
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			issued, err := tokens.Generate(sessionID)
			if err != nil {
				logger.Error("failed to issue session token", zap.Error(err))
				c.JSON(http.StatusInternalServerError, models.ErrorResponse{
					Success: false,
					Message: "Failed to start session",
				})
				c.Abort()
				return
			}
			token = issued
		}

		sf, err := registry.Get(c.Request.Context(), sessionID)
		if err != nil {
			logger.Error("failed to load session", zap.String("session_id", sessionID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Success: false,
				Message: "Failed to load session",
			})
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, int(tokens.Expiry().Seconds()), "/", "", secure, true)
		c.Header(SessionTokenHeader, token)

		c.Set(StorefrontKey, sf)
		c.Next()
	}
}

// RequireUser rejects requests whose session has nobody signed in.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(StorefrontKey)
		if !exists {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Session not found",
			})
			c.Abort()
			return
		}

		sf := value.(*services.Storefront)
		if !sf.Auth.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Message: "Please log in to continue",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
