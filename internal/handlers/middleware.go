package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

// TokenParser validates a bearer token. *casdoorsdk.Client satisfies it.
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

// AuthMiddleware authenticates requests with a Casdoor-issued JWT and stores
// the user id in the gin context.
func (hm *HandlerManager) AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	base := NewBaseHandler(hm.logger)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			base.RespondWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Missing bearer token", nil)
			return
		}

		claims, err := parser.ParseJwtToken(strings.TrimSpace(token))
		if err != nil {
			base.LogWarn(c, "Token rejected", "error", err)
			base.RespondWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid token", nil)
			return
		}

		userID := claims.User.Id
		if userID == "" {
			userID = claims.RegisteredClaims.Subject
		}
		if userID == "" {
			base.RespondWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Token has no subject", nil)
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
