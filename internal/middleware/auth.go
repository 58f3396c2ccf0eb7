package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/licx/authgate/internal/pkg/jwt"
	"github.com/licx/authgate/internal/pkg/response"
	"github.com/licx/authgate/internal/service"
)

const (
	ContextAccountIDKey   = "account_id"
	ContextUsernameKey    = "username"
	ContextAuthoritiesKey = "authorities"
)

// Auth resolves the Authorization header once per request: verify the
// token, then check the revocation registry. Every failure, including a
// store outage, leaves the request unauthenticated.
func Auth(codec *jwt.Codec, revocations *service.RevocationRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := codec.Verify(c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		revoked, err := revocations.IsRevoked(c.Request.Context(), claims.ID())
		if err != nil {
			logutil.GetLogger(c.Request.Context()).Error("revocation check failed", zap.Error(err))
			response.Error(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		if revoked {
			response.Error(c, http.StatusUnauthorized, "unauthorized")
			c.Abort()
			return
		}
		c.Set(ContextAccountIDKey, claims.AccountID)
		c.Set(ContextUsernameKey, claims.Name)
		c.Set(ContextAuthoritiesKey, claims.Authorities)
		c.Next()
	}
}
