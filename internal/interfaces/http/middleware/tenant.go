package middleware

import (
	"net/http"
	"strings"

	voucherdomain "github.com/erp/stockledger/internal/domain/voucher"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys the downstream handlers read the resolved tenant/user
// identity from.
const (
	TenantIDKey     = "tenant_id"
	UserIDKey       = "user_id"
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"
)

// skipPaths are the routes that don't require a tenant/user context.
var skipPaths = []string{"/health", "/healthz"}

// ActingUser extracts the already-validated `X-Tenant-ID`/`X-User-ID`
// header pair (per §2's "authentication and tenant-resolution are out of
// scope; requests arrive with that pair already validated upstream") and
// stores both the raw IDs and a voucherdomain.ActingUser in gin.Context.
func ActingUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range skipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tenantID := c.GetHeader(TenantHeaderKey)
		userID := c.GetHeader(UserHeaderKey)
		if tenantID == "" || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "MISSING_IDENTITY", "message": "X-Tenant-ID and X-User-ID headers are required"},
			})
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "INVALID_TENANT_ID", "message": "X-Tenant-ID must be a UUID"},
			})
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetTenantUUID parses the resolved tenant ID out of gin.Context.
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.GetString(TenantIDKey))
}

// GetActingUser builds the voucherdomain.ActingUser value hook
// implementations receive, from the tenant/user IDs ActingUser resolved.
func GetActingUser(c *gin.Context) voucherdomain.ActingUser {
	return voucherdomain.ActingUser{TenantID: c.GetString(TenantIDKey), UserID: c.GetString(UserIDKey)}
}
