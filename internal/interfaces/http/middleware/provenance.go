package middleware

import (
	"github.com/gin-gonic/gin"

	appaudit "github.com/centrex-inc/centrex/internal/application/audit"
)

const provenanceKey = "audit_meta"

// Provenance captures who is acting and from where, for the audit trail.
// The actor comes from the X-Actor header set by the fronting auth proxy;
// requests without one are recorded as "anonymous".
func Provenance() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader("X-Actor")
		if actor == "" {
			actor = "anonymous"
		}

		c.Set(provenanceKey, appaudit.Meta{
			Actor:     actor,
			SourceIP:  c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})

		c.Next()
	}
}

// GetMeta returns the provenance captured for this request.
func GetMeta(c *gin.Context) appaudit.Meta {
	if v, ok := c.Get(provenanceKey); ok {
		if meta, ok := v.(appaudit.Meta); ok {
			return meta
		}
	}
	return appaudit.Meta{Actor: "anonymous", SourceIP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}
