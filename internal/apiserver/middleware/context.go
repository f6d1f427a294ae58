package middleware

import (
	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/gin-gonic/gin"
)

// CurrentUser returns the user set by TenantResolver
func CurrentUser(c *gin.Context) *database.User {
	if v, ok := c.Get(cnst.CtxKeyUser); ok {
		if u, ok := v.(*database.User); ok {
			return u
		}
	}
	return nil
}

// IsAdmin reports whether the current user is a tenant administrator
func IsAdmin(c *gin.Context) bool {
	u := CurrentUser(c)
	return u != nil && u.Role == cnst.RoleAdmin
}

// Store returns the tenant database of the request
func Store(c *gin.Context) *database.TenantStore {
	if v, ok := c.Get(cnst.CtxKeyTenantStore); ok {
		if s, ok := v.(*database.TenantStore); ok {
			return s
		}
	}
	return nil
}

// TenantID returns the database name the request was routed to
func TenantID(c *gin.Context) string {
	return c.GetString(cnst.CtxKeyTenantID)
}

// AssociationID returns the association id carried by the token, if any
func AssociationID(c *gin.Context) string {
	return c.GetString(cnst.CtxKeyAssociationID)
}

// SuperAdmin returns the operator set by PlatformResolver
func SuperAdmin(c *gin.Context) *database.SuperAdmin {
	if v, ok := c.Get(cnst.CtxKeySuperAdmin); ok {
		if sa, ok := v.(*database.SuperAdmin); ok {
			return sa
		}
	}
	return nil
}
