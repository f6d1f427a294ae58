package middleware

import (
	"errors"
	"strings"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/auth/jwt"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return parts[1], true
}

// TenantResolver authenticates a tenant token, checks that the association it
// names still exists and is active, opens the tenant database named by its
// claims and loads the active user. Tokens without an association id skip the
// platform check.
func TenantResolver(jwtService *jwt.Service, platform *database.PlatformStore, registry *database.Registry,
	logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("auth")
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			i18n.RespondWithError(c, i18n.ErrTokenMissing)
			return
		}

		claims, err := jwtService.ValidateTenantToken(token)
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrTokenInvalid)
			return
		}

		if claims.AssociationID != "" && platform != nil {
			a, err := platform.GetAssociation(c.Request.Context(), claims.AssociationID)
			switch {
			case errors.Is(err, database.ErrNotFound):
				logger.Warn("token of a removed association", zap.String("association", claims.AssociationID))
				i18n.RespondWithError(c, i18n.ErrAssociationNotFound)
				return
			case err != nil:
				logger.Error("failed to load association", zap.String("association", claims.AssociationID), zap.Error(err))
				i18n.RespondWithError(c, i18n.ErrInternal)
				return
			case !a.Active:
				i18n.RespondWithError(c, i18n.ErrAssociationInactive)
				return
			}
		}

		store, err := registry.Resolve(claims.DBName)
		if err != nil {
			if errors.Is(err, database.ErrTenantNotFound) || errors.Is(err, database.ErrInvalidArgument) {
				logger.Warn("tenant database not found", zap.String("db", claims.DBName))
				i18n.RespondWithError(c, i18n.ErrAssociationNotFound)
				return
			}
			logger.Error("failed to open tenant database", zap.String("db", claims.DBName), zap.Error(err))
			i18n.RespondWithError(c, i18n.ErrInternal)
			return
		}

		user, err := store.Users().GetByID(c.Request.Context(), claims.UserID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			logger.Error("failed to load user", zap.String("user", claims.UserID), zap.Error(err))
			i18n.RespondWithError(c, i18n.ErrInternal)
			return
		}
		if user == nil || !user.Active {
			i18n.RespondWithError(c, i18n.ErrUserInactive)
			return
		}

		c.Set(cnst.CtxKeyClaims, claims)
		c.Set(cnst.CtxKeyUser, user)
		c.Set(cnst.CtxKeyTenantStore, store)
		c.Set(cnst.CtxKeyTenantID, store.Name())
		c.Set(cnst.CtxKeyAssociationID, claims.AssociationID)
		c.Next()
	}
}

// PlatformResolver authenticates a platform token and loads the active super admin
func PlatformResolver(jwtService *jwt.Service, platform *database.PlatformStore, logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("auth")
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			i18n.RespondWithError(c, i18n.ErrTokenMissing)
			return
		}

		claims, err := jwtService.ValidatePlatformToken(token)
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrTokenInvalid)
			return
		}

		sa, err := platform.GetSuperAdmin(c.Request.Context(), claims.ID)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			logger.Error("failed to load super admin", zap.String("id", claims.ID), zap.Error(err))
			i18n.RespondWithError(c, i18n.ErrInternal)
			return
		}
		if sa == nil || !sa.Active {
			i18n.RespondWithError(c, i18n.ErrSuperAdminInvalid)
			return
		}

		c.Set(cnst.CtxKeyClaims, claims)
		c.Set(cnst.CtxKeySuperAdmin, sa)
		c.Next()
	}
}

// RequireAdmin rejects users that are not tenant administrators
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != cnst.RoleAdmin {
			i18n.RespondWithError(c, i18n.ErrAdminRequired)
			return
		}
		c.Next()
	}
}
