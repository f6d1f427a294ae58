package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/auth/password"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/amoylab/assocmanager/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// resolveAssociation finds an active association by code and opens its database
func (h *Handler) resolveAssociation(c *gin.Context, code string) (*database.Association, *database.TenantStore, error) {
	a, err := h.platform.GetAssociationByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, i18n.ErrAssociationNotFound
		}
		return nil, nil, err
	}
	if !a.Active {
		return nil, nil, i18n.ErrAssociationInactive
	}

	store, err := h.registry.Resolve(a.DBName)
	if err != nil {
		if errors.Is(err, database.ErrTenantNotFound) || errors.Is(err, database.ErrInvalidArgument) {
			h.logger.Warn("association database missing", zap.String("code", a.Code), zap.String("db", a.DBName))
			return nil, nil, i18n.ErrAssociationNotFound
		}
		return nil, nil, err
	}
	return a, store, nil
}

// Login handles tenant login by identifier and password or by member access token
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bind(c, &req) {
		return
	}

	store := h.registry.Default()
	var assoc *database.Association
	if code := strings.TrimSpace(req.AssociationCode); code != "" {
		var err error
		if assoc, store, err = h.resolveAssociation(c, code); err != nil {
			h.metrics.Login(cnst.AudienceTenant, metrics.LoginFailure)
			h.fail(c, "failed to resolve association", err, nil)
			return
		}
	}

	user, err := h.authenticate(c, store, &req)
	if err != nil {
		h.metrics.Login(cnst.AudienceTenant, metrics.LoginFailure)
		h.fail(c, "failed to authenticate user", err, nil)
		return
	}

	var associationID, dbName string
	if assoc != nil {
		associationID, dbName = assoc.ID, assoc.DBName
	}
	token, err := h.jwtService.GenerateTenantToken(user.ID, associationID, dbName)
	if err != nil {
		h.fail(c, "failed to generate token", err, nil)
		return
	}

	h.metrics.Login(cnst.AudienceTenant, metrics.LoginSuccess)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:       token,
		User:        userInfo(user),
		Association: associationInfo(assoc),
	})
}

func (h *Handler) authenticate(c *gin.Context, store *database.TenantStore, req *dto.LoginRequest) (*database.User, error) {
	ctx := c.Request.Context()

	if req.AccessToken != "" {
		user, err := store.Users().FindActiveByAccessToken(ctx, req.AccessToken)
		if errors.Is(err, database.ErrNotFound) {
			return nil, i18n.ErrInvalidAccessToken
		}
		return user, err
	}

	identity := strings.TrimSpace(req.Identity())
	if identity == "" || req.Password == "" {
		return nil, i18n.ErrCredentialsRequired
	}
	user, err := store.Users().FindActiveByIdentifier(ctx, identity)
	if errors.Is(err, database.ErrNotFound) {
		return nil, i18n.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !password.Compare(user.PasswordHash, req.Password) {
		return nil, i18n.ErrInvalidCredentials
	}
	return user, nil
}

// Me returns the authenticated user and its association
func (h *Handler) Me(c *gin.Context) {
	resp := dto.MeResponse{UserInfo: userInfo(middleware.CurrentUser(c))}
	if id := middleware.AssociationID(c); id != "" {
		a, err := h.platform.GetAssociation(c.Request.Context(), id)
		if err != nil && !errors.Is(err, database.ErrNotFound) {
			h.fail(c, "failed to load association", err, nil)
			return
		}
		resp.Association = associationInfo(a)
	}
	c.JSON(http.StatusOK, resp)
}
