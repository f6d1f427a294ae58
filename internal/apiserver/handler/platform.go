package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/apiserver/provision"
	"github.com/amoylab/assocmanager/internal/auth/password"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/amoylab/assocmanager/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func superAdminInfo(sa *database.SuperAdmin) dto.SuperAdminInfo {
	return dto.SuperAdminInfo{ID: sa.ID, Email: sa.Email, Name: sa.Name, Role: string(cnst.RoleSuperAdmin)}
}

// PlatformLogin authenticates a super admin against the platform database
func (h *Handler) PlatformLogin(c *gin.Context) {
	var req dto.PlatformLoginRequest
	if !bind(c, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		i18n.RespondWithError(c, i18n.ErrEmailPasswordRequired)
		return
	}

	sa, err := h.platform.GetSuperAdminByEmail(c.Request.Context(), email)
	if err == nil && !password.Compare(sa.PasswordHash, req.Password) {
		err = i18n.ErrInvalidCredentials
	}
	if err == nil && !sa.Active {
		err = i18n.ErrAccountDisabled
	}
	if err != nil {
		h.metrics.Login(cnst.AudiencePlatform, metrics.LoginFailure)
		h.fail(c, "failed to authenticate super admin", err, i18n.ErrInvalidCredentials)
		return
	}

	token, err := h.jwtService.GeneratePlatformToken(sa.ID, sa.Email)
	if err != nil {
		h.fail(c, "failed to generate platform token", err, nil)
		return
	}
	h.metrics.Login(cnst.AudiencePlatform, metrics.LoginSuccess)
	h.logger.Info("super admin logged in", zap.String("email", sa.Email))
	c.JSON(http.StatusOK, dto.PlatformLoginResponse{Token: token, User: superAdminInfo(sa)})
}

// PlatformMe returns the authenticated super admin
func (h *Handler) PlatformMe(c *gin.Context) {
	c.JSON(http.StatusOK, superAdminInfo(middleware.SuperAdmin(c)))
}

// ListAssociations lists every registered association, newest first
func (h *Handler) ListAssociations(c *gin.Context) {
	list, err := h.platform.ListAssociations(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list associations", err, nil)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetAssociation returns one association
func (h *Handler) GetAssociation(c *gin.Context) {
	a, err := h.platform.GetAssociation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to load association", err, i18n.ErrAssociationNotFound)
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreateAssociation provisions a tenant database and its first administrator
func (h *Handler) CreateAssociation(c *gin.Context) {
	var req dto.CreateAssociationRequest
	if !bind(c, &req) {
		return
	}
	a, err := h.provisioner.Provision(c.Request.Context(), provision.Request{
		Name:          req.Name,
		Type:          req.Type,
		Code:          req.Code,
		AdminEmail:    strings.TrimSpace(req.AdminEmail),
		AdminPassword: req.AdminPassword,
		AdminName:     req.AdminName,
	})
	h.metrics.Provision(err)
	switch {
	case errors.Is(err, provision.ErrMissingFields):
		i18n.RespondWithError(c, i18n.ErrAssociationFieldsRequired)
		return
	case errors.Is(err, database.ErrConflict):
		i18n.RespondWithError(c, i18n.ErrAssociationCodeTaken)
		return
	case err != nil:
		h.fail(c, "failed to provision association", err, nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     i18n.TranslateMessage(c, i18n.MsgAssociationCreated, nil),
		"association": a,
		"credentials": dto.Credentials{Email: a.AdminEmail, Password: req.AdminPassword},
	})
}

// UpdateAssociation changes the name, type or active flag of an association
func (h *Handler) UpdateAssociation(c *gin.Context) {
	var req dto.UpdateAssociationRequest
	if !bind(c, &req) {
		return
	}
	a, err := h.platform.UpdateAssociation(c.Request.Context(), c.Param("id"), database.AssociationChanges{
		Name:   req.Name,
		Type:   req.Type,
		Active: req.Active,
	})
	if err != nil {
		h.fail(c, "failed to update association", err, i18n.ErrAssociationNotFound)
		return
	}
	c.JSON(http.StatusOK, a)
}

// ToggleAssociation flips the active flag of an association
func (h *Handler) ToggleAssociation(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.platform.GetAssociation(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "failed to load association", err, i18n.ErrAssociationNotFound)
		return
	}
	active := !a.Active
	if a, err = h.platform.UpdateAssociation(ctx, a.ID, database.AssociationChanges{Active: &active}); err != nil {
		h.fail(c, "failed to toggle association", err, i18n.ErrAssociationNotFound)
		return
	}

	msg := i18n.MsgAssociationDeactivated
	if active {
		msg = i18n.MsgAssociationActivated
	}
	h.logger.Info("association toggled", zap.String("code", a.Code), zap.Bool("active", active))
	i18n.RespondWithMessage(c, msg, gin.H{"association": a})
}

// DeleteAssociation unregisters an association and removes its database file
func (h *Handler) DeleteAssociation(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.platform.GetAssociation(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "failed to load association", err, i18n.ErrAssociationNotFound)
		return
	}
	if err := h.provisioner.Remove(ctx, a); err != nil {
		if errors.Is(err, provision.ErrDefaultAssociation) {
			i18n.RespondWithError(c, i18n.ErrDefaultAssociationDelete)
			return
		}
		h.fail(c, "failed to remove association", err, i18n.ErrAssociationNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgAssociationDeleted, nil)
}

// PlatformStats counts associations by state
func (h *Handler) PlatformStats(c *gin.Context) {
	ctx := c.Request.Context()
	total, err := h.platform.CountAssociations(ctx, nil)
	if err != nil {
		h.fail(c, "failed to count associations", err, nil)
		return
	}
	active := true
	activeCount, err := h.platform.CountAssociations(ctx, &active)
	if err != nil {
		h.fail(c, "failed to count associations", err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.PlatformStats{
		TotalAssociations:    total,
		ActiveAssociations:   activeCount,
		InactiveAssociations: total - activeCount,
		OpenTenants:          h.registry.Len(),
	})
}
