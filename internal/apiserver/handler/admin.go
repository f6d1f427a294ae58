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
	"github.com/gin-gonic/gin"
)

// minPasswordLength is the shortest password an administrator may set
const minPasswordLength = 4

// ListAdmins lists the tenant administrators, newest first
func (h *Handler) ListAdmins(c *gin.Context) {
	users, err := middleware.Store(c).Users().ListByRole(c.Request.Context(), cnst.RoleAdmin, database.UserFilter{})
	if err != nil {
		h.fail(c, "failed to list admins", err, nil)
		return
	}
	admins := make([]dto.AdminInfo, 0, len(users))
	for _, u := range users {
		admins = append(admins, adminInfo(u))
	}
	c.JSON(http.StatusOK, admins)
}

// CreateAdmin adds an administrator
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !bind(c, &req) {
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		i18n.RespondWithError(c, i18n.ErrEmailPasswordRequired)
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		h.fail(c, "failed to hash password", err, nil)
		return
	}
	admin := &database.User{
		Email:        email,
		Phone:        database.OptString(req.Phone),
		PasswordHash: hash,
		Role:         cnst.RoleAdmin,
		Active:       true,
	}
	if err := middleware.Store(c).Users().Create(c.Request.Context(), admin); err != nil {
		if errors.Is(err, database.ErrConflict) {
			i18n.RespondWithError(c, conflictError(err))
			return
		}
		h.fail(c, "failed to create admin", err, nil)
		return
	}
	c.JSON(http.StatusCreated, adminInfo(admin))
}

// DeactivateAdmin disables another administrator
func (h *Handler) DeactivateAdmin(c *gin.Context) {
	if c.Param("id") == middleware.CurrentUser(c).ID {
		i18n.RespondWithError(c, i18n.ErrCannotDeactivateSelf)
		return
	}
	h.setAdminActive(c, false, i18n.MsgAdminDeactivated)
}

// ActivateAdmin re-enables an administrator
func (h *Handler) ActivateAdmin(c *gin.Context) {
	h.setAdminActive(c, true, i18n.MsgAdminActivated)
}

func (h *Handler) setAdminActive(c *gin.Context, active bool, msgID string) {
	ctx := c.Request.Context()
	users := middleware.Store(c).Users()
	id := c.Param("id")

	if err := users.SetActive(ctx, id, cnst.RoleAdmin, active); err != nil {
		h.fail(c, "failed to update admin", err, i18n.ErrAdminNotFound)
		return
	}
	admin, err := users.GetByIDAndRole(ctx, id, cnst.RoleAdmin)
	if err != nil {
		h.fail(c, "failed to load admin", err, i18n.ErrAdminNotFound)
		return
	}
	i18n.RespondWithMessage(c, msgID, gin.H{"admin": adminInfo(admin)})
}

// ResetAdminPassword replaces an administrator's password
func (h *Handler) ResetAdminPassword(c *gin.Context) {
	_, hash, ok := h.newPassword(c)
	if !ok {
		return
	}
	err := middleware.Store(c).Users().SetPasswordHash(c.Request.Context(), c.Param("id"), cnst.RoleAdmin, hash)
	if err != nil {
		h.fail(c, "failed to reset admin password", err, i18n.ErrAdminNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgAdminPasswordReset, nil)
}

// newPassword reads a ResetPasswordRequest and hashes its password
func (h *Handler) newPassword(c *gin.Context) (plain, hash string, ok bool) {
	var req dto.ResetPasswordRequest
	if !bind(c, &req) {
		return "", "", false
	}
	if len(req.NewPassword) < minPasswordLength {
		i18n.RespondWithError(c, i18n.ErrPasswordTooShort)
		return "", "", false
	}
	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		h.fail(c, "failed to hash password", err, nil)
		return "", "", false
	}
	return req.NewPassword, hash, true
}
