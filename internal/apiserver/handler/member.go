package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/apiserver/transfer"
	"github.com/amoylab/assocmanager/internal/auth/password"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
)

const (
	generatedPasswordLength = 8
	// tokenAttempts bounds the retries on an access token collision
	tokenAttempts = 3
)

// newMember describes a member account to create
type newMember struct {
	Name             string
	CustomFieldValue string
	Email            string
	Phone            string
	Password         string
}

// createMember creates the user and its member profile in one transaction.
// A missing password is generated; the plain password is returned.
func createMember(ctx context.Context, store *database.TenantStore, in newMember) (*database.User, string, error) {
	plain := in.Password
	if plain == "" {
		var err error
		if plain, err = password.Generate(generatedPasswordLength); err != nil {
			return nil, "", err
		}
	}
	hash, err := password.Hash(plain)
	if err != nil {
		return nil, "", err
	}

	for attempt := 1; ; attempt++ {
		token := database.NewAccessToken()
		user := &database.User{
			Email:        in.Email,
			Phone:        database.OptString(in.Phone),
			PasswordHash: hash,
			Role:         cnst.RoleMember,
			Token:        &token,
			Active:       true,
		}
		member := &database.Member{
			Name:             in.Name,
			CustomFieldValue: in.CustomFieldValue,
			Active:           true,
		}
		err = store.Transaction(ctx, func(tx *database.Tx) error {
			if err := tx.Users().Create(ctx, user); err != nil {
				return err
			}
			member.UserID = user.ID
			return tx.Members().Create(ctx, member)
		})
		if err == nil {
			user.Member = member
			return user, plain, nil
		}
		if database.ConflictColumn(err) != "token" || attempt == tokenAttempts {
			return nil, "", err
		}
	}
}

// placeholderEmail is the login email of a member created without one
func placeholderEmail() string {
	return "member_" + strings.ToLower(database.NewID()) + "@temp.local"
}

// ListMembers lists MEMBER users, filtered by search and active query parameters
func (h *Handler) ListMembers(c *gin.Context) {
	filter := database.UserFilter{Search: c.Query("search")}
	if v, ok := c.GetQuery("active"); ok {
		active := v == "true"
		filter.Active = &active
	}

	users, err := middleware.Store(c).Users().ListByRole(c.Request.Context(), cnst.RoleMember, filter)
	if err != nil {
		h.fail(c, "failed to list members", err, nil)
		return
	}
	isAdmin := middleware.IsAdmin(c)
	members := make([]dto.Member, 0, len(users))
	for _, u := range users {
		members = append(members, memberView(u, isAdmin))
	}
	c.JSON(http.StatusOK, members)
}

// CreateMember creates a member with its login and access token
func (h *Handler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if !bind(c, &req) {
		return
	}
	in := newMember{
		Name:             strings.TrimSpace(req.Name),
		CustomFieldValue: strings.TrimSpace(req.CustomFieldValue),
		Email:            strings.TrimSpace(req.Email),
		Phone:            strings.TrimSpace(req.Phone),
		Password:         req.Password,
	}
	if in.Name == "" || in.CustomFieldValue == "" {
		i18n.RespondWithError(c, i18n.ErrMemberFieldsRequired)
		return
	}
	if in.Email == "" && in.Phone == "" {
		i18n.RespondWithError(c, i18n.ErrMemberContactRequired)
		return
	}
	if transfer.HasSeparator(in.Name, in.CustomFieldValue, in.Phone) {
		i18n.RespondWithError(c, i18n.ErrMemberSeparator)
		return
	}
	if in.Email == "" {
		in.Email = placeholderEmail()
	}

	user, plain, err := createMember(c.Request.Context(), middleware.Store(c), in)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			i18n.RespondWithError(c, conflictError(err))
			return
		}
		h.fail(c, "failed to create member", err, nil)
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedMember{Member: memberView(user, true), Password: plain})
}

// GetMember returns one member by user id
func (h *Handler) GetMember(c *gin.Context) {
	user, err := middleware.Store(c).Users().GetByIDAndRole(c.Request.Context(), c.Param("id"), cnst.RoleMember)
	if err != nil {
		h.fail(c, "failed to load member", err, i18n.ErrMemberNotFound)
		return
	}
	c.JSON(http.StatusOK, memberView(user, middleware.IsAdmin(c)))
}

// UpdateMember changes the contact and profile of a member in one transaction
func (h *Handler) UpdateMember(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if !bind(c, &req) {
		return
	}
	if transfer.HasSeparator(req.Name, req.CustomFieldValue, database.StringValue(req.Phone)) {
		i18n.RespondWithError(c, i18n.ErrMemberSeparator)
		return
	}
	ctx := c.Request.Context()
	store := middleware.Store(c)
	id := c.Param("id")

	existing, err := store.Users().GetByIDAndRole(ctx, id, cnst.RoleMember)
	if err != nil {
		h.fail(c, "failed to load member", err, i18n.ErrMemberNotFound)
		return
	}

	email := firstNonEmpty(req.Email, existing.Email)
	phone := existing.Phone
	if req.Phone != nil {
		phone = database.OptString(*req.Phone)
	}
	var name, field string
	if existing.Member != nil {
		name, field = existing.Member.Name, existing.Member.CustomFieldValue
	}
	name = firstNonEmpty(req.Name, name)
	field = firstNonEmpty(req.CustomFieldValue, field)

	err = store.Transaction(ctx, func(tx *database.Tx) error {
		if err := tx.Users().UpdateContact(ctx, id, email, phone); err != nil {
			return err
		}
		return tx.Members().UpdateProfile(ctx, id, name, field)
	})
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			i18n.RespondWithError(c, conflictError(err))
			return
		}
		h.fail(c, "failed to update member", err, i18n.ErrMemberNotFound)
		return
	}

	updated, err := store.Users().GetByID(ctx, id)
	if err != nil {
		h.fail(c, "failed to load member", err, i18n.ErrMemberNotFound)
		return
	}
	c.JSON(http.StatusOK, memberView(updated, true))
}

// DeactivateMember disables the login and the profile of a member
func (h *Handler) DeactivateMember(c *gin.Context) {
	h.setMemberActive(c, false, i18n.MsgMemberDeactivated)
}

// ActivateMember re-enables the login and the profile of a member
func (h *Handler) ActivateMember(c *gin.Context) {
	h.setMemberActive(c, true, i18n.MsgMemberActivated)
}

// setMemberActive keeps User.active and Member.active in sync
func (h *Handler) setMemberActive(c *gin.Context, active bool, msgID string) {
	ctx := c.Request.Context()
	id := c.Param("id")
	err := middleware.Store(c).Transaction(ctx, func(tx *database.Tx) error {
		if err := tx.Users().SetActive(ctx, id, cnst.RoleMember, active); err != nil {
			return err
		}
		return tx.Members().SetActive(ctx, id, active)
	})
	if err != nil {
		h.fail(c, "failed to update member", err, i18n.ErrMemberNotFound)
		return
	}
	i18n.RespondWithMessage(c, msgID, nil)
}

// ResetMemberPassword replaces a member's password and echoes it
func (h *Handler) ResetMemberPassword(c *gin.Context) {
	plain, hash, ok := h.newPassword(c)
	if !ok {
		return
	}
	err := middleware.Store(c).Users().SetPasswordHash(c.Request.Context(), c.Param("id"), cnst.RoleMember, hash)
	if err != nil {
		h.fail(c, "failed to reset member password", err, i18n.ErrMemberNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgPasswordReset, gin.H{"newPassword": plain})
}

// RegenerateMemberToken issues a new access token for a member
func (h *Handler) RegenerateMemberToken(c *gin.Context) {
	users := middleware.Store(c).Users()
	for attempt := 1; ; attempt++ {
		token := database.NewAccessToken()
		err := users.SetAccessToken(c.Request.Context(), c.Param("id"), cnst.RoleMember, token)
		if err == nil {
			i18n.RespondWithMessage(c, i18n.MsgTokenRegenerated, gin.H{"token": token})
			return
		}
		if !errors.Is(err, database.ErrConflict) || attempt == tokenAttempts {
			h.fail(c, "failed to regenerate token", err, i18n.ErrMemberNotFound)
			return
		}
	}
}

// DeleteMember removes a member's payments, profile and login in one transaction
func (h *Handler) DeleteMember(c *gin.Context) {
	ctx := c.Request.Context()
	store := middleware.Store(c)
	id := c.Param("id")

	user, err := store.Users().GetByIDAndRole(ctx, id, cnst.RoleMember)
	if err != nil {
		h.fail(c, "failed to load member", err, i18n.ErrMemberNotFound)
		return
	}

	err = store.Transaction(ctx, func(tx *database.Tx) error {
		if m := user.Member; m != nil {
			if err := tx.Payments().DeleteForMember(ctx, m.ID); err != nil {
				return err
			}
			if err := tx.ExceptionalPayments().DeleteForMember(ctx, m.ID); err != nil {
				return err
			}
			if err := tx.Members().Delete(ctx, m.ID); err != nil {
				return err
			}
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		h.fail(c, "failed to delete member", err, i18n.ErrMemberNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgMemberDeleted, nil)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
