package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
)

// contributionView adds the collected total and distinct participants
type contributionView struct {
	*database.ExceptionalContribution
	TotalCollected    float64 `json:"totalCollected"`
	ParticipantsCount int     `json:"participantsCount"`
}

func newContributionView(ec *database.ExceptionalContribution) contributionView {
	v := contributionView{ExceptionalContribution: ec}
	participants := make(map[string]struct{})
	for _, p := range ec.Payments {
		v.TotalCollected += p.Amount
		participants[p.MemberID] = struct{}{}
	}
	v.ParticipantsCount = len(participants)
	if ec.Payments == nil {
		ec.Payments = []*database.ExceptionalPayment{}
	}
	return v
}

func invalidContributionType() *i18n.ErrorWithCode {
	return i18n.ErrContributionType.WithParam("Types", strings.Join(cnst.ContributionTypes, ", "))
}

// ListContributions lists exceptional contributions, newest first
func (h *Handler) ListContributions(c *gin.Context) {
	var active *bool
	if v, ok := c.GetQuery("active"); ok {
		b := v == "true"
		active = &b
	}
	list, err := middleware.Store(c).Contributions().List(c.Request.Context(), active)
	if err != nil {
		h.fail(c, "failed to list contributions", err, nil)
		return
	}
	views := make([]contributionView, 0, len(list))
	for _, ec := range list {
		views = append(views, newContributionView(ec))
	}
	c.JSON(http.StatusOK, views)
}

// GetContribution returns a contribution with its payments
func (h *Handler) GetContribution(c *gin.Context) {
	ec, err := middleware.Store(c).Contributions().GetWithPayments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "failed to load contribution", err, i18n.ErrContributionNotFound)
		return
	}
	c.JSON(http.StatusOK, newContributionView(ec))
}

// CreateContribution opens an exceptional contribution
func (h *Handler) CreateContribution(c *gin.Context) {
	var req dto.ContributionRequest
	if !bindOr(c, &req, invalidContributionType()) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || req.Type == "" {
		i18n.RespondWithError(c, i18n.ErrContributionFieldsRequired)
		return
	}

	ec := &database.ExceptionalContribution{Title: title, Type: req.Type, Active: true}
	if req.Description != nil {
		ec.Description = database.OptString(*req.Description)
	}
	if err := middleware.Store(c).Contributions().Create(c.Request.Context(), ec); err != nil {
		h.fail(c, "failed to create contribution", err, nil)
		return
	}
	c.JSON(http.StatusCreated, ec)
}

// UpdateContribution changes the fields present in the request
func (h *Handler) UpdateContribution(c *gin.Context) {
	var req dto.ContributionRequest
	if !bindOr(c, &req, invalidContributionType()) {
		return
	}
	var changes database.ContributionChanges
	if title := strings.TrimSpace(req.Title); title != "" {
		changes.Title = &title
	}
	if req.Type != "" {
		changes.Type = &req.Type
	}
	changes.Description = req.Description
	changes.Active = req.Active

	ec, err := middleware.Store(c).Contributions().Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		h.fail(c, "failed to update contribution", err, i18n.ErrContributionNotFound)
		return
	}
	c.JSON(http.StatusOK, ec)
}

// DeleteContribution removes a contribution and its payments
func (h *Handler) DeleteContribution(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	err := middleware.Store(c).Transaction(ctx, func(tx *database.Tx) error {
		if err := tx.ExceptionalPayments().DeleteForContribution(ctx, id); err != nil {
			return err
		}
		return tx.Contributions().Delete(ctx, id)
	})
	if err != nil {
		h.fail(c, "failed to delete contribution", err, i18n.ErrContributionNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgContributionDeleted, nil)
}

// AddContributionPayment records a member's payment toward a contribution.
// The member may be given by member id or by user id.
func (h *Handler) AddContributionPayment(c *gin.Context) {
	var req dto.ExceptionalPaymentRequest
	if !bindOr(c, &req, i18n.ErrExceptionalPaymentFieldsRequired) {
		return
	}
	if *req.Amount <= 0 {
		i18n.RespondWithError(c, i18n.ErrInvalidAmount)
		return
	}

	ctx := c.Request.Context()
	store := middleware.Store(c)
	ec, err := store.Contributions().GetByID(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, "failed to load contribution", err, i18n.ErrContributionNotFound)
		return
	}
	member, err := store.Members().GetByID(ctx, req.MemberID)
	if errors.Is(err, database.ErrNotFound) {
		member, err = store.Members().GetByUserID(ctx, req.MemberID)
	}
	if err != nil {
		h.fail(c, "failed to load member", err, i18n.ErrMemberNotFound)
		return
	}

	p := &database.ExceptionalPayment{
		ContributionID: ec.ID,
		MemberID:       member.ID,
		Amount:         *req.Amount,
		PaymentDate:    time.Now(),
		Notes:          database.OptString(req.Notes),
	}
	if d := req.PaymentDate.Value(); d != nil {
		p.PaymentDate = *d
	}
	if err := store.ExceptionalPayments().Create(ctx, p); err != nil {
		h.fail(c, "failed to create exceptional payment", err, nil)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateContributionPayment changes the amount, date or notes of an exceptional payment
func (h *Handler) UpdateContributionPayment(c *gin.Context) {
	var req dto.UpdateExceptionalPaymentRequest
	if !bind(c, &req) {
		return
	}
	changes, ok := paymentChanges(req.Amount, req.PaymentDate, req.Notes)
	if !ok {
		i18n.RespondWithError(c, i18n.ErrInvalidAmount)
		return
	}
	p, err := middleware.Store(c).ExceptionalPayments().Update(c.Request.Context(), c.Param("paymentId"), changes)
	if err != nil {
		h.fail(c, "failed to update exceptional payment", err, i18n.ErrPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteContributionPayment removes an exceptional payment
func (h *Handler) DeleteContributionPayment(c *gin.Context) {
	if err := middleware.Store(c).ExceptionalPayments().Delete(c.Request.Context(), c.Param("paymentId")); err != nil {
		h.fail(c, "failed to delete exceptional payment", err, i18n.ErrPaymentNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgPaymentDeleted, nil)
}
