package handler

import (
	"net/http"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/dues"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
)

// memberDues is one row of the year grid
type memberDues struct {
	ID               string              `json:"id"`
	UserID           string              `json:"userId"`
	Name             string              `json:"name"`
	CustomFieldValue string              `json:"customFieldValue"`
	Phone            *string             `json:"phone"`
	PaymentsByMonth  map[int]*dues.Month `json:"paymentsByMonth"`
	dues.Summary
}

type yearStats struct {
	Year *database.Year `json:"year"`
	dues.Stats
}

// YearPayments returns the twelve-month grid of every active member for a year
func (h *Handler) YearPayments(c *gin.Context) {
	ctx := c.Request.Context()
	store := middleware.Store(c)

	year, err := store.Years().GetByID(ctx, c.Param("yearId"))
	if err != nil {
		h.fail(c, "failed to load year", err, i18n.ErrYearNotFound)
		return
	}
	members, err := store.Members().ListActiveWithPayments(ctx, year.ID)
	if err != nil {
		h.fail(c, "failed to list payments", err, nil)
		return
	}

	rows := make([]memberDues, 0, len(members))
	for _, m := range members {
		grid := dues.SummarizeMember(m.Payments, year)
		row := memberDues{
			ID:               m.ID,
			UserID:           m.UserID,
			Name:             m.Name,
			CustomFieldValue: m.CustomFieldValue,
			PaymentsByMonth:  grid.Months,
			Summary:          grid.Summary,
		}
		if m.User != nil {
			row.Phone = m.User.Phone
		}
		rows = append(rows, row)
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "members": rows})
}

// MemberYearPayments returns a member's payments for a year, month by month
func (h *Handler) MemberYearPayments(c *gin.Context) {
	ctx := c.Request.Context()
	store := middleware.Store(c)

	year, err := store.Years().GetByID(ctx, c.Param("yearId"))
	if err != nil {
		h.fail(c, "failed to load year", err, i18n.ErrYearNotFound)
		return
	}
	payments, err := store.Payments().ListForMemberYear(ctx, c.Param("memberId"), year.ID)
	if err != nil {
		h.fail(c, "failed to list payments", err, nil)
		return
	}
	grid := dues.SummarizeMember(payments, year)
	c.JSON(http.StatusOK, gin.H{"year": year, "paymentsByMonth": grid.Months, "summary": grid.Summary})
}

// paymentFromRequest validates a payment request and checks its member and year exist
func (h *Handler) paymentFromRequest(c *gin.Context) (*database.MonthlyPayment, bool) {
	var req dto.PaymentRequest
	if !bindOr(c, &req, i18n.ErrPaymentFieldsRequired) {
		return nil, false
	}
	if req.Month < 1 || req.Month > 12 {
		i18n.RespondWithError(c, i18n.ErrInvalidMonth)
		return nil, false
	}
	if *req.AmountPaid <= 0 {
		i18n.RespondWithError(c, i18n.ErrInvalidAmount)
		return nil, false
	}

	ctx := c.Request.Context()
	store := middleware.Store(c)
	if _, err := store.Members().GetByID(ctx, req.MemberID); err != nil {
		h.fail(c, "failed to load member", err, i18n.ErrMemberNotFound)
		return nil, false
	}
	if _, err := store.Years().GetByID(ctx, req.YearID); err != nil {
		h.fail(c, "failed to load year", err, i18n.ErrYearNotFound)
		return nil, false
	}

	p := &database.MonthlyPayment{
		MemberID:   req.MemberID,
		YearID:     req.YearID,
		Month:      req.Month,
		AmountPaid: *req.AmountPaid,
		Notes:      database.OptString(req.Notes),
	}
	if d := req.PaymentDate.Value(); d != nil {
		p.PaymentDate = *d
	} else {
		p.PaymentDate = time.Now()
	}
	return p, true
}

// CreatePayment records a monthly payment
func (h *Handler) CreatePayment(c *gin.Context) {
	p, ok := h.paymentFromRequest(c)
	if !ok {
		return
	}
	if err := middleware.Store(c).Payments().Create(c.Request.Context(), p); err != nil {
		h.fail(c, "failed to create payment", err, nil)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpsertPayment replaces the payment of a member for a month, or records it
func (h *Handler) UpsertPayment(c *gin.Context) {
	p, ok := h.paymentFromRequest(c)
	if !ok {
		return
	}
	saved, err := middleware.Store(c).Payments().Upsert(c.Request.Context(), p)
	if err != nil {
		h.fail(c, "failed to upsert payment", err, nil)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// paymentChanges converts the optional fields of an update request
func paymentChanges(amount *float64, date *dto.Date, notes *string) (database.PaymentChanges, bool) {
	if amount != nil && *amount <= 0 {
		return database.PaymentChanges{}, false
	}
	return database.PaymentChanges{Amount: amount, PaymentDate: date.Value(), Notes: notes}, true
}

// UpdatePayment changes the amount, date or notes of a payment
func (h *Handler) UpdatePayment(c *gin.Context) {
	var req dto.UpdatePaymentRequest
	if !bind(c, &req) {
		return
	}
	changes, ok := paymentChanges(req.AmountPaid, req.PaymentDate, req.Notes)
	if !ok {
		i18n.RespondWithError(c, i18n.ErrInvalidAmount)
		return
	}
	p, err := middleware.Store(c).Payments().Update(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		h.fail(c, "failed to update payment", err, i18n.ErrPaymentNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeletePayment removes a payment
func (h *Handler) DeletePayment(c *gin.Context) {
	if err := middleware.Store(c).Payments().Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "failed to delete payment", err, i18n.ErrPaymentNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgPaymentDeleted, nil)
}

// YearStatistics totals a year: every payment received against the dues of active members
func (h *Handler) YearStatistics(c *gin.Context) {
	ctx := c.Request.Context()
	store := middleware.Store(c)

	year, err := store.Years().GetByID(ctx, c.Param("yearId"))
	if err != nil {
		h.fail(c, "failed to load year", err, i18n.ErrYearNotFound)
		return
	}
	members, err := store.Members().ListActiveWithPayments(ctx, year.ID)
	if err != nil {
		h.fail(c, "failed to compute statistics", err, nil)
		return
	}
	collected, err := store.Payments().SumForYear(ctx, year.ID)
	if err != nil {
		h.fail(c, "failed to compute statistics", err, nil)
		return
	}
	c.JSON(http.StatusOK, yearStats{Year: year, Stats: dues.YearStats(members, year, collected)})
}

