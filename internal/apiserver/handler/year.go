package handler

import (
	"errors"
	"net/http"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
)

// ListYears lists every year, latest first
func (h *Handler) ListYears(c *gin.Context) {
	years, err := middleware.Store(c).Years().List(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list years", err, nil)
		return
	}
	c.JSON(http.StatusOK, years)
}

// ActiveYear returns the active year
func (h *Handler) ActiveYear(c *gin.Context) {
	year, err := middleware.Store(c).Years().GetActive(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load active year", err, i18n.ErrNoActiveYear)
		return
	}
	c.JSON(http.StatusOK, year)
}

// CreateYear opens a year. An active year replaces the previous active one.
func (h *Handler) CreateYear(c *gin.Context) {
	var req dto.CreateYearRequest
	if !bindOr(c, &req, i18n.ErrYearFieldsRequired) {
		return
	}

	ctx := c.Request.Context()
	year := &database.Year{Year: req.Year, MonthlyAmount: req.MonthlyAmount, Active: req.Active}
	err := middleware.Store(c).Transaction(ctx, func(tx *database.Tx) error {
		if year.Active {
			if _, err := tx.Years().DeactivateAll(ctx, true); err != nil {
				return err
			}
		}
		return tx.Years().Create(ctx, year)
	})
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			i18n.RespondWithError(c, i18n.ErrYearExists)
			return
		}
		h.fail(c, "failed to create year", err, nil)
		return
	}
	c.JSON(http.StatusCreated, year)
}

// UpdateYear changes the monthly amount of a year
func (h *Handler) UpdateYear(c *gin.Context) {
	var req dto.UpdateYearRequest
	if !bindOr(c, &req, i18n.ErrMonthlyAmountRequired) {
		return
	}
	year, err := middleware.Store(c).Years().UpdateMonthlyAmount(c.Request.Context(), c.Param("id"), req.MonthlyAmount)
	if err != nil {
		h.fail(c, "failed to update year", err, i18n.ErrYearNotFound)
		return
	}
	c.JSON(http.StatusOK, year)
}

// ActivateYear makes a year the only active one
func (h *Handler) ActivateYear(c *gin.Context) {
	ctx := c.Request.Context()
	var year *database.Year
	err := middleware.Store(c).Transaction(ctx, func(tx *database.Tx) error {
		if _, err := tx.Years().DeactivateAll(ctx, true); err != nil {
			return err
		}
		var err error
		year, err = tx.Years().Activate(ctx, c.Param("id"))
		return err
	})
	if err != nil {
		h.fail(c, "failed to activate year", err, i18n.ErrYearNotFound)
		return
	}
	c.JSON(http.StatusOK, year)
}

// DeleteYear removes a year without payments
func (h *Handler) DeleteYear(c *gin.Context) {
	ctx := c.Request.Context()
	store := middleware.Store(c)
	id := c.Param("id")

	n, err := store.Payments().CountForYear(ctx, id)
	if err != nil {
		h.fail(c, "failed to count payments", err, nil)
		return
	}
	if n > 0 {
		i18n.RespondWithError(c, i18n.ErrYearHasPayments)
		return
	}
	if err := store.Years().Delete(ctx, id); err != nil {
		h.fail(c, "failed to delete year", err, i18n.ErrYearNotFound)
		return
	}
	i18n.RespondWithMessage(c, i18n.MsgYearDeleted, nil)
}
