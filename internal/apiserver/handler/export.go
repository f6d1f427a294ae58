package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/apiserver/transfer"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// ExportMembers downloads every member as CSV, oldest first
func (h *Handler) ExportMembers(c *gin.Context) {
	users, err := middleware.Store(c).Users().ListByRole(c.Request.Context(), cnst.RoleMember, database.UserFilter{Ascending: true})
	if err != nil {
		h.fail(c, "failed to list members", err, nil)
		return
	}
	var buf bytes.Buffer
	if err := transfer.WriteMembersCSV(&buf, users); err != nil {
		h.fail(c, "failed to write members csv", err, nil)
		return
	}
	attachment(c, "membres.csv", contentTypeCSV, buf.Bytes())
}

func (h *Handler) statRows(c *gin.Context) (*database.Year, []transfer.StatRow, bool) {
	ctx := c.Request.Context()
	store := middleware.Store(c)
	year, err := store.Years().GetByID(ctx, c.Param("yearId"))
	if err != nil {
		h.fail(c, "failed to load year", err, i18n.ErrYearNotFound)
		return nil, nil, false
	}
	members, err := store.Members().ListActiveWithPayments(ctx, year.ID)
	if err != nil {
		h.fail(c, "failed to load payments", err, nil)
		return nil, nil, false
	}
	return year, transfer.BuildStatRows(members, year), true
}

// ExportStatistics downloads the year statistics as CSV
func (h *Handler) ExportStatistics(c *gin.Context) {
	year, rows, ok := h.statRows(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := transfer.WriteStatisticsCSV(&buf, rows); err != nil {
		h.fail(c, "failed to write statistics csv", err, nil)
		return
	}
	attachment(c, fmt.Sprintf("statistiques_%d.csv", year.Year), contentTypeCSV, buf.Bytes())
}

// ExportStatisticsXLSX downloads the year statistics as a workbook
func (h *Handler) ExportStatisticsXLSX(c *gin.Context) {
	year, rows, ok := h.statRows(c)
	if !ok {
		return
	}
	data, err := transfer.StatisticsXLSX(year.Year, rows)
	if err != nil {
		h.fail(c, "failed to build statistics workbook", err, nil)
		return
	}
	attachment(c, fmt.Sprintf("statistiques_%d.xlsx", year.Year), contentTypeXLSX, data)
}
