package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/apiserver/transfer"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const importStatusCreated = "created"

type importPreview struct {
	Total          int                   `json:"total"`
	Valid          int                   `json:"valid"`
	DuplicateCount int                   `json:"duplicateCount"`
	ErrorCount     int                   `json:"errorCount"`
	Preview        []transfer.Entry      `json:"preview"`
	Duplicates     []transfer.Duplicate  `json:"duplicates"`
	Errors         []dto.ImportLineError `json:"errors"`
}

// PreviewImport parses the import text without writing anything.
// An exported members CSV is accepted as well.
func (h *Handler) PreviewImport(c *gin.Context) {
	var req dto.ImportPreviewRequest
	if !bind(c, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		i18n.RespondWithError(c, i18n.ErrImportContentRequired)
		return
	}
	if strings.HasPrefix(strings.TrimPrefix(content, "\ufeff"), transfer.MembersHeader[0]+",") {
		converted, err := transfer.CSVToImport(strings.NewReader(content))
		if err != nil {
			i18n.RespondWithError(c, i18n.ErrImportLineFormat)
			return
		}
		content = converted
	}

	users := middleware.Store(c).Users()
	lookup := func(ctx context.Context, phone string) (string, bool, error) {
		u, err := users.FindByPhone(ctx, phone)
		if errors.Is(err, database.ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		if u.Member != nil {
			return u.Member.Name, true, nil
		}
		return u.Email, true, nil
	}

	p, err := transfer.ParsePreview(c.Request.Context(), content, lookup)
	if err != nil {
		h.fail(c, "failed to preview import", err, nil)
		return
	}

	lineErrors := make([]dto.ImportLineError, 0, len(p.Errors))
	for _, le := range p.Errors {
		lineErrors = append(lineErrors, dto.ImportLineError{
			Line:    le.Line,
			Content: le.Content,
			Error:   le.Err.TranslateByContext(c),
		})
	}
	c.JSON(http.StatusOK, importPreview{
		Total:          p.Total,
		Valid:          len(p.Entries),
		DuplicateCount: len(p.Duplicates),
		ErrorCount:     len(p.Errors),
		Preview:        p.Entries,
		Duplicates:     p.Duplicates,
		Errors:         lineErrors,
	})
}

// ImportMembers creates the confirmed members, each in its own transaction.
// Failures are reported per member and do not stop the run.
func (h *Handler) ImportMembers(c *gin.Context) {
	var req dto.ImportMembersRequest
	if !bindOr(c, &req, i18n.ErrImportMembersRequired) {
		return
	}

	ctx := c.Request.Context()
	store := middleware.Store(c)
	result := dto.ImportResult{Results: []dto.ImportedMember{}, Errors: []dto.ImportFailure{}}
	for _, m := range req.Members {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			result.Failed++
			result.Errors = append(result.Errors, dto.ImportFailure{
				Name:  m.Name,
				Error: i18n.ErrImportNameRequired.TranslateByContext(c),
			})
			continue
		}
		phone := transfer.CleanPhone(m.Phone)
		if transfer.HasSeparator(name, m.CustomFieldValue, phone) {
			result.Failed++
			result.Errors = append(result.Errors, dto.ImportFailure{
				Name:  name,
				Error: i18n.ErrMemberSeparator.TranslateByContext(c),
			})
			continue
		}
		user, plain, err := createMember(ctx, store, newMember{
			Name:             name,
			CustomFieldValue: strings.TrimSpace(m.CustomFieldValue),
			Email:            transfer.ImportEmail(phone),
			Phone:            phone,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, dto.ImportFailure{Name: name, Error: h.importError(c, err)})
			continue
		}
		result.Success++
		result.Results = append(result.Results, dto.ImportedMember{
			Name:             name,
			CustomFieldValue: user.Member.CustomFieldValue,
			Phone:            user.Phone,
			Email:            user.Email,
			Password:         plain,
			Token:            database.StringValue(user.Token),
			Status:           importStatusCreated,
		})
	}
	h.logger.Info("members imported",
		zap.String("tenant", middleware.TenantID(c)),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed))
	c.JSON(http.StatusOK, result)
}

func (h *Handler) importError(c *gin.Context, err error) string {
	if col := database.ConflictColumn(err); col != "" {
		if col == "phone" {
			return i18n.ErrPhoneTaken.TranslateByContext(c)
		}
		return i18n.ErrImportDuplicateEmail.TranslateByContext(c)
	}
	h.logger.Error("failed to import member", zap.String("tenant", middleware.TenantID(c)), zap.Error(err))
	return i18n.ErrInternal.TranslateByContext(c)
}
