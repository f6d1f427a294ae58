package handler

import (
	"net/http"
	"strings"

	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/common/dto"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/gin-gonic/gin"
)

// GetConfig returns the association settings, creating the defaults on first read
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := middleware.Store(c).Config().Get(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to load config", err, nil)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// SaveConfig creates or updates the association settings
func (h *Handler) SaveConfig(c *gin.Context) {
	var req dto.ConfigRequest
	if !bind(c, &req) {
		return
	}
	name, label := strings.TrimSpace(req.Name), strings.TrimSpace(req.MemberFieldLabel)
	if name == "" || label == "" {
		i18n.RespondWithError(c, i18n.ErrConfigRequired)
		return
	}

	cfg, err := middleware.Store(c).Config().Save(c.Request.Context(), name, strings.TrimSpace(req.Type), label)
	if err != nil {
		h.fail(c, "failed to save config", err, nil)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
