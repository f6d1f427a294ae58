// Package handler serves the association membership and dues API
package handler

import (
	"errors"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/provision"
	"github.com/amoylab/assocmanager/internal/auth/jwt"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/amoylab/assocmanager/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler holds the dependencies shared by every route
type Handler struct {
	platform    *database.PlatformStore
	registry    *database.Registry
	jwtService  *jwt.Service
	provisioner *provision.Provisioner
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// New creates a Handler. m may be nil when metrics are disabled.
func New(platform *database.PlatformStore, registry *database.Registry, jwtService *jwt.Service,
	provisioner *provision.Provisioner, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		platform:    platform,
		registry:    registry,
		jwtService:  jwtService,
		provisioner: provisioner,
		metrics:     m,
		logger:      logger.Named("handler"),
	}
}

// bind decodes the JSON body into req, answering 400 on malformed input
func bind(c *gin.Context, req any) bool {
	return bindOr(c, req, i18n.ErrInvalidRequest)
}

// bindOr is bind answering invalid when the body decodes but breaks a
// binding rule of req
func bindOr(c *gin.Context, req any, invalid *i18n.ErrorWithCode) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		i18n.RespondWithError(c, invalid)
	} else {
		i18n.RespondWithError(c, i18n.ErrInvalidRequest)
	}
	return false
}

// fail answers err. Coded errors are sent as is, ErrNotFound becomes notFound
// when given, values rejected by storage answer 400, and anything else is
// logged and answered 500.
func (h *Handler) fail(c *gin.Context, op string, err error, notFound *i18n.ErrorWithCode) {
	if ec := i18n.AsErrorWithCode(err); ec != nil {
		i18n.RespondWithError(c, ec)
		return
	}
	if notFound != nil && errors.Is(err, database.ErrNotFound) {
		i18n.RespondWithError(c, notFound)
		return
	}
	if errors.Is(err, database.ErrInvalidArgument) {
		h.logger.Debug(op, zap.Error(err), zap.String("path", c.FullPath()))
		i18n.RespondWithError(c, i18n.ErrInvalidRequest)
		return
	}
	h.logger.Error(op, zap.Error(err), zap.String("path", c.FullPath()))
	i18n.RespondWithError(c, i18n.ErrInternal)
}

// conflictError maps a unique constraint violation on users to its message
func conflictError(err error) *i18n.ErrorWithCode {
	if database.ConflictColumn(err) == "phone" {
		return i18n.ErrPhoneTaken
	}
	return i18n.ErrEmailTaken
}
