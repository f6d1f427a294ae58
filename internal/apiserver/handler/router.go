package handler

import (
	"net/http"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/middleware"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/amoylab/assocmanager/pkg/trace"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds the HTTP surface options
type RouterConfig struct {
	AllowOrigins []string
	// MetricsPath is served only when the handler carries metrics
	MetricsPath string
	// TraceService enables a server span per request when set
	TraceService string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Lang"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// NewRouter registers every route of the API on a new engine
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TraceService != "" {
		r.Use(trace.Middleware(cfg.TraceService))
	}
	r.Use(cors.New(corsConfig(cfg.AllowOrigins)))
	r.Use(i18n.Middleware())
	r.Use(middleware.RequestLogger(h.logger))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware())
		r.GET(cfg.MetricsPath, gin.WrapH(h.metrics.Handler()))
	}

	tenant := middleware.TenantResolver(h.jwtService, h.platform, h.registry, h.logger)
	admin := middleware.RequireAdmin()

	api := r.Group("/api")
	api.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "AssocManager API", "status": "OK"})
	})

	auth := api.Group("/auth")
	auth.POST("/login", h.Login)
	auth.GET("/me", tenant, h.Me)

	cfgGroup := api.Group("/config", tenant)
	cfgGroup.GET("", h.GetConfig)
	cfgGroup.POST("", admin, h.SaveConfig)

	admins := api.Group("/admin", tenant, admin)
	admins.GET("/list", h.ListAdmins)
	admins.POST("/create", h.CreateAdmin)
	admins.PUT("/:id/deactivate", h.DeactivateAdmin)
	admins.PUT("/:id/activate", h.ActivateAdmin)
	admins.POST("/:id/reset-password", h.ResetAdminPassword)

	members := api.Group("/members", tenant)
	members.GET("", h.ListMembers)
	members.POST("", admin, h.CreateMember)
	members.GET("/:id", h.GetMember)
	members.PUT("/:id", admin, h.UpdateMember)
	members.PUT("/:id/deactivate", admin, h.DeactivateMember)
	members.PUT("/:id/activate", admin, h.ActivateMember)
	members.POST("/:id/reset-password", admin, h.ResetMemberPassword)
	members.POST("/:id/regenerate-token", admin, h.RegenerateMemberToken)
	members.DELETE("/:id", admin, h.DeleteMember)

	years := api.Group("/years", tenant)
	years.GET("", h.ListYears)
	years.GET("/active", h.ActiveYear)
	years.POST("", admin, h.CreateYear)
	years.PUT("/:id", admin, h.UpdateYear)
	years.PUT("/:id/activate", admin, h.ActivateYear)
	years.DELETE("/:id", admin, h.DeleteYear)

	payments := api.Group("/payments", tenant)
	payments.GET("/year/:yearId", h.YearPayments)
	payments.GET("/member/:memberId/year/:yearId", h.MemberYearPayments)
	payments.GET("/stats/year/:yearId", h.YearStatistics)
	payments.POST("", admin, h.CreatePayment)
	payments.PUT("/upsert", admin, h.UpsertPayment)
	payments.PUT("/:id", admin, h.UpdatePayment)
	payments.DELETE("/:id", admin, h.DeletePayment)

	exceptional := api.Group("/exceptional", tenant)
	exceptional.GET("", h.ListContributions)
	exceptional.GET("/:id", h.GetContribution)
	exceptional.POST("", admin, h.CreateContribution)
	exceptional.PUT("/:id", admin, h.UpdateContribution)
	exceptional.DELETE("/:id", admin, h.DeleteContribution)
	exceptional.POST("/:id/payments", admin, h.AddContributionPayment)
	exceptional.PUT("/payments/:paymentId", admin, h.UpdateContributionPayment)
	exceptional.DELETE("/payments/:paymentId", admin, h.DeleteContributionPayment)

	imports := api.Group("/import", tenant, admin)
	imports.POST("/members/preview", h.PreviewImport)
	imports.POST("/members", h.ImportMembers)

	exports := api.Group("/export", tenant, admin)
	exports.GET("/members", h.ExportMembers)
	exports.GET("/statistics/:yearId", h.ExportStatistics)
	exports.GET("/statistics/:yearId/xlsx", h.ExportStatisticsXLSX)

	platform := api.Group("/platform")
	platform.POST("/login", h.PlatformLogin)
	super := platform.Group("", middleware.PlatformResolver(h.jwtService, h.platform, h.logger))
	super.GET("/me", h.PlatformMe)
	super.GET("/stats", h.PlatformStats)
	super.GET("/associations", h.ListAssociations)
	super.POST("/associations", h.CreateAssociation)
	super.GET("/associations/:id", h.GetAssociation)
	super.PUT("/associations/:id", h.UpdateAssociation)
	super.PUT("/associations/:id/toggle", h.ToggleAssociation)
	super.DELETE("/associations/:id", h.DeleteAssociation)

	return r
}
