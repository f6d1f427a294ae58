package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/apiserver/handler"
	"github.com/amoylab/assocmanager/internal/apiserver/provision"
	"github.com/amoylab/assocmanager/internal/auth/jwt"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/internal/common/config"
	"github.com/amoylab/assocmanager/internal/i18n"
	"github.com/amoylab/assocmanager/pkg/helper"
	"github.com/amoylab/assocmanager/pkg/logger"
	"github.com/amoylab/assocmanager/pkg/metrics"
	"github.com/amoylab/assocmanager/pkg/trace"
	"github.com/amoylab/assocmanager/pkg/version"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	initDBCmd = &cobra.Command{
		Use:   "init-db",
		Short: "Create the default tenant database and seed its administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB(cmd.Context())
		},
	}

	initPlatformCmd = &cobra.Command{
		Use:   "init-platform",
		Short: "Create the platform database, the super admin and the default association",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitPlatform(cmd.Context())
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "AssocManager API Server",
		Long:  `AssocManager API Server serves membership and dues management for every association of the platform`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "apiserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd, initDBCmd, initPlatformCmd)
}

func loadConfig() (*config.APIServerConfig, string, error) {
	return config.LoadConfig[config.APIServerConfig](configPath)
}

func initLogger(cfg *config.APIServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return lg
}

func initI18n(cfg *config.I18nConfig, lg *zap.Logger) {
	if err := i18n.InitTranslator(cfg.Path); err != nil {
		lg.Warn("failed to load extra translations, using embedded ones",
			zap.String("path", cfg.Path), zap.Error(err))
	}
}

// openDefaultTenant opens the boot tenant database, creating it when missing
func openDefaultTenant(cfg *config.TenantsConfig) (*database.TenantStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tenants directory: %w", err)
	}
	return database.CreateTenant(cfg.DefaultDBPath())
}

func initRegistry(cfg *config.TenantsConfig, m *metrics.Metrics, lg *zap.Logger) *database.Registry {
	def, err := openDefaultTenant(cfg)
	if err != nil {
		lg.Fatal("failed to open default tenant database", zap.String("path", cfg.DefaultDBPath()), zap.Error(err))
	}
	return database.NewRegistry(cfg.Dir, cfg.DefaultDB, def, database.WithOpenHook(m.SetTenantsOpen))
}

func initPlatform(cfg *config.DatabaseConfig, lg *zap.Logger) *database.PlatformStore {
	platform, err := database.NewPlatformStore(cfg)
	if err != nil {
		lg.Fatal("failed to open platform database", zap.String("type", cfg.Type), zap.Error(err))
	}
	return platform
}

func initMetrics(cfg *config.MetricsConfig) *metrics.Metrics {
	if !cfg.Enabled {
		return nil
	}
	return metrics.New(*cfg)
}

func initRouter(cfg *config.APIServerConfig, platform *database.PlatformStore, registry *database.Registry,
	m *metrics.Metrics, lg *zap.Logger) (*gin.Engine, error) {
	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey:        cfg.JWT.SecretKey,
		TenantDuration:   cfg.JWT.TenantDuration,
		PlatformDuration: cfg.JWT.PlatformDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	rc := handler.RouterConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		MetricsPath:  cfg.Metrics.Path,
	}
	if cfg.Tracing.Enabled {
		rc.TraceService = cfg.Tracing.Service()
	}
	h := handler.New(platform, registry, jwtService, provision.New(platform, registry, lg), m, lg)
	return handler.NewRouter(h, rc), nil
}

// initTracing returns a no-op shutdown when tracing is disabled
func initTracing(cfg *trace.Config, lg *zap.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop
	}
	shutdown, err := trace.InitTracing(context.Background(), cfg, lg)
	if err != nil {
		lg.Warn("tracing disabled", zap.Error(err))
		return noop
	}
	return shutdown
}

func run() {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	lg := initLogger(cfg)
	defer lg.Sync()
	lg.Info("Starting apiserver", zap.String("version", version.Get()), zap.String("config", cfgPath))

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	initI18n(&cfg.I18n, lg)
	shutdownTracing := initTracing(&cfg.Tracing, lg)

	m := initMetrics(&cfg.Metrics)
	platform := initPlatform(&cfg.Platform, lg)
	defer platform.Close()
	registry := initRegistry(&cfg.Tenants, m, lg)
	defer registry.Close()

	router, err := initRouter(cfg, platform, registry, m, lg)
	if err != nil {
		lg.Fatal("failed to initialize router", zap.Error(err))
	}

	if cfg.Server.PID != "" {
		pidPath := helper.GetPIDPath(cfg.Server.PID)
		if err := helper.WritePID(pidPath); err != nil {
			lg.Warn("failed to write PID file", zap.String("path", pidPath), zap.Error(err))
		} else {
			defer os.Remove(pidPath)
		}
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: router,
	}
	go func() {
		lg.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("failed to shutdown server", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		lg.Warn("failed to flush traces", zap.Error(err))
	}
	lg.Info("Server stopped", zap.Int("open_tenants", registry.Len()))
}

func runInitDB(ctx context.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openDefaultTenant(&cfg.Tenants)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := provision.InitTenant(ctx, store)
	if err != nil {
		return err
	}
	fmt.Printf("Database ready: %s\n", cfg.Tenants.DefaultDBPath())
	if res.AdminCreated {
		fmt.Printf("Default administrator: %s / %s\n", provision.DefaultAdminEmail, provision.DefaultAdminPassword)
	}
	fmt.Printf("Association: %s (%s)\n", res.Config.Name, res.Config.MemberFieldLabel)
	return nil
}

func runInitPlatform(ctx context.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	platform, err := database.NewPlatformStore(&cfg.Platform)
	if err != nil {
		return err
	}
	defer platform.Close()

	res, err := provision.InitPlatform(ctx, platform, cfg.Tenants.DefaultDB)
	if err != nil {
		return err
	}
	fmt.Println("Platform database ready")
	if res.SuperAdminCreated {
		fmt.Printf("Super admin: %s / %s\n", provision.DefaultSuperAdminEmail, provision.DefaultSuperAdminPassword)
	}
	if res.AssociationCreated {
		fmt.Printf("Default association %s -> %s\n", cnst.DefaultAssociationCode, cfg.Tenants.DefaultDB)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
