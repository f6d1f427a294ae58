package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amoylab/assocmanager/pkg/trace"
)

type (
	APIServerConfig struct {
		Server   ServerConfig   `yaml:"server"`
		Tenants  TenantsConfig  `yaml:"tenants"`
		Platform DatabaseConfig `yaml:"platform"`
		JWT      JWTConfig      `yaml:"jwt"`
		Logger   LoggerConfig   `yaml:"logger"`
		I18n     I18nConfig     `yaml:"i18n"`
		Metrics  MetricsConfig  `yaml:"metrics"`
		CORS     CORSConfig     `yaml:"cors"`
		Tracing  trace.Config   `yaml:"tracing"`
	}

	ServerConfig struct {
		Port int    `yaml:"port"`
		Mode string `yaml:"mode"` // gin mode: debug, release, test
		PID  string `yaml:"pid"`  // optional PID file written while serving
	}

	// TenantsConfig locates the per-association SQLite files
	TenantsConfig struct {
		Dir       string `yaml:"dir"`        // directory holding every tenant database file
		DefaultDB string `yaml:"default_db"` // file opened at boot, used by tokens without dbName
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		Path string `yaml:"path"` // Optional directory of extra TOML translation files
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // sqlite, postgres, mysql
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	JWTConfig struct {
		SecretKey        string        `yaml:"secret_key"`
		TenantDuration   time.Duration `yaml:"tenant_duration"`
		PlatformDuration time.Duration `yaml:"platform_duration"`
	}

	CORSConfig struct {
		AllowOrigins []string `yaml:"allow_origins"`
	}
)

// SetDefaults fills zero values with the production defaults
func (c *APIServerConfig) SetDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8001
	}
	if c.Tenants.Dir == "" {
		c.Tenants.Dir = "data"
	}
	if c.Tenants.DefaultDB == "" {
		c.Tenants.DefaultDB = "assocmanager.db"
	}
	if c.Platform.Type == "" {
		c.Platform.Type = "sqlite"
	}
	if c.Platform.Type == "sqlite" && c.Platform.DBName == "" {
		c.Platform.DBName = filepath.Join(c.Tenants.Dir, "platform.db")
	}
	if c.JWT.TenantDuration <= 0 {
		c.JWT.TenantDuration = 30 * 24 * time.Hour
	}
	if c.JWT.PlatformDuration <= 0 {
		c.JWT.PlatformDuration = 24 * time.Hour
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "assocmanager"
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"*"}
	}
}

// DefaultDBPath returns the absolute location of the boot tenant database
func (c *TenantsConfig) DefaultDBPath() string {
	return filepath.Join(c.Dir, c.DefaultDB)
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		// Ensure the directory for the SQLite database exists.
		// If the directory cannot be created, it's a fatal error.
		if err := os.MkdirAll(filepath.Dir(c.DBName), 0755); err != nil {
			panic(fmt.Errorf("failed to create directory for sqlite database: %w", err))
		}
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
