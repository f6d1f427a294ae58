// Package provision creates and removes tenant databases for the platform.
package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/auth/password"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/pkg/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	// ErrMissingFields is returned when a provisioning request lacks a required field
	ErrMissingFields = errors.New("name, code, admin email and admin password are required")
	// ErrDefaultAssociation is returned when removing the migrated default association
	ErrDefaultAssociation = errors.New("the default association cannot be removed")
)

const (
	defaultAssociationType = "association"
	defaultAdminName       = "Administrateur"
)

// Request describes a new tenant
type Request struct {
	Name          string
	Type          string
	Code          string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Provisioner creates tenant database files and registers them on the platform
type Provisioner struct {
	platform *database.PlatformStore
	registry *database.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a Provisioner
func New(platform *database.PlatformStore, registry *database.Registry, logger *zap.Logger) *Provisioner {
	return &Provisioner{
		platform: platform,
		registry: registry,
		logger:   logger.Named("provision"),
		now:      time.Now,
	}
}

// Slug lowercases code and replaces every character outside [a-z0-9] with '_'
func Slug(code string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(code) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// DBName builds the tenant filename assoc_<slug>_<unix millis>.db
func DBName(code string, at time.Time) string {
	return fmt.Sprintf("assoc_%s_%d.db", Slug(code), at.UnixMilli())
}

// Provision registers the association then creates and seeds its database.
// When the database cannot be built the file and the registry row are removed.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*database.Association, error) {
	scope := trace.Tracer(cnst.TraceProvision).Start(ctx, cnst.SpanProvisionAssociation).
		WithAttrs(attribute.String(cnst.AttrAssociationCode, req.Code))
	defer scope.End()

	a, err := p.provision(scope.Ctx, req)
	scope.Fail(err)
	if a != nil {
		scope.WithAttrs(attribute.String(cnst.AttrTenantDB, a.DBName))
	}
	return a, err
}

func (p *Provisioner) provision(ctx context.Context, req Request) (*database.Association, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	if req.Name == "" || req.Code == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		return nil, ErrMissingFields
	}
	if req.Type == "" {
		req.Type = defaultAssociationType
	}
	if req.AdminName == "" {
		req.AdminName = defaultAdminName
	}

	a := &database.Association{
		Name:       req.Name,
		Type:       req.Type,
		Code:       req.Code,
		DBName:     DBName(req.Code, p.now()),
		Active:     true,
		AdminEmail: req.AdminEmail,
		AdminName:  req.AdminName,
	}
	if err := p.platform.CreateAssociation(ctx, a); err != nil {
		return nil, err
	}

	path := filepath.Join(p.registry.Dir(), a.DBName)
	if err := p.createTenant(ctx, path, req); err != nil {
		p.logger.Error("failed to create tenant database",
			zap.String("code", a.Code), zap.String("db", a.DBName), zap.Error(err))
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			p.logger.Warn("failed to remove tenant file", zap.String("db", a.DBName), zap.Error(rmErr))
		}
		if delErr := p.platform.DeleteAssociation(ctx, a.ID); delErr != nil {
			p.logger.Warn("failed to remove association row", zap.String("id", a.ID), zap.Error(delErr))
		}
		return nil, err
	}

	p.logger.Info("association provisioned", zap.String("code", a.Code), zap.String("db", a.DBName))
	return a, nil
}

func (p *Provisioner) createTenant(ctx context.Context, path string, req Request) error {
	store, err := database.CreateTenant(path)
	if err != nil {
		return err
	}
	defer store.Close()

	hash, err := password.Hash(req.AdminPassword)
	if err != nil {
		return err
	}

	return store.RunSequence(ctx,
		func(tx *database.Tx) error {
			return tx.Users().Create(ctx, &database.User{
				Email:        req.AdminEmail,
				PasswordHash: hash,
				Role:         cnst.RoleAdmin,
				Active:       true,
			})
		},
		func(tx *database.Tx) error {
			_, err := tx.Config().Save(ctx, req.Name, req.Type, database.DefaultMemberFieldLabel)
			return err
		},
	)
}

// Remove deletes an association entry and, when no handle is open on it, its file.
// Open handles stay cached until the process exits.
func (p *Provisioner) Remove(ctx context.Context, a *database.Association) error {
	scope := trace.Tracer(cnst.TraceProvision).Start(ctx, cnst.SpanRemoveAssociation).
		WithAttrs(
			attribute.String(cnst.AttrAssociationCode, a.Code),
			attribute.String(cnst.AttrTenantDB, a.DBName),
		)
	defer scope.End()

	err := p.remove(scope.Ctx, a)
	scope.Fail(err)
	return err
}

func (p *Provisioner) remove(ctx context.Context, a *database.Association) error {
	if a.Code == cnst.DefaultAssociationCode {
		return ErrDefaultAssociation
	}

	path := filepath.Join(p.registry.Dir(), a.DBName)
	switch {
	case database.ValidateDBName(a.DBName) != nil:
	case p.registry.Cached(a.DBName):
		p.logger.Warn("tenant file kept while its handle is open",
			zap.String("code", a.Code), zap.String("path", path))
	default:
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove tenant file: %w", err)
		}
	}

	if err := p.platform.DeleteAssociation(ctx, a.ID); err != nil {
		return err
	}
	p.logger.Info("association removed", zap.String("code", a.Code), zap.String("db", a.DBName))
	return nil
}
