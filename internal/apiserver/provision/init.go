package provision

import (
	"context"
	"errors"

	"github.com/amoylab/assocmanager/internal/apiserver/database"
	"github.com/amoylab/assocmanager/internal/auth/password"
	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/amoylab/assocmanager/pkg/version"
)

// Seed values of a fresh install
const (
	DefaultAdminEmail    = "admin@assocmanager.local"
	DefaultAdminPassword = "admin"

	PlatformName              = "AssocManager Platform"
	DefaultSuperAdminEmail    = "superadmin@platform.local"
	DefaultSuperAdminPassword = "superadmin"
	DefaultSuperAdminName     = "Super Administrateur"
)

// TenantInit reports what InitTenant created
type TenantInit struct {
	AdminCreated bool
	Config       *database.AssociationConfig
}

// InitTenant seeds the default admin when the tenant has no users, and the
// association configuration when absent
func InitTenant(ctx context.Context, store *database.TenantStore) (*TenantInit, error) {
	res := &TenantInit{}

	n, err := store.Users().Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		hash, err := password.Hash(DefaultAdminPassword)
		if err != nil {
			return nil, err
		}
		err = store.Users().Create(ctx, &database.User{
			Email:        DefaultAdminEmail,
			PasswordHash: hash,
			Role:         cnst.RoleAdmin,
			Active:       true,
		})
		if err != nil {
			return nil, err
		}
		res.AdminCreated = true
	}

	res.Config, err = store.Config().Get(ctx)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// PlatformInit reports what InitPlatform created
type PlatformInit struct {
	ConfigCreated      bool
	SuperAdminCreated  bool
	AssociationCreated bool
}

// InitPlatform seeds the platform metadata, the default super admin and the
// association pointing at the default tenant database
func InitPlatform(ctx context.Context, platform *database.PlatformStore, defaultDB string) (*PlatformInit, error) {
	res := &PlatformInit{}

	if _, err := platform.GetPlatformConfig(ctx); errors.Is(err, database.ErrNotFound) {
		if err := platform.CreatePlatformConfig(ctx, &database.PlatformConfig{Name: PlatformName, Version: version.Number()}); err != nil {
			return nil, err
		}
		res.ConfigCreated = true
	} else if err != nil {
		return nil, err
	}

	if _, err := platform.GetSuperAdminByEmail(ctx, DefaultSuperAdminEmail); errors.Is(err, database.ErrNotFound) {
		hash, err := password.Hash(DefaultSuperAdminPassword)
		if err != nil {
			return nil, err
		}
		err = platform.CreateSuperAdmin(ctx, &database.SuperAdmin{
			Email:        DefaultSuperAdminEmail,
			PasswordHash: hash,
			Name:         DefaultSuperAdminName,
			Active:       true,
		})
		if err != nil {
			return nil, err
		}
		res.SuperAdminCreated = true
	} else if err != nil {
		return nil, err
	}

	if _, err := platform.FirstAssociation(ctx); errors.Is(err, database.ErrNotFound) {
		err := platform.CreateAssociation(ctx, &database.Association{
			Name:       "Association V1 (Migration)",
			Type:       defaultAssociationType,
			Code:       cnst.DefaultAssociationCode,
			DBName:     defaultDB,
			Active:     true,
			AdminEmail: DefaultAdminEmail,
			AdminName:  "Administrateur V1",
		})
		if err != nil {
			return nil, err
		}
		res.AssociationCreated = true
	} else if err != nil {
		return nil, err
	}

	return res, nil
}
