package database

import (
	"context"

	"gorm.io/gorm"
)

// AssociationChanges lists the fields of an association to update; nil fields are kept
type AssociationChanges struct {
	Name   *string
	Type   *string
	Active *bool
}

// PlatformStore holds the tenants registry and the platform operators
type PlatformStore struct {
	db *gorm.DB
}

// Close closes the database connection
func (s *PlatformStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CreateAssociation inserts a tenant entry; a taken code yields ErrConflict
func (s *PlatformStore) CreateAssociation(ctx context.Context, a *Association) error {
	if a.Code == "" || a.Name == "" || a.DBName == "" {
		return ErrInvalidArgument
	}
	return translateError(s.db.WithContext(ctx).Create(a).Error)
}

// GetAssociation gets an association by ID
func (s *PlatformStore) GetAssociation(ctx context.Context, id string) (*Association, error) {
	var a Association
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

// GetAssociationByCode gets an association by its human-chosen code
func (s *PlatformStore) GetAssociationByCode(ctx context.Context, code string) (*Association, error) {
	var a Association
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&a).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

// FirstAssociation returns any association, used to detect an empty platform
func (s *PlatformStore) FirstAssociation(ctx context.Context) (*Association, error) {
	var a Association
	if err := s.db.WithContext(ctx).Order("created_at ASC").First(&a).Error; err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

// ListAssociations returns every association, newest first
func (s *PlatformStore) ListAssociations(ctx context.Context) ([]*Association, error) {
	var list []*Association
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

// UpdateAssociation applies changes and returns the updated row
func (s *PlatformStore) UpdateAssociation(ctx context.Context, id string, changes AssociationChanges) (*Association, error) {
	a, err := s.GetAssociation(ctx, id)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if changes.Name != nil && *changes.Name != "" {
		values["name"] = *changes.Name
	}
	if changes.Type != nil && *changes.Type != "" {
		values["type"] = *changes.Type
	}
	if changes.Active != nil {
		values["active"] = *changes.Active
	}
	if len(values) == 0 {
		return a, nil
	}
	if err := s.db.WithContext(ctx).Model(a).Updates(values).Error; err != nil {
		return nil, translateError(err)
	}
	return s.GetAssociation(ctx, id)
}

// DeleteAssociation removes an association entry
func (s *PlatformStore) DeleteAssociation(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Where("id = ?", id).Delete(&Association{}))
}

// CountAssociations counts associations, optionally by active flag
func (s *PlatformStore) CountAssociations(ctx context.Context, active *bool) (int64, error) {
	q := s.db.WithContext(ctx).Model(&Association{})
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	var n int64
	err := q.Count(&n).Error
	return n, translateError(err)
}

// CreateSuperAdmin inserts a platform operator
func (s *PlatformStore) CreateSuperAdmin(ctx context.Context, sa *SuperAdmin) error {
	if sa.Email == "" || sa.PasswordHash == "" {
		return ErrInvalidArgument
	}
	return translateError(s.db.WithContext(ctx).Create(sa).Error)
}

// GetSuperAdmin gets a platform operator by ID
func (s *PlatformStore) GetSuperAdmin(ctx context.Context, id string) (*SuperAdmin, error) {
	var sa SuperAdmin
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sa).Error; err != nil {
		return nil, translateError(err)
	}
	return &sa, nil
}

// GetSuperAdminByEmail gets a platform operator by email
func (s *PlatformStore) GetSuperAdminByEmail(ctx context.Context, email string) (*SuperAdmin, error) {
	var sa SuperAdmin
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&sa).Error; err != nil {
		return nil, translateError(err)
	}
	return &sa, nil
}

// GetPlatformConfig returns the platform metadata row
func (s *PlatformStore) GetPlatformConfig(ctx context.Context) (*PlatformConfig, error) {
	var cfg PlatformConfig
	if err := s.db.WithContext(ctx).Order("created_at ASC").First(&cfg).Error; err != nil {
		return nil, translateError(err)
	}
	return &cfg, nil
}

// CreatePlatformConfig inserts the platform metadata row
func (s *PlatformStore) CreatePlatformConfig(ctx context.Context, cfg *PlatformConfig) error {
	return translateError(s.db.WithContext(ctx).Create(cfg).Error)
}
