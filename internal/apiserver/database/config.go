package database

import (
	"context"

	"gorm.io/gorm"
)

// Values of the configuration created on first read
const (
	DefaultConfigName       = "Mon Association"
	DefaultConfigType       = "Association"
	DefaultMemberFieldLabel = "Villa"
)

// ConfigRepository reads and writes the association configuration singleton
type ConfigRepository interface {
	// Get returns the configuration, creating the default one if absent
	Get(ctx context.Context) (*AssociationConfig, error)
	Save(ctx context.Context, name, typ, memberFieldLabel string) (*AssociationConfig, error)
}

type configRepo struct {
	db *gorm.DB
}

func (r *configRepo) find(ctx context.Context) (*AssociationConfig, error) {
	var cfg AssociationConfig
	if err := r.db.WithContext(ctx).Order("created_at ASC").First(&cfg).Error; err != nil {
		return nil, translateError(err)
	}
	return &cfg, nil
}

func (r *configRepo) Get(ctx context.Context) (*AssociationConfig, error) {
	cfg, err := r.find(ctx)
	if err != ErrNotFound {
		return cfg, err
	}
	cfg = &AssociationConfig{
		Name:             DefaultConfigName,
		Type:             DefaultConfigType,
		MemberFieldLabel: DefaultMemberFieldLabel,
	}
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, translateError(err)
	}
	return cfg, nil
}

func (r *configRepo) Save(ctx context.Context, name, typ, memberFieldLabel string) (*AssociationConfig, error) {
	if name == "" || memberFieldLabel == "" {
		return nil, ErrInvalidArgument
	}
	cfg, err := r.find(ctx)
	switch {
	case err == ErrNotFound:
		cfg = &AssociationConfig{Name: name, Type: typ, MemberFieldLabel: memberFieldLabel}
		if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
			return nil, translateError(err)
		}
		return cfg, nil
	case err != nil:
		return nil, err
	}

	cfg.Name, cfg.Type, cfg.MemberFieldLabel = name, typ, memberFieldLabel
	if err := r.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, translateError(err)
	}
	return cfg, nil
}
