package database

import (
	"context"

	"gorm.io/gorm"
)

// MemberRepository defines the queries on member profiles
type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByUserID(ctx context.Context, userID string) (*Member, error)
	// ListActiveWithPayments returns active members ordered by name, each with
	// its user and its payments for yearID
	ListActiveWithPayments(ctx context.Context, yearID string) ([]*Member, error)
	CountActive(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, userID, name, customFieldValue string) error
	SetActive(ctx context.Context, userID string, active bool) error
	Delete(ctx context.Context, id string) error
}

type memberRepo struct {
	db *gorm.DB
}

func (r *memberRepo) Create(ctx context.Context, m *Member) error {
	if m.UserID == "" || m.Name == "" {
		return ErrInvalidArgument
	}
	return translateError(r.db.WithContext(ctx).Omit("User", "Payments", "Exceptional").Create(m).Error)
}

func (r *memberRepo) GetByID(ctx context.Context, id string) (*Member, error) {
	var m Member
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

func (r *memberRepo) GetByUserID(ctx context.Context, userID string) (*Member, error) {
	var m Member
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

func (r *memberRepo) ListActiveWithPayments(ctx context.Context, yearID string) ([]*Member, error) {
	var members []*Member
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Where("year_id = ?", yearID).Order("month ASC, payment_date ASC")
		}).
		Where("active = ?", true).
		Order("name ASC").
		Find(&members).Error
	if err != nil {
		return nil, translateError(err)
	}
	return members, nil
}

func (r *memberRepo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Member{}).Where("active = ?", true).Count(&n).Error
	return n, translateError(err)
}

func (r *memberRepo) UpdateProfile(ctx context.Context, userID, name, customFieldValue string) error {
	if name == "" {
		return ErrInvalidArgument
	}
	return affected(r.db.WithContext(ctx).Model(&Member{}).Where("user_id = ?", userID).
		Updates(map[string]any{"name": name, "custom_field_value": customFieldValue}))
}

func (r *memberRepo) SetActive(ctx context.Context, userID string, active bool) error {
	return affected(r.db.WithContext(ctx).Model(&Member{}).Where("user_id = ?", userID).
		Update("active", active))
}

func (r *memberRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&Member{}))
}
