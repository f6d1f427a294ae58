package database

import (
	"context"
	"strings"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"gorm.io/gorm"
)

// UserFilter narrows ListByRole
type UserFilter struct {
	// Search matches the member name or custom field, case-insensitively
	Search    string
	Active    *bool
	Ascending bool
}

// UserRepository defines the queries on users
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// GetByID loads a user with its member profile
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByIDAndRole loads a user of the given role with its member profile
	GetByIDAndRole(ctx context.Context, id string, role cnst.Role) (*User, error)
	// FindActiveByIdentifier matches an active user by email or phone
	FindActiveByIdentifier(ctx context.Context, identifier string) (*User, error)
	FindActiveByAccessToken(ctx context.Context, token string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	ListByRole(ctx context.Context, role cnst.Role, filter UserFilter) ([]*User, error)
	Count(ctx context.Context) (int64, error)
	UpdateContact(ctx context.Context, id, email string, phone *string) error
	SetActive(ctx context.Context, id string, role cnst.Role, active bool) error
	SetPasswordHash(ctx context.Context, id string, role cnst.Role, hash string) error
	SetAccessToken(ctx context.Context, id string, role cnst.Role, token string) error
	Delete(ctx context.Context, id string) error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.Email == "" || !u.Role.Valid() {
		return ErrInvalidArgument
	}
	return translateError(r.db.WithContext(ctx).Omit("Member").Create(u).Error)
}

func (r *userRepo) first(ctx context.Context, query any, args ...any) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Preload("Member").Where(query, args...).First(&u).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepo) GetByIDAndRole(ctx context.Context, id string, role cnst.Role) (*User, error) {
	return r.first(ctx, "id = ? AND role = ?", id, role)
}

func (r *userRepo) FindActiveByIdentifier(ctx context.Context, identifier string) (*User, error) {
	if identifier == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "(email = ? OR phone = ?) AND active = ?", identifier, identifier, true)
}

func (r *userRepo) FindActiveByAccessToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "token = ? AND active = ?", token, true)
}

func (r *userRepo) FindByPhone(ctx context.Context, phone string) (*User, error) {
	if phone == "" {
		return nil, ErrNotFound
	}
	return r.first(ctx, "phone = ?", phone)
}

func (r *userRepo) ListByRole(ctx context.Context, role cnst.Role, filter UserFilter) ([]*User, error) {
	q := r.db.WithContext(ctx).Preload("Member").Where("role = ?", role)
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		sub := r.db.Model(&Member{}).Select("user_id").
			Where("LOWER(name) LIKE ? OR LOWER(custom_field_value) LIKE ?", pattern, pattern)
		q = q.Where("id IN (?)", sub)
	}
	if filter.Ascending {
		q = q.Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}

	var users []*User
	if err := q.Find(&users).Error; err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&User{}).Count(&n).Error
	return n, translateError(err)
}

func (r *userRepo) UpdateContact(ctx context.Context, id, email string, phone *string) error {
	if email == "" {
		return ErrInvalidArgument
	}
	return affected(r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).
		Updates(map[string]any{"email": email, "phone": phone}))
}

func (r *userRepo) update(ctx context.Context, id string, role cnst.Role, column string, value any) error {
	return affected(r.db.WithContext(ctx).Model(&User{}).
		Where("id = ? AND role = ?", id, role).
		Update(column, value))
}

func (r *userRepo) SetActive(ctx context.Context, id string, role cnst.Role, active bool) error {
	return r.update(ctx, id, role, "active", active)
}

func (r *userRepo) SetPasswordHash(ctx context.Context, id string, role cnst.Role, hash string) error {
	if hash == "" {
		return ErrInvalidArgument
	}
	return r.update(ctx, id, role, "password_hash", hash)
}

func (r *userRepo) SetAccessToken(ctx context.Context, id string, role cnst.Role, token string) error {
	return r.update(ctx, id, role, "token", OptString(token))
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&User{}))
}
