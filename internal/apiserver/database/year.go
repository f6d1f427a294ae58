package database

import (
	"context"

	"gorm.io/gorm"
)

// YearRepository defines the queries on dues periods
type YearRepository interface {
	Create(ctx context.Context, y *Year) error
	GetByID(ctx context.Context, id string) (*Year, error)
	// List returns every year, most recent first
	List(ctx context.Context) ([]*Year, error)
	GetActive(ctx context.Context) (*Year, error)
	ListActive(ctx context.Context) ([]*Year, error)
	UpdateMonthlyAmount(ctx context.Context, id string, amount float64) (*Year, error)
	// DeactivateAll clears the active flag on every row, or only on the
	// rows currently active
	DeactivateAll(ctx context.Context, onlyActive bool) (int64, error)
	Activate(ctx context.Context, id string) (*Year, error)
	Delete(ctx context.Context, id string) error
}

type yearRepo struct {
	db *gorm.DB
}

func (r *yearRepo) Create(ctx context.Context, y *Year) error {
	if y.Year <= 0 || y.MonthlyAmount <= 0 {
		return ErrInvalidArgument
	}
	return translateError(r.db.WithContext(ctx).Omit("Payments").Create(y).Error)
}

func (r *yearRepo) GetByID(ctx context.Context, id string) (*Year, error) {
	var y Year
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&y).Error; err != nil {
		return nil, translateError(err)
	}
	return &y, nil
}

func (r *yearRepo) List(ctx context.Context) ([]*Year, error) {
	var years []*Year
	if err := r.db.WithContext(ctx).Order("year DESC").Find(&years).Error; err != nil {
		return nil, translateError(err)
	}
	return years, nil
}

func (r *yearRepo) GetActive(ctx context.Context) (*Year, error) {
	var y Year
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("year DESC").First(&y).Error; err != nil {
		return nil, translateError(err)
	}
	return &y, nil
}

func (r *yearRepo) ListActive(ctx context.Context) ([]*Year, error) {
	var years []*Year
	if err := r.db.WithContext(ctx).Where("active = ?", true).Find(&years).Error; err != nil {
		return nil, translateError(err)
	}
	return years, nil
}

func (r *yearRepo) UpdateMonthlyAmount(ctx context.Context, id string, amount float64) (*Year, error) {
	if amount <= 0 {
		return nil, ErrInvalidArgument
	}
	if err := affected(r.db.WithContext(ctx).Model(&Year{}).Where("id = ?", id).
		Update("monthly_amount", amount)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *yearRepo) DeactivateAll(ctx context.Context, onlyActive bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&Year{})
	if onlyActive {
		q = q.Where("active = ?", true)
	} else {
		q = q.Where("1 = 1")
	}
	res := q.Update("active", false)
	return res.RowsAffected, translateError(res.Error)
}

func (r *yearRepo) Activate(ctx context.Context, id string) (*Year, error) {
	if err := affected(r.db.WithContext(ctx).Model(&Year{}).Where("id = ?", id).
		Update("active", true)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *yearRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&Year{}))
}
