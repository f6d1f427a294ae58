package database

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// PaymentChanges lists the fields of a payment to update; nil fields are kept.
// A Notes pointing to "" clears the notes.
type PaymentChanges struct {
	Amount      *float64
	PaymentDate *time.Time
	Notes       *string
}

func (c PaymentChanges) values(amountColumn string) (map[string]any, error) {
	values := map[string]any{}
	if c.Amount != nil {
		if *c.Amount <= 0 {
			return nil, ErrInvalidArgument
		}
		values[amountColumn] = *c.Amount
	}
	if c.PaymentDate != nil {
		values["payment_date"] = *c.PaymentDate
	}
	if c.Notes != nil {
		values["notes"] = OptString(*c.Notes)
	}
	return values, nil
}

// PaymentRepository defines the queries on monthly dues payments
type PaymentRepository interface {
	Create(ctx context.Context, p *MonthlyPayment) error
	GetByID(ctx context.Context, id string) (*MonthlyPayment, error)
	// ListForMemberYear orders by month then payment date
	ListForMemberYear(ctx context.Context, memberID, yearID string) ([]*MonthlyPayment, error)
	ListForYear(ctx context.Context, yearID string) ([]*MonthlyPayment, error)
	CountForYear(ctx context.Context, yearID string) (int64, error)
	// SumForYear totals every payment of the year, whatever the member's status
	SumForYear(ctx context.Context, yearID string) (float64, error)
	SumForMonth(ctx context.Context, memberID, yearID string, month int) (float64, error)
	// Upsert updates the first payment of the member, year and month of p,
	// or creates p when there is none
	Upsert(ctx context.Context, p *MonthlyPayment) (*MonthlyPayment, error)
	Update(ctx context.Context, id string, changes PaymentChanges) (*MonthlyPayment, error)
	Delete(ctx context.Context, id string) error
	DeleteForMember(ctx context.Context, memberID string) error
}

type paymentRepo struct {
	db *gorm.DB
}

func validPayment(p *MonthlyPayment) bool {
	return p.MemberID != "" && p.YearID != "" && p.Month >= 1 && p.Month <= 12 && p.AmountPaid > 0
}

func (r *paymentRepo) Create(ctx context.Context, p *MonthlyPayment) error {
	if !validPayment(p) {
		return ErrInvalidArgument
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	return translateError(r.db.WithContext(ctx).Omit("Member", "Year").Create(p).Error)
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*MonthlyPayment, error) {
	var p MonthlyPayment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *paymentRepo) ListForMemberYear(ctx context.Context, memberID, yearID string) ([]*MonthlyPayment, error) {
	var payments []*MonthlyPayment
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND year_id = ?", memberID, yearID).
		Order("month ASC, payment_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return payments, nil
}

func (r *paymentRepo) ListForYear(ctx context.Context, yearID string) ([]*MonthlyPayment, error) {
	var payments []*MonthlyPayment
	err := r.db.WithContext(ctx).Preload("Member").
		Where("year_id = ?", yearID).
		Order("month ASC, payment_date ASC").
		Find(&payments).Error
	if err != nil {
		return nil, translateError(err)
	}
	return payments, nil
}

func (r *paymentRepo) CountForYear(ctx context.Context, yearID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&MonthlyPayment{}).Where("year_id = ?", yearID).Count(&n).Error
	return n, translateError(err)
}

func (r *paymentRepo) SumForYear(ctx context.Context, yearID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&MonthlyPayment{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("year_id = ?", yearID).
		Scan(&sum).Error
	return sum, translateError(err)
}

func (r *paymentRepo) SumForMonth(ctx context.Context, memberID, yearID string, month int) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&MonthlyPayment{}).
		Select("COALESCE(SUM(amount_paid), 0)").
		Where("member_id = ? AND year_id = ? AND month = ?", memberID, yearID, month).
		Scan(&sum).Error
	return sum, translateError(err)
}

func (r *paymentRepo) Upsert(ctx context.Context, p *MonthlyPayment) (*MonthlyPayment, error) {
	if !validPayment(p) {
		return nil, ErrInvalidArgument
	}

	var existing MonthlyPayment
	err := r.db.WithContext(ctx).
		Where("member_id = ? AND year_id = ? AND month = ?", p.MemberID, p.YearID, p.Month).
		Order("payment_date ASC").
		First(&existing).Error
	switch err = translateError(err); {
	case err == ErrNotFound:
		if err := r.Create(ctx, p); err != nil {
			return nil, err
		}
		return p, nil
	case err != nil:
		return nil, err
	}

	changes := PaymentChanges{Amount: &p.AmountPaid, Notes: p.Notes}
	if !p.PaymentDate.IsZero() {
		changes.PaymentDate = &p.PaymentDate
	}
	if changes.Notes == nil {
		empty := ""
		changes.Notes = &empty
	}
	return r.Update(ctx, existing.ID, changes)
}

func (r *paymentRepo) Update(ctx context.Context, id string, changes PaymentChanges) (*MonthlyPayment, error) {
	values, err := changes.values("amount_paid")
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := affected(r.db.WithContext(ctx).Model(&MonthlyPayment{}).Where("id = ?", id).
			Updates(values)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *paymentRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&MonthlyPayment{}))
}

func (r *paymentRepo) DeleteForMember(ctx context.Context, memberID string) error {
	return translateError(r.db.WithContext(ctx).Where("member_id = ?", memberID).
		Delete(&MonthlyPayment{}).Error)
}
