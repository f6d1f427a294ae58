package database

import (
	"context"
	"time"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"gorm.io/gorm"
)

// ContributionChanges lists the fields of a contribution to update; nil fields are kept
type ContributionChanges struct {
	Title       *string
	Type        *string
	Description *string
	Active      *bool
}

// ContributionRepository defines the queries on exceptional contributions
type ContributionRepository interface {
	Create(ctx context.Context, c *ExceptionalContribution) error
	GetByID(ctx context.Context, id string) (*ExceptionalContribution, error)
	// GetWithPayments loads payments newest first, each with its member and user
	GetWithPayments(ctx context.Context, id string) (*ExceptionalContribution, error)
	// List returns contributions newest first with their payments
	List(ctx context.Context, active *bool) ([]*ExceptionalContribution, error)
	Update(ctx context.Context, id string, changes ContributionChanges) (*ExceptionalContribution, error)
	Delete(ctx context.Context, id string) error
}

type contributionRepo struct {
	db *gorm.DB
}

func preloadContributionPayments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date DESC") }).
		Preload("Payments.Member").
		Preload("Payments.Member.User")
}

func (r *contributionRepo) Create(ctx context.Context, c *ExceptionalContribution) error {
	if c.Title == "" || !cnst.IsContributionType(c.Type) {
		return ErrInvalidArgument
	}
	return translateError(r.db.WithContext(ctx).Omit("Payments").Create(c).Error)
}

func (r *contributionRepo) GetByID(ctx context.Context, id string) (*ExceptionalContribution, error) {
	var c ExceptionalContribution
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *contributionRepo) GetWithPayments(ctx context.Context, id string) (*ExceptionalContribution, error) {
	var c ExceptionalContribution
	if err := preloadContributionPayments(r.db.WithContext(ctx)).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translateError(err)
	}
	return &c, nil
}

func (r *contributionRepo) List(ctx context.Context, active *bool) ([]*ExceptionalContribution, error) {
	q := preloadContributionPayments(r.db.WithContext(ctx))
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	var list []*ExceptionalContribution
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, translateError(err)
	}
	return list, nil
}

func (r *contributionRepo) Update(ctx context.Context, id string, changes ContributionChanges) (*ExceptionalContribution, error) {
	values := map[string]any{}
	if changes.Title != nil && *changes.Title != "" {
		values["title"] = *changes.Title
	}
	if changes.Type != nil && *changes.Type != "" {
		if !cnst.IsContributionType(*changes.Type) {
			return nil, ErrInvalidArgument
		}
		values["type"] = *changes.Type
	}
	if changes.Description != nil {
		values["description"] = OptString(*changes.Description)
	}
	if changes.Active != nil {
		values["active"] = *changes.Active
	}
	if len(values) > 0 {
		if err := affected(r.db.WithContext(ctx).Model(&ExceptionalContribution{}).Where("id = ?", id).
			Updates(values)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *contributionRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&ExceptionalContribution{}))
}

// ExceptionalPaymentRepository defines the queries on exceptional payments
type ExceptionalPaymentRepository interface {
	Create(ctx context.Context, p *ExceptionalPayment) error
	GetByID(ctx context.Context, id string) (*ExceptionalPayment, error)
	Update(ctx context.Context, id string, changes PaymentChanges) (*ExceptionalPayment, error)
	Delete(ctx context.Context, id string) error
	DeleteForMember(ctx context.Context, memberID string) error
	DeleteForContribution(ctx context.Context, contributionID string) error
}

type exceptionalPaymentRepo struct {
	db *gorm.DB
}

func (r *exceptionalPaymentRepo) Create(ctx context.Context, p *ExceptionalPayment) error {
	if p.ContributionID == "" || p.MemberID == "" || p.Amount <= 0 {
		return ErrInvalidArgument
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	return translateError(r.db.WithContext(ctx).Omit("Member").Create(p).Error)
}

func (r *exceptionalPaymentRepo) GetByID(ctx context.Context, id string) (*ExceptionalPayment, error) {
	var p ExceptionalPayment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *exceptionalPaymentRepo) Update(ctx context.Context, id string, changes PaymentChanges) (*ExceptionalPayment, error) {
	values, err := changes.values("amount")
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if err := affected(r.db.WithContext(ctx).Model(&ExceptionalPayment{}).Where("id = ?", id).
			Updates(values)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *exceptionalPaymentRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Where("id = ?", id).Delete(&ExceptionalPayment{}))
}

func (r *exceptionalPaymentRepo) DeleteForMember(ctx context.Context, memberID string) error {
	return translateError(r.db.WithContext(ctx).Where("member_id = ?", memberID).
		Delete(&ExceptionalPayment{}).Error)
}

func (r *exceptionalPaymentRepo) DeleteForContribution(ctx context.Context, contributionID string) error {
	return translateError(r.db.WithContext(ctx).Where("contribution_id = ?", contributionID).
		Delete(&ExceptionalPayment{}).Error)
}
