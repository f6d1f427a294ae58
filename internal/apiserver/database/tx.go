package database

import (
	"context"

	"gorm.io/gorm"
)

// scope binds the repositories to one connection: the plain handle or a transaction
type scope struct {
	db *gorm.DB
}

func (s scope) Users() UserRepository { return &userRepo{db: s.db} }

func (s scope) Members() MemberRepository { return &memberRepo{db: s.db} }

func (s scope) Years() YearRepository { return &yearRepo{db: s.db} }

func (s scope) Payments() PaymentRepository { return &paymentRepo{db: s.db} }

func (s scope) Contributions() ContributionRepository { return &contributionRepo{db: s.db} }

func (s scope) ExceptionalPayments() ExceptionalPaymentRepository {
	return &exceptionalPaymentRepo{db: s.db}
}

func (s scope) Config() ConfigRepository { return &configRepo{db: s.db} }

// Tx is the handle passed to a unit of work. It exposes the same repositories
// as TenantStore but cannot open another transaction.
type Tx struct {
	scope
}

// Transaction runs fn between BEGIN and COMMIT. Any error returned by fn rolls
// the transaction back and is returned as is; a panic rolls back and re-panics.
func (s *TenantStore) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Tx{scope: scope{db: gtx}})
	})
}

// RunSequence runs ops in order inside one transaction and stops at the first error
func (s *TenantStore) RunSequence(ctx context.Context, ops ...func(tx *Tx) error) error {
	return s.Transaction(ctx, func(tx *Tx) error {
		for _, op := range ops {
			if err := op(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
