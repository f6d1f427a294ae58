package database

import (
	"context"
	"errors"
	"testing"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_RollbackReturnsSameError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var userID string
	err := s.Transaction(ctx, func(tx *Tx) error {
		u := &User{Email: "rollback@example.com", PasswordHash: "h", Role: cnst.RoleMember, Active: true}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		userID = u.ID
		return boom
	})
	assert.Same(t, boom, err)
	require.NotEmpty(t, userID)

	_, err = s.Users().GetByID(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)
	n, err := s.Users().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransaction_UserWithoutMemberIsRolledBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Transaction(ctx, func(tx *Tx) error {
		u := &User{Email: "half@example.com", PasswordHash: "h", Role: cnst.RoleMember, Active: true}
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		// missing name is refused before the member row is written
		return tx.Members().Create(ctx, &Member{UserID: u.ID})
	})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	users, err := s.Users().ListByRole(ctx, cnst.RoleMember, UserFilter{})
	require.NoError(t, err)
	assert.Empty(t, users)
	n, err := s.Members().CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTransaction_PanicRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.Transaction(ctx, func(tx *Tx) error {
			_ = tx.Years().Create(ctx, &Year{Year: 2030, MonthlyAmount: 1000})
			panic("unexpected")
		})
	})

	years, err := s.Years().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, years)
}

func TestTransaction_Commit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, m := mustCreateMember(t, s, "Awa", "Villa 12", "awa@example.com", "655000001")

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Member)
	assert.Equal(t, m.ID, got.Member.ID)
	assert.Equal(t, "Villa 12", got.Member.CustomFieldValue)
}

func TestRunSequence_StopsAtFirstError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	stop := errors.New("stop")
	ran := 0

	err := s.RunSequence(ctx,
		func(tx *Tx) error {
			ran++
			return tx.Years().Create(ctx, &Year{Year: 2024, MonthlyAmount: 1000})
		},
		func(tx *Tx) error {
			ran++
			return stop
		},
		func(tx *Tx) error {
			ran++
			return nil
		},
	)
	assert.Same(t, stop, err)
	assert.Equal(t, 2, ran)

	years, err := s.Years().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, years)
}

func TestRunSequence_Commits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RunSequence(ctx,
		func(tx *Tx) error { return tx.Years().Create(ctx, &Year{Year: 2024, MonthlyAmount: 1000}) },
		func(tx *Tx) error { return tx.Years().Create(ctx, &Year{Year: 2025, MonthlyAmount: 1500}) },
	)
	require.NoError(t, err)

	years, err := s.Years().List(ctx)
	require.NoError(t, err)
	require.Len(t, years, 2)
	assert.Equal(t, 2025, years[0].Year)
}
