package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *TenantStore {
	t.Helper()
	s, err := CreateTenant(filepath.Join(t.TempDir(), "tenant.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func mustCreateMember(t *testing.T, s *TenantStore, name, field, email, phone string) (*User, *Member) {
	t.Helper()
	ctx := context.Background()
	u := &User{Email: email, Phone: OptString(phone), PasswordHash: "hash", Role: cnst.RoleMember, Active: true}
	m := &Member{Name: name, CustomFieldValue: field, Active: true}
	err := s.Transaction(ctx, func(tx *Tx) error {
		if err := tx.Users().Create(ctx, u); err != nil {
			return err
		}
		m.UserID = u.ID
		return tx.Members().Create(ctx, m)
	})
	require.NoError(t, err)
	return u, m
}
