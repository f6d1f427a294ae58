package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppConstants(t *testing.T) {
	assert.Equal(t, "assocmanager", AppName)
	assert.Equal(t, "apiserver", CommandName)
}

func TestI18nConstants(t *testing.T) {
	assert.Equal(t, "fr", LangFR)
	assert.Equal(t, "en", LangEN)
	assert.Equal(t, LangFR, LangDefault)
	assert.Equal(t, "X-Lang", XLang)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleMember.Valid())
	assert.False(t, RoleSuperAdmin.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestIsContributionType(t *testing.T) {
	for _, ct := range []string{"décès", "mariage", "anniversaire", "solidarité", "autre"} {
		assert.True(t, IsContributionType(ct), ct)
	}
	assert.False(t, IsContributionType("deces"))
	assert.False(t, IsContributionType(""))
}
