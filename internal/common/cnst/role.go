package cnst

// Role is the role carried by a tenant user
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"

	// RoleSuperAdmin only exists in the platform database and platform tokens
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Valid reports whether r is one of the two tenant roles
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// ContributionTypes lists the accepted exceptional contribution types
var ContributionTypes = []string{"décès", "mariage", "anniversaire", "solidarité", "autre"}

// IsContributionType reports whether t is an accepted exceptional contribution type
func IsContributionType(t string) bool {
	for _, ct := range ContributionTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// DefaultAssociationCode names the association migrated from the single-tenant install
const DefaultAssociationCode = "V1-DEFAULT"
