package dto

// PlatformLoginRequest is a super admin login
type PlatformLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SuperAdminInfo describes the authenticated super admin
type SuperAdminInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// PlatformLoginResponse represents a platform login response
type PlatformLoginResponse struct {
	Token string         `json:"token"`
	User  SuperAdminInfo `json:"user"`
}

// CreateAssociationRequest provisions a new tenant
type CreateAssociationRequest struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Code          string `json:"code"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
	AdminName     string `json:"adminName"`
}

// UpdateAssociationRequest lists association fields to change
type UpdateAssociationRequest struct {
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Active *bool   `json:"active"`
}

// Credentials echoes the admin login of a new association
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// PlatformStats counts associations
type PlatformStats struct {
	TotalAssociations    int64 `json:"totalAssociations"`
	ActiveAssociations   int64 `json:"activeAssociations"`
	InactiveAssociations int64 `json:"inactiveAssociations"`
	OpenTenants          int   `json:"openTenants"`
}
