package dto

import "time"

// LoginRequest is a tenant login, either by identifier and password or by member access token
type LoginRequest struct {
	AssociationCode string `json:"associationCode"`
	Identifier      string `json:"identifier"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	AccessToken     string `json:"accessToken"`
}

// Identity returns the identifier, falling back to the phone field
func (r *LoginRequest) Identity() string {
	if r.Identifier != "" {
		return r.Identifier
	}
	return r.Phone
}

// MemberInfo is the member profile attached to a user
type MemberInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	CustomFieldValue string `json:"customFieldValue"`
	Active           bool   `json:"active"`
}

// UserInfo describes the authenticated user
type UserInfo struct {
	ID     string      `json:"id"`
	Email  string      `json:"email"`
	Phone  *string     `json:"phone"`
	Role   string      `json:"role"`
	Member *MemberInfo `json:"member"`
}

// AssociationInfo is the public view of a tenant
type AssociationInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Code string `json:"code"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token       string           `json:"token"`
	User        UserInfo         `json:"user"`
	Association *AssociationInfo `json:"association,omitempty"`
}

// MeResponse is the current user and its association
type MeResponse struct {
	UserInfo
	Association *AssociationInfo `json:"association,omitempty"`
}

// ResetPasswordRequest carries the replacement password
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// CreateAdminRequest represents a request to create an administrator
type CreateAdminRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AdminInfo is the listing view of an administrator
type AdminInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConfigRequest updates the association settings
type ConfigRequest struct {
	Name             string `json:"name"`
	Type             string `json:"type"`
	MemberFieldLabel string `json:"memberFieldLabel"`
}
