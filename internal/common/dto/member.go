package dto

import "time"

// CreateMemberRequest represents a request to create a member and its login
type CreateMemberRequest struct {
	Name             string `json:"name"`
	CustomFieldValue string `json:"customFieldValue"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Password         string `json:"password"`
}

// UpdateMemberRequest lists member fields to change. Empty strings keep the
// current value; a phone set to "" clears it.
type UpdateMemberRequest struct {
	Name             string  `json:"name"`
	CustomFieldValue string  `json:"customFieldValue"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone"`
}

// Member is the flattened view of a MEMBER user and its profile.
// Token is only filled for administrators.
type Member struct {
	ID               string    `json:"id"`
	MemberID         string    `json:"memberId,omitempty"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Active           bool      `json:"active"`
	Token            *string   `json:"token,omitempty"`
	Name             string    `json:"name"`
	CustomFieldValue string    `json:"customFieldValue"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CreatedMember is returned once on creation with the generated password
type CreatedMember struct {
	Member
	Password string `json:"password"`
}
