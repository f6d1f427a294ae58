package dto

import (
	"encoding/json"
	"strings"
	"time"
)

// dateLayout is the calendar date format accepted besides RFC 3339
const dateLayout = "2006-01-02"

// Date accepts either an RFC 3339 timestamp or a YYYY-MM-DD date
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		if t, err = time.ParseInLocation(dateLayout, s, time.Local); err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// Value returns the date, or nil when unset
func (d *Date) Value() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// CreateYearRequest opens a dues year
type CreateYearRequest struct {
	Year          int     `json:"year" binding:"gt=0"`
	MonthlyAmount float64 `json:"monthlyAmount" binding:"gt=0"`
	Active        bool    `json:"active"`
}

// UpdateYearRequest changes the monthly amount of a year
type UpdateYearRequest struct {
	MonthlyAmount float64 `json:"monthlyAmount" binding:"gt=0"`
}

// PaymentRequest records a monthly payment, used for both create and upsert
type PaymentRequest struct {
	MemberID    string   `json:"memberId" binding:"required"`
	YearID      string   `json:"yearId" binding:"required"`
	Month       int      `json:"month" binding:"required"`
	AmountPaid  *float64 `json:"amountPaid" binding:"required"`
	PaymentDate *Date    `json:"paymentDate"`
	Notes       string   `json:"notes"`
}

// UpdatePaymentRequest lists payment fields to change
type UpdatePaymentRequest struct {
	AmountPaid  *float64 `json:"amountPaid"`
	PaymentDate *Date    `json:"paymentDate"`
	Notes       *string  `json:"notes"`
}

// ContributionRequest creates or updates an exceptional contribution.
// Type must be one of cnst.ContributionTypes.
type ContributionRequest struct {
	Title       string  `json:"title"`
	Type        string  `json:"type" binding:"omitempty,oneof=décès mariage anniversaire solidarité autre"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// ExceptionalPaymentRequest records a payment toward a contribution.
// MemberID may hold either a member id or its user id.
type ExceptionalPaymentRequest struct {
	MemberID    string   `json:"memberId" binding:"required"`
	Amount      *float64 `json:"amount" binding:"required"`
	PaymentDate *Date    `json:"paymentDate"`
	Notes       string   `json:"notes"`
}

// UpdateExceptionalPaymentRequest lists exceptional payment fields to change
type UpdateExceptionalPaymentRequest struct {
	Amount      *float64 `json:"amount"`
	PaymentDate *Date    `json:"paymentDate"`
	Notes       *string  `json:"notes"`
}
