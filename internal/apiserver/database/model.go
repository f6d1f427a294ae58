package database

import (
	"time"

	"github.com/amoylab/assocmanager/internal/common/cnst"
	"gorm.io/gorm"
)

// Base carries the ULID primary key and timestamps shared by every table
type Base struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an ID when the caller left it empty
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// User is a login identity of a tenant. Members own exactly one User.
type User struct {
	Base
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone        *string   `json:"phone" gorm:"type:varchar(50);uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Role         cnst.Role `json:"role" gorm:"type:varchar(20);not null;index"`
	Token        *string   `json:"token,omitempty" gorm:"type:varchar(64);uniqueIndex"`
	Active       bool      `json:"active" gorm:"not null"`
	Member       *Member   `json:"member,omitempty" gorm:"foreignKey:UserID"`
}

// Member is the profile layered on a MEMBER user
type Member struct {
	Base
	UserID           string                `json:"userId" gorm:"type:varchar(26);not null;uniqueIndex"`
	Name             string                `json:"name" gorm:"type:varchar(255);not null;index"`
	CustomFieldValue string                `json:"customFieldValue" gorm:"type:varchar(255);not null"`
	Active           bool                  `json:"active" gorm:"not null"`
	User             *User                 `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Payments         []*MonthlyPayment     `json:"payments,omitempty" gorm:"foreignKey:MemberID"`
	Exceptional      []*ExceptionalPayment `json:"-" gorm:"foreignKey:MemberID"`
}

// AssociationConfig is the per-tenant singleton holding display settings
type AssociationConfig struct {
	Base
	Name             string `json:"name" gorm:"type:varchar(255);not null"`
	Type             string `json:"type" gorm:"type:varchar(100)"`
	MemberFieldLabel string `json:"memberFieldLabel" gorm:"type:varchar(100);not null"`
}

// Year is a dues period
type Year struct {
	Base
	Year          int               `json:"year" gorm:"not null;uniqueIndex"`
	MonthlyAmount float64           `json:"monthlyAmount" gorm:"not null"`
	Active        bool              `json:"active" gorm:"not null;index"`
	Payments      []*MonthlyPayment `json:"-" gorm:"foreignKey:YearID"`
}

// MonthlyPayment records one dues payment. Several rows may share the
// same member, year and month; their amounts add up.
type MonthlyPayment struct {
	Base
	MemberID    string    `json:"memberId" gorm:"type:varchar(26);not null;index:idx_payment_slot,priority:1"`
	YearID      string    `json:"yearId" gorm:"type:varchar(26);not null;index:idx_payment_slot,priority:2"`
	Month       int       `json:"month" gorm:"not null;index:idx_payment_slot,priority:3"`
	AmountPaid  float64   `json:"amountPaid" gorm:"not null"`
	PaymentDate time.Time `json:"paymentDate" gorm:"not null"`
	Notes       *string   `json:"notes" gorm:"type:text"`
	Member      *Member   `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	Year        *Year     `json:"-" gorm:"foreignKey:YearID"`
}

// ExceptionalContribution is an ad-hoc collection campaign
type ExceptionalContribution struct {
	Base
	Title       string                `json:"title" gorm:"type:varchar(255);not null"`
	Type        string                `json:"type" gorm:"type:varchar(50);not null"`
	Description *string               `json:"description" gorm:"type:text"`
	Active      bool                  `json:"active" gorm:"not null"`
	Payments    []*ExceptionalPayment `json:"payments" gorm:"foreignKey:ContributionID"`
}

// ExceptionalPayment is a member's contribution toward an ExceptionalContribution
type ExceptionalPayment struct {
	Base
	ContributionID string    `json:"contributionId" gorm:"type:varchar(26);not null;index"`
	MemberID       string    `json:"memberId" gorm:"type:varchar(26);not null;index"`
	Amount         float64   `json:"amount" gorm:"not null"`
	PaymentDate    time.Time `json:"paymentDate" gorm:"not null"`
	Notes          *string   `json:"notes" gorm:"type:text"`
	Member         *Member   `json:"member,omitempty" gorm:"foreignKey:MemberID"`
}

// Association is the platform registry entry of a tenant
type Association struct {
	Base
	Name       string `json:"name" gorm:"type:varchar(255);not null"`
	Type       string `json:"type" gorm:"type:varchar(100);not null"`
	Code       string `json:"code" gorm:"type:varchar(100);not null;uniqueIndex"`
	DBName     string `json:"dbName" gorm:"column:db_name;type:varchar(255);not null"`
	Active     bool   `json:"active" gorm:"not null"`
	AdminEmail string `json:"adminEmail" gorm:"type:varchar(255)"`
	AdminName  string `json:"adminName" gorm:"type:varchar(255)"`
}

// SuperAdmin is an operator of the platform
type SuperAdmin struct {
	Base
	Email        string `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string `json:"-" gorm:"type:varchar(255);not null"`
	Name         string `json:"name" gorm:"type:varchar(255)"`
	Active       bool   `json:"active" gorm:"not null"`
}

// PlatformConfig holds platform metadata
type PlatformConfig struct {
	Base
	Name    string `json:"name" gorm:"type:varchar(255);not null"`
	Version string `json:"version" gorm:"type:varchar(50)"`
}

func tenantModels() []any {
	return []any{
		&User{},
		&Member{},
		&AssociationConfig{},
		&Year{},
		&MonthlyPayment{},
		&ExceptionalContribution{},
		&ExceptionalPayment{},
	}
}

func platformModels() []any {
	return []any{
		&Association{},
		&SuperAdmin{},
		&PlatformConfig{},
	}
}
