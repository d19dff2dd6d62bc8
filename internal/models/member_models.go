package models

import "time"

// DateLayout is the calendar date format used for expiry dates.
const DateLayout = "2006-01-02"

// Member is the MEMBER-role extension of a user holding an optional subscription.
// MembershipPlan and ExpiryDate are either both set or both nil.
type Member struct {
	ID             int64        `json:"id" db:"id"`
	UserID         int64        `json:"user_id" db:"user_id"`
	MembershipPlan *string      `json:"membership_plan" db:"membership_plan"`
	ExpiryDate     *time.Time   `json:"expiry_date" db:"expiry_date"`
	User           *UserSummary `json:"user,omitempty"`
}

// HasPlan reports whether a subscription is recorded, expired or not.
func (m *Member) HasPlan() bool {
	return m.MembershipPlan != nil && m.ExpiryDate != nil
}

// Plan is a membership tier from the catalog.
type Plan struct {
	ID           int     `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Description  string  `json:"description" yaml:"description"`
	Price        float64 `json:"price" yaml:"price"`
	DurationDays int     `json:"duration_days" yaml:"duration_days"`
	ClassLimit   int     `json:"class_limit" yaml:"class_limit"` // -1 means unlimited
}

// UnlimitedClasses marks a plan without a monthly class allowance.
const UnlimitedClasses = -1

// IsUnlimited reports whether the plan has no monthly class cap.
func (p Plan) IsUnlimited() bool {
	return p.ClassLimit == UnlimitedClasses
}

// MembershipStatus is the read model returned for a member's subscription.
type MembershipStatus struct {
	MemberID         int64        `json:"member_id"`
	UserID           int64        `json:"user_id"`
	MembershipPlan   *string      `json:"membership_plan"`
	ExpiryDate       *string      `json:"expiry_date"`
	IsActive         bool         `json:"is_active"`
	DaysRemaining    int          `json:"days_remaining"`
	ClassLimit       *int         `json:"class_limit"`
	ClassesUsed      int          `json:"classes_used_this_month"`
	RemainingClasses *int         `json:"remaining_classes"`
	User             *UserSummary `json:"user,omitempty"`
}

// MonthlyUsage is the class allowance usage for the current calendar month.
type MonthlyUsage struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// ActivationSource identifies which flow activated a membership.
type ActivationSource string

const (
	ActivationDirect  ActivationSource = "direct"
	ActivationPayment ActivationSource = "payment"
	ActivationAdmin   ActivationSource = "admin"
)
