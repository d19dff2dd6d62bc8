package models

import "time"

// PaymentStatus defines the lifecycle state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusSuccess    PaymentStatus = "success"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusExpired    PaymentStatus = "expired"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// AllPaymentStatuses lists every status in display order.
var AllPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusProcessing,
	PaymentStatusSuccess,
	PaymentStatusFailed,
	PaymentStatusExpired,
	PaymentStatusRefunded,
}

// IsValidPaymentStatus checks if the provided string is a known payment status.
func IsValidPaymentStatus(status string) bool {
	for _, s := range AllPaymentStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusExpired, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo encodes the payment state machine:
// pending may move anywhere else, processing only to success or failed.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next != PaymentStatusPending && IsValidPaymentStatus(string(next))
	case PaymentStatusProcessing:
		return next == PaymentStatusSuccess || next == PaymentStatusFailed
	default:
		return false
	}
}

// Payment methods accepted by the simulated gateway.
const (
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodEWallet      = "e_wallet"
	PaymentMethodQRIS         = "qris"
	PaymentMethodCreditCard   = "credit_card"
)

// Payment is a membership purchase through the simulated gateway.
type Payment struct {
	ID             int64         `json:"id" db:"id"`
	MemberID       int64         `json:"member_id" db:"member_id"`
	OrderID        string        `json:"order_id" db:"order_id"`
	Amount         float64       `json:"amount" db:"amount"`
	PaymentMethod  string        `json:"payment_method" db:"payment_method"`
	PaymentDetail  *string       `json:"payment_detail,omitempty" db:"payment_detail"`
	Status         PaymentStatus `json:"status" db:"status"`
	MembershipPlan string        `json:"membership_plan" db:"membership_plan"`
	DurationDays   int           `json:"duration_days" db:"duration_days"`
	TransactionID  *string       `json:"transaction_id,omitempty" db:"transaction_id"`
	VANumber       *string       `json:"va_number,omitempty" db:"va_number"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	PaidAt         *time.Time    `json:"paid_at,omitempty" db:"paid_at"`
	ExpiredAt      *time.Time    `json:"expired_at,omitempty" db:"expired_at"`
	Member         *UserSummary  `json:"member,omitempty"` // Owning member's user details
}

// IsOverdue reports whether a pending payment has passed its deadline.
func (p *Payment) IsOverdue(now time.Time) bool {
	return p.Status == PaymentStatusPending && p.ExpiredAt != nil && now.After(*p.ExpiredAt)
}

// PaymentFilters defines the available filters for payment listings and reports.
type PaymentFilters struct {
	MemberID  *int64
	StartDate *time.Time // inclusive, on created_at
	EndDate   *time.Time // exclusive, on created_at
	Status    *PaymentStatus
	Plan      *string
}

// PaymentCheckout is returned when a payment is created.
type PaymentCheckout struct {
	Payment      *Payment `json:"payment"`
	Plan         Plan     `json:"plan"`
	Subtotal     float64  `json:"subtotal"`
	AdminFee     float64  `json:"admin_fee"`
	Total        float64  `json:"total"`
	Instructions []string `json:"instructions,omitempty"`
	Existing     bool     `json:"existing"`
}

// PaymentCompletion is returned after a successful activation.
type PaymentCompletion struct {
	Payment    *Payment          `json:"payment"`
	Membership *MembershipStatus `json:"membership,omitempty"`
}
