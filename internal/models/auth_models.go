package models

import (
	"strings"
	"time"
)

// Role is the uppercase role name carried in tokens and stored on users.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTrainer Role = "TRAINER"
	RoleMember  Role = "MEMBER"
)

// ParseRole normalizes a role name. The boolean is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleTrainer, RoleMember:
		return r, true
	default:
		return "", false
	}
}

// ApprovalStatus tracks the trainer approval workflow.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// IsValidApprovalStatus checks if the provided string is a known approval status.
func IsValidApprovalStatus(status string) bool {
	switch ApprovalStatus(status) {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	default:
		return false
	}
}

// User represents an account in the system
type User struct {
	ID              int64          `json:"id" db:"id"`
	Name            string         `json:"name" db:"name"`
	Email           string         `json:"email" db:"email"`
	PasswordHash    string         `json:"-" db:"password_hash"` // never serialized
	Phone           *string        `json:"phone,omitempty" db:"phone"`
	Address         *string        `json:"address,omitempty" db:"address"`
	Role            Role           `json:"role" db:"role"`
	ApprovalStatus  ApprovalStatus `json:"approval_status" db:"approval_status"`
	RejectionReason *string        `json:"rejection_reason,omitempty" db:"rejection_reason"`
	ApprovedBy      *int64         `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt      *time.Time     `json:"approved_at,omitempty" db:"approved_at"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
	Member          *Member        `json:"member,omitempty"` // Populated for MEMBER accounts
}

// IsApprovedTrainer reports whether the user is a trainer allowed to teach.
func (u *User) IsApprovedTrainer() bool {
	return u != nil && u.Role == RoleTrainer && u.ApprovalStatus == ApprovalApproved
}

// UserSummary is the trimmed user projection embedded in other resources.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserFilters defines the available filters for listing users.
type UserFilters struct {
	Role           *Role
	ApprovalStatus *ApprovalStatus
}
