package models

import "time"

// Default values applied when a trainer omits optional class fields.
const (
	DefaultClassCapacity = 20
	DefaultClassDuration = 60 // minutes
	DefaultClassType     = "General"
	DefaultDifficulty    = "All Levels"
)

// ScheduleConflictWindow is how close two classes of one trainer may be.
const ScheduleConflictWindow = time.Hour

// GymClass is a scheduled class instance owned by a trainer.
type GymClass struct {
	ID              int64        `json:"id" db:"id"`
	TrainerID       int64        `json:"trainer_id" db:"trainer_id"`
	Name            string       `json:"name" db:"name"`
	Description     *string      `json:"description,omitempty" db:"description"`
	Schedule        time.Time    `json:"schedule" db:"schedule"`
	DurationMinutes int          `json:"duration" db:"duration_minutes"`
	Capacity        int          `json:"capacity" db:"capacity"`
	ClassType       string       `json:"class_type" db:"class_type"`
	Difficulty      string       `json:"difficulty" db:"difficulty"`
	BookedCount     int          `json:"booked_count"`
	AvailableSlots  int          `json:"available_slots"`
	AverageRating   *float64     `json:"average_rating,omitempty"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at" db:"updated_at"`
	Trainer         *UserSummary `json:"trainer,omitempty"` // For joining with trainer details
}

// IsFull reports whether the class has no slots left.
func (c *GymClass) IsFull() bool {
	return c.BookedCount >= c.Capacity
}

// ClassFilters defines the available filters for listing classes.
type ClassFilters struct {
	TrainerID    *int64
	ClassType    *string
	Difficulty   *string
	ScheduleFrom *time.Time
	ScheduleTo   *time.Time
}

// ClassMember is a booked member as seen by the class's trainer.
type ClassMember struct {
	BookingID      int64       `json:"booking_id"`
	MemberID       int64       `json:"member_id"`
	UserID         int64       `json:"user_id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	BookingDate    time.Time   `json:"booking_date"`
	MembershipPlan *string     `json:"membership_plan"`
	Attendance     *Attendance `json:"attendance"`
}

// TrainerClass is a trainer's class with its roster.
type TrainerClass struct {
	GymClass
	IsExpired bool          `json:"is_expired"`
	Members   []ClassMember `json:"members"`
}

// CleanedClass describes a past class removed by the expiry cleanup.
type CleanedClass struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Schedule      time.Time `json:"schedule"`
	AutoAbsentees int64     `json:"auto_absent_count"`
}
