package models

import "time"

// Booking links one member to one class instance.
type Booking struct {
	ID          int64        `json:"id" db:"id"`
	MemberID    int64        `json:"member_id" db:"member_id"`
	ClassID     int64        `json:"class_id" db:"class_id"`
	BookingDate time.Time    `json:"booking_date" db:"booking_date"`
	Class       *BookedClass `json:"class,omitempty"`      // For joining with class details
	Member      *Member      `json:"member,omitempty"`     // For joining with member details
	Attendance  *Attendance  `json:"attendance,omitempty"` // Nil when not yet marked
}

// BookedClass is the class projection embedded in a booking.
type BookedClass struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Schedule    time.Time    `json:"schedule"`
	Capacity    int          `json:"capacity"`
	TrainerID   int64        `json:"trainer_id"`
	Trainer     *UserSummary `json:"trainer,omitempty"`
}

// BookingFilters defines the available filters for querying bookings.
type BookingFilters struct {
	MemberID *int64 `form:"member_id"`
	ClassID  *int64 `form:"class_id"`
}

// Attendance is the recorded outcome of a booking. At most one per booking.
type Attendance struct {
	ID         int64     `json:"id" db:"id"`
	BookingID  int64     `json:"booking_id" db:"booking_id"`
	Attended   bool      `json:"attended" db:"attended"`
	RecordedAt time.Time `json:"date" db:"recorded_at"`
}

// AttendanceStats is derived over a set of bookings and never stored.
type AttendanceStats struct {
	Total     int `json:"total"`
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	NotMarked int `json:"not_marked"`
}

// AttendanceReport pairs bookings with their statistics.
type AttendanceReport struct {
	Bookings   []Booking       `json:"bookings"`
	Statistics AttendanceStats `json:"statistics"`
}
