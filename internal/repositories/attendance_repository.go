package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"gym_club_backend/internal/models"
)

// AttendanceRepository defines the interface for attendance records.
type AttendanceRepository interface {
	// UpsertAttendance records the outcome for a booking, replacing any earlier mark.
	UpsertAttendance(executor SQLExecutor, bookingID int64, attended bool, at time.Time) (*models.Attendance, error)
	// MarkUnrecordedAbsent inserts attended=false for every booking of the
	// class that has no attendance yet and returns how many were written.
	MarkUnrecordedAbsent(executor SQLExecutor, classID int64, at time.Time) (int64, error)
}

type attendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(db *sql.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) UpsertAttendance(executor SQLExecutor, bookingID int64, attended bool, at time.Time) (*models.Attendance, error) {
	query := `INSERT INTO attendance (booking_id, attended, recorded_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (booking_id) DO UPDATE SET attended = EXCLUDED.attended, recorded_at = EXCLUDED.recorded_at
	          RETURNING id, booking_id, attended, recorded_at`

	var a models.Attendance
	err := executor.QueryRow(query, bookingID, attended, at).Scan(&a.ID, &a.BookingID, &a.Attended, &a.RecordedAt)
	if err != nil {
		return nil, wrapWriteError(err, "recording attendance")
	}
	return &a, nil
}

func (r *attendanceRepository) MarkUnrecordedAbsent(executor SQLExecutor, classID int64, at time.Time) (int64, error) {
	query := `INSERT INTO attendance (booking_id, attended, recorded_at)
	          SELECT b.id, FALSE, $2
	          FROM bookings b
	          LEFT JOIN attendance a ON a.booking_id = b.id
	          WHERE b.class_id = $1 AND a.id IS NULL`
	result, err := executor.Exec(query, classID, at)
	if err != nil {
		return 0, fmt.Errorf("%w: marking unrecorded absences: %v", ErrDatabaseError, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: marking unrecorded absences: %v", ErrDatabaseError, err)
	}
	return n, nil
}
