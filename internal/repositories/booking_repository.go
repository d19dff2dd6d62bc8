package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gym_club_backend/internal/models"
)

// BookingRepository defines the interface for booking-related database operations.
type BookingRepository interface {
	CreateBooking(executor SQLExecutor, booking *models.Booking) (int64, error)
	GetBookingByID(id int64) (*models.Booking, error) // Joins class, trainer, member and attendance
	GetBookings(filters models.BookingFilters) ([]models.Booking, error)
	DeleteBooking(executor SQLExecutor, id int64) error
	FindBookingByMemberAndClass(executor SQLExecutor, memberID, classID int64) (*models.Booking, error)
	CountBookingsForClass(executor SQLExecutor, classID int64) (int, error)
	CountMemberBookingsSince(memberID int64, since time.Time) (int, error)
	GetClassMembers(classID int64) ([]models.ClassMember, error)
}

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const selectBookingFields = `
	b.id, b.member_id, b.class_id, b.booking_date,
	c.id, c.name, c.description, c.schedule, c.capacity, c.trainer_id,
	t.id, t.name, t.email,
	m.id, m.user_id, m.membership_plan, m.expiry_date,
	mu.id, mu.name, mu.email,
	a.id, a.booking_id, a.attended, a.recorded_at
`

const getBookingJoins = `
	FROM bookings b
	JOIN classes c ON c.id = b.class_id
	JOIN users t ON t.id = c.trainer_id
	JOIN members m ON m.id = b.member_id
	JOIN users mu ON mu.id = m.user_id
	LEFT JOIN attendance a ON a.booking_id = b.id
`

// scanBookingRow is a helper to scan a single booking row and its joined details.
func scanBookingRow(row scanner) (*models.Booking, error) {
	var booking models.Booking
	var class models.BookedClass
	var trainer models.UserSummary
	var member models.Member
	var memberUser models.UserSummary

	// Attendance is a LEFT JOIN
	var attendanceID, attendanceBookingID sql.NullInt64
	var attended sql.NullBool
	var recordedAt sql.NullTime

	err := row.Scan(
		&booking.ID, &booking.MemberID, &booking.ClassID, &booking.BookingDate,
		&class.ID, &class.Name, &class.Description, &class.Schedule, &class.Capacity, &class.TrainerID,
		&trainer.ID, &trainer.Name, &trainer.Email,
		&member.ID, &member.UserID, &member.MembershipPlan, &member.ExpiryDate,
		&memberUser.ID, &memberUser.Name, &memberUser.Email,
		&attendanceID, &attendanceBookingID, &attended, &recordedAt,
	)
	if err != nil {
		return nil, wrapScanError(err, "scanning booking with details")
	}

	class.Trainer = &trainer
	booking.Class = &class
	member.User = &memberUser
	booking.Member = &member
	if attendanceID.Valid {
		booking.Attendance = &models.Attendance{
			ID:         attendanceID.Int64,
			BookingID:  attendanceBookingID.Int64,
			Attended:   attended.Bool,
			RecordedAt: recordedAt.Time,
		}
	}
	return &booking, nil
}

func (r *bookingRepository) CreateBooking(executor SQLExecutor, booking *models.Booking) (int64, error) {
	query := `INSERT INTO bookings (member_id, class_id, booking_date)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	if booking.BookingDate.IsZero() {
		booking.BookingDate = time.Now()
	}
	err := executor.QueryRow(query, booking.MemberID, booking.ClassID, booking.BookingDate).Scan(&booking.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating booking")
	}
	return booking.ID, nil
}

func (r *bookingRepository) GetBookingByID(id int64) (*models.Booking, error) {
	query := "SELECT " + selectBookingFields + getBookingJoins + " WHERE b.id = $1"
	return scanBookingRow(r.db.QueryRow(query, id))
}

func (r *bookingRepository) GetBookings(filters models.BookingFilters) ([]models.Booking, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectBookingFields + getBookingJoins)

	var conditions []string
	var args []interface{}
	if filters.MemberID != nil {
		args = append(args, *filters.MemberID)
		conditions = append(conditions, fmt.Sprintf("b.member_id = $%d", len(args)))
	}
	if filters.ClassID != nil {
		args = append(args, *filters.ClassID)
		conditions = append(conditions, fmt.Sprintf("b.class_id = $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY c.schedule DESC, b.id DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching bookings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	bookings := []models.Booking{}
	for rows.Next() {
		booking, err := scanBookingRow(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating bookings: %v", ErrDatabaseError, err)
	}
	return bookings, nil
}

// DeleteBooking removes a booking; its attendance row cascades.
func (r *bookingRepository) DeleteBooking(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting booking: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "deleting booking")
}

func (r *bookingRepository) FindBookingByMemberAndClass(executor SQLExecutor, memberID, classID int64) (*models.Booking, error) {
	var booking models.Booking
	err := executor.QueryRow(`SELECT id, member_id, class_id, booking_date FROM bookings
		WHERE member_id = $1 AND class_id = $2`, memberID, classID).
		Scan(&booking.ID, &booking.MemberID, &booking.ClassID, &booking.BookingDate)
	if err != nil {
		return nil, wrapScanError(err, "finding booking")
	}
	return &booking, nil
}

func (r *bookingRepository) CountBookingsForClass(executor SQLExecutor, classID int64) (int, error) {
	var count int
	if err := executor.QueryRow(`SELECT COUNT(*) FROM bookings WHERE class_id = $1`, classID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting class bookings: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *bookingRepository) CountMemberBookingsSince(memberID int64, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE member_id = $1 AND booking_date >= $2`, memberID, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting member bookings: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *bookingRepository) GetClassMembers(classID int64) ([]models.ClassMember, error) {
	rows, err := r.db.Query(`SELECT b.id, m.id, u.id, u.name, u.email, b.booking_date, m.membership_plan,
			a.id, a.attended, a.recorded_at
		FROM bookings b
		JOIN members m ON m.id = b.member_id
		JOIN users u ON u.id = m.user_id
		LEFT JOIN attendance a ON a.booking_id = b.id
		WHERE b.class_id = $1
		ORDER BY b.booking_date, b.id`, classID)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching class members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	members := []models.ClassMember{}
	for rows.Next() {
		var cm models.ClassMember
		var attendanceID sql.NullInt64
		var attended sql.NullBool
		var recordedAt sql.NullTime
		if err := rows.Scan(&cm.BookingID, &cm.MemberID, &cm.UserID, &cm.Name, &cm.Email, &cm.BookingDate,
			&cm.MembershipPlan, &attendanceID, &attended, &recordedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning class member: %v", ErrDatabaseError, err)
		}
		if attendanceID.Valid {
			cm.Attendance = &models.Attendance{
				ID:         attendanceID.Int64,
				BookingID:  cm.BookingID,
				Attended:   attended.Bool,
				RecordedAt: recordedAt.Time,
			}
		}
		members = append(members, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating class members: %v", ErrDatabaseError, err)
	}
	return members, nil
}
