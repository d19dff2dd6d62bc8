package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
)

// MarkAttendanceRequest DTO
type MarkAttendanceRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
	Attended  *bool `json:"attended" binding:"required"`
}

// --- AttendanceService Interface ---
type AttendanceService interface {
	MarkAttendance(bookingID, trainerID int64, attended bool) (*models.Attendance, error)
	MarkClassAttendance(classID, bookingID, trainerID int64, attended bool) (*models.Attendance, error)
	MyAttendance(userID int64) (*models.AttendanceReport, error)
	ClassAttendance(classID int64, actor Actor) (*models.AttendanceReport, error)
}

type attendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	bookingRepo    repositories.BookingRepository
	classRepo      repositories.ClassRepository
	memberRepo     repositories.MemberRepository
	db             *sql.DB
	now            func() time.Time
}

// NewAttendanceService creates a new instance of AttendanceService.
func NewAttendanceService(attendanceRepo repositories.AttendanceRepository, bookingRepo repositories.BookingRepository, classRepo repositories.ClassRepository, memberRepo repositories.MemberRepository, db *sql.DB) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		bookingRepo:    bookingRepo,
		classRepo:      classRepo,
		memberRepo:     memberRepo,
		db:             db,
		now:            time.Now,
	}
}

// ComputeStatistics counts attendance outcomes over a set of bookings.
func ComputeStatistics(bookings []models.Booking) models.AttendanceStats {
	stats := models.AttendanceStats{Total: len(bookings)}
	for _, b := range bookings {
		switch {
		case b.Attendance == nil:
			stats.NotMarked++
		case b.Attendance.Attended:
			stats.Present++
		default:
			stats.Absent++
		}
	}
	return stats
}

func (s *attendanceService) MarkAttendance(bookingID, trainerID int64, attended bool) (*models.Attendance, error) {
	return s.mark(nil, bookingID, trainerID, attended)
}

// MarkClassAttendance is MarkAttendance with the extra requirement that the
// booking belongs to classID.
func (s *attendanceService) MarkClassAttendance(classID, bookingID, trainerID int64, attended bool) (*models.Attendance, error) {
	return s.mark(&classID, bookingID, trainerID, attended)
}

func (s *attendanceService) mark(classID *int64, bookingID, trainerID int64, attended bool) (*models.Attendance, error) {
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if classID != nil && booking.ClassID != *classID {
		return nil, ErrBookingNotFound
	}
	if booking.Class == nil || booking.Class.TrainerID != trainerID {
		return nil, ErrNotClassTrainer
	}

	record, err := s.attendanceRepo.UpsertAttendance(s.db, bookingID, attended, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	return record, nil
}

func (s *attendanceService) MyAttendance(userID int64) (*models.AttendanceReport, error) {
	member, err := s.memberRepo.FindMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	bookings, err := s.bookingRepo.GetBookings(models.BookingFilters{MemberID: &member.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return &models.AttendanceReport{Bookings: bookings, Statistics: ComputeStatistics(bookings)}, nil
}

func (s *attendanceService) ClassAttendance(classID int64, actor Actor) (*models.AttendanceReport, error) {
	class, err := s.classRepo.FindClassByID(classID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if !actor.IsAdmin() && class.TrainerID != actor.UserID {
		return nil, ErrNotClassTrainer
	}
	bookings, err := s.bookingRepo.GetBookings(models.BookingFilters{ClassID: &classID})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return &models.AttendanceReport{Bookings: bookings, Statistics: ComputeStatistics(bookings)}, nil
}
