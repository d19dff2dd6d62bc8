package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
	"gym_club_backend/pkg/utils"
)

// CreateBookingRequest DTO
type CreateBookingRequest struct {
	ClassID int64 `json:"class_id" binding:"required"`
}

// --- BookingService Interface ---
type BookingService interface {
	CreateBooking(userID, classID int64) (*models.Booking, error)
	CancelBooking(bookingID, userID int64) error
	ListForMember(userID int64) ([]models.Booking, error)
	ListForClass(classID int64) ([]models.Booking, error)
	ListAll(filters models.BookingFilters) ([]models.Booking, error)
	GetBooking(bookingID int64, actor Actor) (*models.Booking, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	classRepo   repositories.ClassRepository
	memberRepo  repositories.MemberRepository
	db          *sql.DB
	now         func() time.Time
}

// NewBookingService creates a new instance of BookingService.
func NewBookingService(bookingRepo repositories.BookingRepository, classRepo repositories.ClassRepository, memberRepo repositories.MemberRepository, db *sql.DB) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		classRepo:   classRepo,
		memberRepo:  memberRepo,
		db:          db,
		now:         time.Now,
	}
}

func (s *bookingService) memberFor(userID int64) (*models.Member, error) {
	member, err := s.memberRepo.FindMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

// CreateBooking books a class seat. The class row is locked for the duration
// of the transaction so concurrent bookings of one class are serialized and
// the capacity check cannot be raced.
func (s *bookingService) CreateBooking(userID, classID int64) (*models.Booking, error) {
	member, err := s.memberFor(userID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	capacity, err := s.classRepo.LockClass(tx, classID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to lock class: %w", err)
	}

	_, err = s.bookingRepo.FindBookingByMemberAndClass(tx, member.ID, classID)
	if err == nil {
		return nil, ErrDuplicateBooking
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing booking: %w", err)
	}

	booked, err := s.bookingRepo.CountBookingsForClass(tx, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if booked >= capacity {
		return nil, ErrClassFull
	}

	booking := &models.Booking{MemberID: member.ID, ClassID: classID, BookingDate: s.now()}
	if _, err := s.bookingRepo.CreateBooking(tx, booking); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	utils.LogInfo("Class booked", map[string]interface{}{
		"booking_id": booking.ID, "class_id": classID, "member_id": member.ID, "seats_left": capacity - booked - 1,
	})

	created, err := s.bookingRepo.GetBookingByID(booking.ID)
	if err != nil {
		// The booking is committed; fall back to the bare row.
		utils.LogWarn("Could not reload created booking", map[string]interface{}{"booking_id": booking.ID, "error": err.Error()})
		return booking, nil
	}
	return created, nil
}

// CancelBooking deletes a booking owned by the user's member profile.
func (s *bookingService) CancelBooking(bookingID, userID int64) error {
	member, err := s.memberFor(userID)
	if err != nil {
		return err
	}
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking.MemberID != member.ID {
		return ErrBookingNotFound
	}
	if err := s.bookingRepo.DeleteBooking(s.db, bookingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	return nil
}

func (s *bookingService) ListForMember(userID int64) ([]models.Booking, error) {
	member, err := s.memberFor(userID)
	if err != nil {
		return nil, err
	}
	return s.ListAll(models.BookingFilters{MemberID: &member.ID})
}

func (s *bookingService) ListForClass(classID int64) ([]models.Booking, error) {
	if _, err := s.classRepo.FindClassByID(classID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return s.ListAll(models.BookingFilters{ClassID: &classID})
}

func (s *bookingService) ListAll(filters models.BookingFilters) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.GetBookings(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking returns a booking visible to the actor: its member, the class
// trainer, or an admin.
func (s *bookingService) GetBooking(bookingID int64, actor Actor) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if actor.IsAdmin() {
		return booking, nil
	}
	if booking.Member != nil && booking.Member.UserID == actor.UserID {
		return booking, nil
	}
	if booking.Class != nil && booking.Class.TrainerID == actor.UserID {
		return booking, nil
	}
	return nil, ErrBookingNotFound
}
