package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
	"gym_club_backend/pkg/utils"
)

// scheduleLayouts are the accepted formats for class schedules.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseSchedule parses a class schedule. Values without a zone are local time.
func ParseSchedule(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationError("invalid schedule %q, use ISO 8601 (YYYY-MM-DDTHH:MM)", value)
}

// CreateClassRequest DTO
type CreateClassRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Schedule    string  `json:"schedule" binding:"required"`
	Capacity    *int    `json:"capacity"`
	Duration    *int    `json:"duration"`
	ClassType   *string `json:"class_type"`
	Difficulty  *string `json:"difficulty"`
}

// UpdateClassRequest DTO
type UpdateClassRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Schedule    *string `json:"schedule"`
	Capacity    *int    `json:"capacity"`
	Duration    *int    `json:"duration"`
	ClassType   *string `json:"class_type"`
	Difficulty  *string `json:"difficulty"`
}

// --- ClassService Interface ---
type ClassService interface {
	CreateClass(trainerID int64, req CreateClassRequest) (*models.GymClass, error)
	UpdateClass(classID, trainerID int64, req UpdateClassRequest) (*models.GymClass, error)
	DeleteClass(classID int64, actor Actor, cascade bool) error
	CleanupExpiredClasses(trainerID int64) ([]models.CleanedClass, error)
	GetAvailableSlots(classID int64) (int, error)
	ListClasses(filters models.ClassFilters) ([]models.GymClass, error)
	GetClass(classID int64) (*models.GymClass, error)
	ListTrainerClasses(trainerID int64) ([]models.TrainerClass, error)
	GetClassMembers(classID int64, actor Actor) ([]models.ClassMember, error)
	RemoveMember(classID, bookingID, trainerID int64) error
}

type classService struct {
	classRepo      repositories.ClassRepository
	bookingRepo    repositories.BookingRepository
	attendanceRepo repositories.AttendanceRepository
	db             *sql.DB
	now            func() time.Time
}

// NewClassService creates a new instance of ClassService.
func NewClassService(classRepo repositories.ClassRepository, bookingRepo repositories.BookingRepository, attendanceRepo repositories.AttendanceRepository, db *sql.DB) ClassService {
	return &classService{
		classRepo:      classRepo,
		bookingRepo:    bookingRepo,
		attendanceRepo: attendanceRepo,
		db:             db,
		now:            time.Now,
	}
}

func (s *classService) getClass(classID int64) (*models.GymClass, error) {
	class, err := s.classRepo.FindClassByID(classID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return class, nil
}

// checkScheduleConflict fails when the trainer already teaches within the
// conflict window of schedule.
func (s *classService) checkScheduleConflict(trainerID int64, schedule time.Time, excludeClassID *int64) error {
	existing, err := s.classRepo.FindConflictingClass(trainerID, schedule, models.ScheduleConflictWindow, excludeClassID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check schedule conflict: %w", err)
	}
	return fmt.Errorf("%w: %q at %s", ErrScheduleConflict, existing.Name, existing.Schedule.Format("2006-01-02 15:04"))
}

func validateClassFields(name string, capacity, duration int) error {
	if utils.IsEmpty(name) {
		return validationError("class name cannot be empty")
	}
	if capacity < 1 {
		return validationError("capacity must be at least 1")
	}
	if duration < 1 {
		return validationError("duration must be at least 1 minute")
	}
	return nil
}

func (s *classService) CreateClass(trainerID int64, req CreateClassRequest) (*models.GymClass, error) {
	schedule, err := ParseSchedule(req.Schedule)
	if err != nil {
		return nil, err
	}

	class := &models.GymClass{
		TrainerID:       trainerID,
		Name:            strings.TrimSpace(req.Name),
		Description:     trimmedOrNil(req.Description),
		Schedule:        schedule,
		Capacity:        models.DefaultClassCapacity,
		DurationMinutes: models.DefaultClassDuration,
		ClassType:       models.DefaultClassType,
		Difficulty:      models.DefaultDifficulty,
	}
	if req.Capacity != nil {
		class.Capacity = *req.Capacity
	}
	if req.Duration != nil {
		class.DurationMinutes = *req.Duration
	}
	if v := trimmedOrNil(req.ClassType); v != nil {
		class.ClassType = *v
	}
	if v := trimmedOrNil(req.Difficulty); v != nil {
		class.Difficulty = *v
	}
	if err := validateClassFields(class.Name, class.Capacity, class.DurationMinutes); err != nil {
		return nil, err
	}
	if err := s.checkScheduleConflict(trainerID, schedule, nil); err != nil {
		return nil, err
	}

	if _, err := s.classRepo.CreateClass(s.db, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}
	utils.LogInfo("Class created", map[string]interface{}{"class_id": class.ID, "trainer_id": trainerID})
	return s.getClass(class.ID)
}

// UpdateClass applies a partial update to a class owned by trainerID.
func (s *classService) UpdateClass(classID, trainerID int64, req UpdateClassRequest) (*models.GymClass, error) {
	class, err := s.getClass(classID)
	if err != nil {
		return nil, err
	}
	if class.TrainerID != trainerID {
		return nil, ErrClassNotFound
	}

	if req.Name != nil {
		class.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		class.Description = trimmedOrNil(req.Description)
	}
	if req.Capacity != nil {
		class.Capacity = *req.Capacity
	}
	if req.Duration != nil {
		class.DurationMinutes = *req.Duration
	}
	if v := trimmedOrNil(req.ClassType); v != nil {
		class.ClassType = *v
	}
	if v := trimmedOrNil(req.Difficulty); v != nil {
		class.Difficulty = *v
	}
	if err := validateClassFields(class.Name, class.Capacity, class.DurationMinutes); err != nil {
		return nil, err
	}
	if class.Capacity < class.BookedCount {
		return nil, ErrCapacityBelowBooked
	}
	if req.Schedule != nil {
		schedule, err := ParseSchedule(*req.Schedule)
		if err != nil {
			return nil, err
		}
		if !schedule.Equal(class.Schedule) {
			if err := s.checkScheduleConflict(trainerID, schedule, &class.ID); err != nil {
				return nil, err
			}
			class.Schedule = schedule
		}
	}

	if err := s.classRepo.UpdateClass(s.db, class); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to update class: %w", err)
	}
	return s.getClass(class.ID)
}

// DeleteClass removes a class. Admins must pass cascade to delete a class
// that still has bookings; trainers may only delete their own classes and
// always cascade.
func (s *classService) DeleteClass(classID int64, actor Actor, cascade bool) error {
	class, err := s.getClass(classID)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		if class.BookedCount > 0 && !cascade {
			return ErrHasBookings
		}
	} else if class.TrainerID != actor.UserID {
		return ErrClassNotFound
	}

	if err := s.classRepo.DeleteClass(s.db, classID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrClassNotFound
		}
		return fmt.Errorf("failed to delete class: %w", err)
	}
	utils.LogInfo("Class deleted", map[string]interface{}{
		"class_id": classID, "by_user_id": actor.UserID, "bookings_removed": class.BookedCount,
	})
	return nil
}

// CleanupExpiredClasses closes out every finished class of the trainer: open
// bookings are recorded as absent and the class is removed, all in one transaction.
func (s *classService) CleanupExpiredClasses(trainerID int64) ([]models.CleanedClass, error) {
	now := s.now()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	expired, err := s.classRepo.ListExpiredClasses(tx, trainerID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired classes: %w", err)
	}
	if len(expired) == 0 {
		return expired, nil
	}

	for i := range expired {
		n, err := s.attendanceRepo.MarkUnrecordedAbsent(tx, expired[i].ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to record absences for class %d: %w", expired[i].ID, err)
		}
		expired[i].AutoAbsentees = n
		if err := s.classRepo.DeleteClass(tx, expired[i].ID); err != nil {
			return nil, fmt.Errorf("failed to delete expired class %d: %w", expired[i].ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit class cleanup: %w", err)
	}

	utils.LogInfo("Expired classes cleaned up", map[string]interface{}{"trainer_id": trainerID, "count": len(expired)})
	return expired, nil
}

func (s *classService) GetAvailableSlots(classID int64) (int, error) {
	class, err := s.getClass(classID)
	if err != nil {
		return 0, err
	}
	return class.AvailableSlots, nil
}

func (s *classService) ListClasses(filters models.ClassFilters) ([]models.GymClass, error) {
	classes, err := s.classRepo.ListClasses(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (s *classService) GetClass(classID int64) (*models.GymClass, error) {
	return s.getClass(classID)
}

// ListTrainerClasses returns the trainer's classes with their rosters,
// after closing out any that have already finished.
func (s *classService) ListTrainerClasses(trainerID int64) ([]models.TrainerClass, error) {
	if _, err := s.CleanupExpiredClasses(trainerID); err != nil {
		return nil, err
	}
	classes, err := s.classRepo.ListClasses(models.ClassFilters{TrainerID: &trainerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list trainer classes: %w", err)
	}

	now := s.now()
	result := make([]models.TrainerClass, 0, len(classes))
	for _, class := range classes {
		members, err := s.bookingRepo.GetClassMembers(class.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get class members: %w", err)
		}
		result = append(result, models.TrainerClass{
			GymClass:  class,
			IsExpired: class.Schedule.Before(now),
			Members:   members,
		})
	}
	return result, nil
}

func (s *classService) GetClassMembers(classID int64, actor Actor) ([]models.ClassMember, error) {
	class, err := s.getClass(classID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && class.TrainerID != actor.UserID {
		return nil, ErrNotClassTrainer
	}
	members, err := s.bookingRepo.GetClassMembers(classID)
	if err != nil {
		return nil, fmt.Errorf("failed to get class members: %w", err)
	}
	return members, nil
}

// RemoveMember cancels a member's booking on behalf of the class trainer.
func (s *classService) RemoveMember(classID, bookingID, trainerID int64) error {
	class, err := s.getClass(classID)
	if err != nil {
		return err
	}
	if class.TrainerID != trainerID {
		return ErrNotClassTrainer
	}
	booking, err := s.bookingRepo.GetBookingByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to get booking: %w", err)
	}
	if booking.ClassID != classID {
		return ErrBookingNotFound
	}
	if err := s.bookingRepo.DeleteBooking(s.db, bookingID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}
