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

// RejectTrainerRequest DTO
type RejectTrainerRequest struct {
	Reason string `json:"reason"`
}

// --- UserService Interface ---
// UserService covers the admin-side account management.
type UserService interface {
	ListUsers(role string) ([]models.User, error)
	GetUser(userID int64) (*models.User, error)
	DeleteUser(userID, adminID int64) error
	ListTrainers(status string) ([]models.User, error)
	ApproveTrainer(trainerID, adminID int64) (*models.User, error)
	RejectTrainer(trainerID, adminID int64, reason string) (*models.User, error)
	Dashboard() (*models.DashboardSummary, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	reportRepo repositories.ReportRepository
	db         *sql.DB
	now        func() time.Time
}

// NewUserService creates a new instance of UserService.
func NewUserService(userRepo repositories.UserRepository, reportRepo repositories.ReportRepository, db *sql.DB) UserService {
	return &userService{
		userRepo:   userRepo,
		reportRepo: reportRepo,
		db:         db,
		now:        time.Now,
	}
}

func (s *userService) ListUsers(role string) ([]models.User, error) {
	var filters models.UserFilters
	if strings.TrimSpace(role) != "" && !strings.EqualFold(role, "all") {
		parsed, ok := models.ParseRole(role)
		if !ok {
			return nil, validationError("invalid role %q", role)
		}
		filters.Role = &parsed
	}
	users, err := s.userRepo.ListUsers(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetUser(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) DeleteUser(userID, adminID int64) error {
	if userID == adminID {
		return validationError("you cannot delete your own account")
	}
	if err := s.userRepo.DeleteUser(s.db, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	utils.LogInfo("User deleted", map[string]interface{}{"user_id": userID, "admin_id": adminID})
	return nil
}

func (s *userService) ListTrainers(status string) ([]models.User, error) {
	role := models.RoleTrainer
	filters := models.UserFilters{Role: &role}
	if status = strings.ToLower(strings.TrimSpace(status)); status != "" && status != "all" {
		if !models.IsValidApprovalStatus(status) {
			return nil, validationError("invalid approval status %q", status)
		}
		approval := models.ApprovalStatus(status)
		filters.ApprovalStatus = &approval
	}
	trainers, err := s.userRepo.ListUsers(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}
	return trainers, nil
}

func (s *userService) ApproveTrainer(trainerID, adminID int64) (*models.User, error) {
	return s.decide(trainerID, adminID, models.ApprovalApproved, nil)
}

func (s *userService) RejectTrainer(trainerID, adminID int64, reason string) (*models.User, error) {
	return s.decide(trainerID, adminID, models.ApprovalRejected, utils.NewNullString(reason))
}

// decide moves a pending trainer to its final approval status.
func (s *userService) decide(trainerID, adminID int64, status models.ApprovalStatus, reason *string) (*models.User, error) {
	trainer, err := s.userRepo.FindUserByID(trainerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, fmt.Errorf("failed to get trainer: %w", err)
	}
	if trainer.Role != models.RoleTrainer {
		return nil, ErrTrainerNotFound
	}
	if trainer.ApprovalStatus != models.ApprovalPending {
		return nil, ErrApprovalNotPending
	}

	if err := s.userRepo.DecideApproval(s.db, trainerID, status, reason, adminID, s.now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Decided concurrently by another admin.
			return nil, ErrApprovalNotPending
		}
		return nil, fmt.Errorf("failed to update trainer approval: %w", err)
	}
	utils.LogInfo("Trainer approval decided", map[string]interface{}{
		"trainer_id": trainerID, "admin_id": adminID, "status": status,
	})
	return s.GetUser(trainerID)
}

func (s *userService) Dashboard() (*models.DashboardSummary, error) {
	now := s.now()
	summary, err := s.reportRepo.DashboardSummary(now, monthStart(now))
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	summary.RevenueThisMonth = utils.RoundMoney(summary.RevenueThisMonth)
	return summary, nil
}
