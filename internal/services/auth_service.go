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

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest DTO
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Role     string  `json:"role"` // MEMBER when empty
	Phone    *string `json:"phone"`
}

// UpdateProfileRequest DTO
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ChangePasswordRequest DTO
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// AuthResponse DTO
type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token,omitempty"` // Empty for trainers awaiting approval
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
}

// --- AuthService Interface ---
type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	Me(userID int64) (*models.User, error)
	UpdateProfile(userID int64, req UpdateProfileRequest) (*models.User, error)
	ChangePassword(userID int64, req ChangePasswordRequest) error
}

// --- authService Implementation ---
type authService struct {
	userRepo   repositories.UserRepository
	memberRepo repositories.MemberRepository
	db         *sql.DB // Used as SQLExecutor for single repo calls, or for managing transactions
	tokens     *utils.TokenManager
	now        func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(userRepo repositories.UserRepository, memberRepo repositories.MemberRepository, db *sql.DB, tokens *utils.TokenManager) AuthService {
	return &authService{
		userRepo:   userRepo,
		memberRepo: memberRepo,
		db:         db,
		tokens:     tokens,
		now:        time.Now,
	}
}

func (s *authService) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.tokens.TTL())
	return &AuthResponse{User: user, Token: token, ExpiresAt: &expiresAt}, nil
}

// Register creates the account. Members get their member row in the same
// transaction; trainers start out pending and receive no token.
func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" || req.Password == "" {
		return nil, validationError("name, email, and password are required")
	}
	if !utils.IsValidEmail(email) {
		return nil, validationError("email format is invalid")
	}
	if !utils.IsValidPasswordLength(req.Password, MinPasswordLength) {
		return nil, validationError("password must be at least %d characters", MinPasswordLength)
	}

	role := models.RoleMember
	if strings.TrimSpace(req.Role) != "" {
		parsed, ok := models.ParseRole(req.Role)
		if !ok {
			return nil, validationError("invalid role %q", req.Role)
		}
		role = parsed
	}
	if role == models.RoleAdmin {
		return nil, ErrAdminRegistration
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           name,
		Email:          email,
		PasswordHash:   string(hashed),
		Phone:          trimmedOrNil(req.Phone),
		Role:           role,
		ApprovalStatus: models.ApprovalApproved,
		CreatedAt:      s.now(),
	}
	if role == models.RoleTrainer {
		user.ApprovalStatus = models.ApprovalPending
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Rollback if not committed

	if _, err := s.userRepo.CreateUser(tx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if role == models.RoleMember {
		memberID, err := s.memberRepo.CreateMember(tx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to create member profile: %w", err)
		}
		user.Member = &models.Member{ID: memberID, UserID: user.ID}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	utils.LogInfo("User registered", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	if role == models.RoleTrainer {
		return &AuthResponse{User: user}, nil
	}
	return s.issueToken(user)
}

// Login checks the credentials. Trainers must be approved before they can log in.
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role == models.RoleTrainer {
		switch user.ApprovalStatus {
		case models.ApprovalApproved:
		case models.ApprovalRejected:
			return nil, ErrTrainerRejected
		default:
			return nil, ErrTrainerPending
		}
	}
	return s.issueToken(user)
}

func (s *authService) Me(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID int64, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.Me(userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, validationError("name cannot be empty")
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = trimmedOrNil(req.Phone)
	}
	if req.Address != nil {
		user.Address = trimmedOrNil(req.Address)
	}

	if err := s.userRepo.UpdateProfile(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *authService) ChangePassword(userID int64, req ChangePasswordRequest) error {
	if !utils.IsValidPasswordLength(req.NewPassword, MinPasswordLength) {
		return validationError("password must be at least %d characters", MinPasswordLength)
	}
	user, err := s.Me(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(s.db, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// trimmedOrNil returns nil for absent or blank optional strings.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.NewNullString(*s)
}
