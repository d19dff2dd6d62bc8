package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gym_club_backend/internal/models"
)

// UserRepository defines the interface for user account database operations.
type UserRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (int64, error)
	FindUserByEmail(email string) (*models.User, error) // PasswordHash is populated
	FindUserByID(userID int64) (*models.User, error)
	ListUsers(filters models.UserFilters) ([]models.User, error)
	UpdateProfile(executor SQLExecutor, user *models.User) error
	UpdatePassword(executor SQLExecutor, userID int64, passwordHash string) error
	// DecideApproval moves a pending trainer to approved or rejected.
	// ErrNotFound means no pending trainer with that id exists.
	DecideApproval(executor SQLExecutor, trainerID int64, status models.ApprovalStatus, reason *string, adminID int64, at time.Time) error
	DeleteUser(executor SQLExecutor, userID int64) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const selectUserFields = `
	u.id, u.name, u.email, u.password_hash, u.phone, u.address, u.role, u.approval_status,
	u.rejection_reason, u.approved_by, u.approved_at, u.created_at, u.updated_at,
	m.id, m.membership_plan, m.expiry_date
`

const userJoins = `
	FROM users u
	LEFT JOIN members m ON m.user_id = u.id
`

func scanUserRow(row scanner) (*models.User, error) {
	var user models.User
	var memberID sql.NullInt64
	var plan sql.NullString
	var expiry sql.NullTime

	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Phone, &user.Address,
		&user.Role, &user.ApprovalStatus, &user.RejectionReason, &user.ApprovedBy, &user.ApprovedAt,
		&user.CreatedAt, &user.UpdatedAt,
		&memberID, &plan, &expiry,
	)
	if err != nil {
		return nil, wrapScanError(err, "scanning user")
	}

	if memberID.Valid {
		member := &models.Member{ID: memberID.Int64, UserID: user.ID}
		if plan.Valid {
			member.MembershipPlan = &plan.String
		}
		if expiry.Valid {
			member.ExpiryDate = &expiry.Time
		}
		user.Member = member
	}
	return &user, nil
}

func (r *userRepository) CreateUser(executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (name, email, password_hash, phone, address, role, approval_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt

	err := executor.QueryRow(query,
		user.Name, strings.ToLower(user.Email), user.PasswordHash, user.Phone, user.Address,
		user.Role, user.ApprovalStatus, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating user")
	}
	return user.ID, nil
}

func (r *userRepository) FindUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + selectUserFields + userJoins + " WHERE u.email = $1"
	return scanUserRow(r.db.QueryRow(query, strings.ToLower(strings.TrimSpace(email))))
}

func (r *userRepository) FindUserByID(userID int64) (*models.User, error) {
	query := "SELECT " + selectUserFields + userJoins + " WHERE u.id = $1"
	return scanUserRow(r.db.QueryRow(query, userID))
}

func (r *userRepository) ListUsers(filters models.UserFilters) ([]models.User, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectUserFields + userJoins)

	var conditions []string
	var args []interface{}
	if filters.Role != nil {
		args = append(args, *filters.Role)
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", len(args)))
	}
	if filters.ApprovalStatus != nil {
		args = append(args, *filters.ApprovalStatus)
		conditions = append(conditions, fmt.Sprintf("u.approval_status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY u.created_at DESC, u.id DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating users: %v", ErrDatabaseError, err)
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(executor SQLExecutor, user *models.User) error {
	query := `UPDATE users SET name = $1, phone = $2, address = $3, updated_at = $4 WHERE id = $5`
	user.UpdatedAt = time.Now()
	result, err := executor.Exec(query, user.Name, user.Phone, user.Address, user.UpdatedAt, user.ID)
	if err != nil {
		return wrapWriteError(err, "updating user profile")
	}
	return expectAffected(result, "updating user profile")
}

func (r *userRepository) UpdatePassword(executor SQLExecutor, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, passwordHash, time.Now(), userID)
	if err != nil {
		return fmt.Errorf("%w: updating password: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "updating password")
}

func (r *userRepository) DecideApproval(executor SQLExecutor, trainerID int64, status models.ApprovalStatus, reason *string, adminID int64, at time.Time) error {
	query := `UPDATE users
	          SET approval_status = $1, rejection_reason = $2, approved_by = $3, approved_at = $4, updated_at = $4
	          WHERE id = $5 AND role = $6 AND approval_status = $7`
	result, err := executor.Exec(query, status, reason, adminID, at, trainerID, models.RoleTrainer, models.ApprovalPending)
	if err != nil {
		return fmt.Errorf("%w: deciding trainer approval: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "deciding trainer approval")
}

// DeleteUser removes the account; members, classes, bookings and payments cascade.
func (r *userRepository) DeleteUser(executor SQLExecutor, userID int64) error {
	result, err := executor.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%w: deleting user: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "deleting user")
}
