package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"gym_club_backend/internal/models"
)

// MemberRepository defines the interface for member subscription records.
type MemberRepository interface {
	CreateMember(executor SQLExecutor, userID int64) (int64, error)
	FindMemberByUserID(userID int64) (*models.Member, error)
	FindMemberByID(memberID int64) (*models.Member, error)
	ListMembers() ([]models.Member, error)
	// UpdateMembership writes plan and expiry together; both nil clears the subscription.
	UpdateMembership(executor SQLExecutor, memberID int64, plan *string, expiry *time.Time) error
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const selectMemberFields = `m.id, m.user_id, m.membership_plan, m.expiry_date, u.id, u.name, u.email
	FROM members m
	JOIN users u ON u.id = m.user_id`

func scanMemberRow(row scanner) (*models.Member, error) {
	var member models.Member
	var user models.UserSummary
	err := row.Scan(&member.ID, &member.UserID, &member.MembershipPlan, &member.ExpiryDate, &user.ID, &user.Name, &user.Email)
	if err != nil {
		return nil, wrapScanError(err, "scanning member")
	}
	member.User = &user
	return &member, nil
}

func (r *memberRepository) CreateMember(executor SQLExecutor, userID int64) (int64, error) {
	var memberID int64
	err := executor.QueryRow(`INSERT INTO members (user_id) VALUES ($1) RETURNING id`, userID).Scan(&memberID)
	if err != nil {
		return 0, wrapWriteError(err, "creating member")
	}
	return memberID, nil
}

func (r *memberRepository) FindMemberByUserID(userID int64) (*models.Member, error) {
	return scanMemberRow(r.db.QueryRow("SELECT "+selectMemberFields+" WHERE m.user_id = $1", userID))
}

func (r *memberRepository) FindMemberByID(memberID int64) (*models.Member, error) {
	return scanMemberRow(r.db.QueryRow("SELECT "+selectMemberFields+" WHERE m.id = $1", memberID))
}

func (r *memberRepository) ListMembers() ([]models.Member, error) {
	rows, err := r.db.Query("SELECT " + selectMemberFields + " ORDER BY u.name, m.id")
	if err != nil {
		return nil, fmt.Errorf("%w: listing members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		member, err := scanMemberRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating members: %v", ErrDatabaseError, err)
	}
	return members, nil
}

func (r *memberRepository) UpdateMembership(executor SQLExecutor, memberID int64, plan *string, expiry *time.Time) error {
	var expiryArg interface{}
	if expiry != nil {
		expiryArg = expiry.Format(models.DateLayout)
	}
	result, err := executor.Exec(`UPDATE members SET membership_plan = $1, expiry_date = $2 WHERE id = $3`, plan, expiryArg, memberID)
	if err != nil {
		return fmt.Errorf("%w: updating membership: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "updating membership")
}
