package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/models"
	"gym_club_backend/internal/repositories"
	"gym_club_backend/pkg/utils"
)

// SubscribeRequest DTO
type SubscribeRequest struct {
	PlanID int `json:"plan_id" binding:"required"`
}

// GrantMembershipRequest DTO
type GrantMembershipRequest struct {
	MembershipPlan string `json:"membership_plan" binding:"required"`
}

// --- MembershipService Interface ---
type MembershipService interface {
	GetPlans() []models.Plan
	GetMembershipStatus(userID int64) (*models.MembershipStatus, error)
	Subscribe(userID int64, planID int) (*models.MembershipStatus, error)
	// ActivateMembership writes plan and expiry (start date + plan duration)
	// through executor so callers can make it part of a larger transaction.
	ActivateMembership(executor repositories.SQLExecutor, member *models.Member, plan models.Plan, source models.ActivationSource, start time.Time) (*models.Member, error)
	CountMonthlyBookings(memberID int64, plan *models.Plan) (*models.MonthlyUsage, error)
	GrantMembership(userID int64, planName string) (*models.MembershipStatus, error)
	ListMembers() ([]models.MembershipStatus, error)
	// MemberForUser resolves and reconciles the member row of a user.
	MemberForUser(userID int64) (*models.Member, error)
}

type membershipService struct {
	memberRepo  repositories.MemberRepository
	bookingRepo repositories.BookingRepository
	catalog     *config.Catalog
	db          *sql.DB
	now         func() time.Time
}

// NewMembershipService creates a new instance of MembershipService.
func NewMembershipService(memberRepo repositories.MemberRepository, bookingRepo repositories.BookingRepository, catalog *config.Catalog, db *sql.DB) MembershipService {
	return &membershipService{
		memberRepo:  memberRepo,
		bookingRepo: bookingRepo,
		catalog:     catalog,
		db:          db,
		now:         time.Now,
	}
}

// civilDate drops the clock part, keeping the calendar date of t.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthStart is midnight on the first day of t's month, in t's location.
func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// ReconcileExpiry clears plan and expiry once the expiry date has passed.
// It is idempotent and reports whether anything changed.
func ReconcileExpiry(member models.Member, today time.Time) (models.Member, bool) {
	if member.MembershipPlan == nil && member.ExpiryDate == nil {
		return member, false
	}
	if member.HasPlan() && !civilDate(*member.ExpiryDate).Before(civilDate(today)) {
		return member, false
	}
	member.MembershipPlan = nil
	member.ExpiryDate = nil
	return member, true
}

// IsMembershipActive reports whether the member holds a plan valid on today.
func IsMembershipActive(member models.Member, today time.Time) bool {
	return member.HasPlan() && !civilDate(*member.ExpiryDate).Before(civilDate(today))
}

// BuildMembershipStatus derives the status read model. plan is nil when the
// member has no plan or the plan is no longer in the catalog.
func BuildMembershipStatus(member models.Member, plan *models.Plan, used int, today time.Time) *models.MembershipStatus {
	status := &models.MembershipStatus{
		MemberID:       member.ID,
		UserID:         member.UserID,
		MembershipPlan: member.MembershipPlan,
		ClassesUsed:    used,
		User:           member.User,
	}
	if member.ExpiryDate != nil {
		expiry := member.ExpiryDate.Format(models.DateLayout)
		status.ExpiryDate = &expiry
	}
	if !IsMembershipActive(member, today) {
		return status
	}

	status.IsActive = true
	status.DaysRemaining = int(civilDate(*member.ExpiryDate).Sub(civilDate(today)).Hours() / 24)
	if plan != nil {
		usage := monthlyUsage(*plan, used)
		status.ClassLimit = &usage.Limit
		status.RemainingClasses = &usage.Remaining
	}
	return status
}

func monthlyUsage(plan models.Plan, used int) *models.MonthlyUsage {
	usage := &models.MonthlyUsage{Used: used, Limit: plan.ClassLimit, Remaining: models.UnlimitedClasses}
	if !plan.IsUnlimited() {
		usage.Remaining = plan.ClassLimit - used
		if usage.Remaining < 0 {
			usage.Remaining = 0
		}
	}
	return usage
}

func (s *membershipService) GetPlans() []models.Plan {
	return s.catalog.Plans()
}

func (s *membershipService) MemberForUser(userID int64) (*models.Member, error) {
	member, err := s.memberRepo.FindMemberByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return s.reconcile(member)
}

// reconcile persists an expiry that has lapsed since the last read.
func (s *membershipService) reconcile(member *models.Member) (*models.Member, error) {
	reconciled, changed := ReconcileExpiry(*member, s.now())
	if !changed {
		return member, nil
	}
	if err := s.memberRepo.UpdateMembership(s.db, member.ID, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to clear expired membership: %w", err)
	}
	utils.LogDebug("Expired membership cleared", map[string]interface{}{"member_id": member.ID})
	return &reconciled, nil
}

func (s *membershipService) statusFor(member *models.Member) (*models.MembershipStatus, error) {
	var plan *models.Plan
	if member.MembershipPlan != nil {
		if p, ok := s.catalog.PlanByName(*member.MembershipPlan); ok {
			plan = &p
		}
	}
	usage, err := s.CountMonthlyBookings(member.ID, plan)
	if err != nil {
		return nil, err
	}
	return BuildMembershipStatus(*member, plan, usage.Used, s.now()), nil
}

func (s *membershipService) GetMembershipStatus(userID int64) (*models.MembershipStatus, error) {
	member, err := s.MemberForUser(userID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(member)
}

func (s *membershipService) Subscribe(userID int64, planID int) (*models.MembershipStatus, error) {
	plan, ok := s.catalog.PlanByID(planID)
	if !ok {
		return nil, ErrPlanNotFound
	}
	member, err := s.MemberForUser(userID)
	if err != nil {
		return nil, err
	}
	if IsMembershipActive(*member, s.now()) {
		return nil, ErrAlreadyActive
	}
	activated, err := s.ActivateMembership(s.db, member, plan, models.ActivationDirect, s.now())
	if err != nil {
		return nil, err
	}
	return s.statusFor(activated)
}

func (s *membershipService) ActivateMembership(executor repositories.SQLExecutor, member *models.Member, plan models.Plan, source models.ActivationSource, start time.Time) (*models.Member, error) {
	expiry := civilDate(start).AddDate(0, 0, plan.DurationDays)
	planName := plan.Name
	if err := s.memberRepo.UpdateMembership(executor, member.ID, &planName, &expiry); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to activate membership: %w", err)
	}

	activated := *member
	activated.MembershipPlan = &planName
	activated.ExpiryDate = &expiry
	utils.LogInfo("Membership activated", map[string]interface{}{
		"member_id": member.ID,
		"plan":      plan.Name,
		"expiry":    expiry.Format(models.DateLayout),
		"source":    source,
	})
	return &activated, nil
}

func (s *membershipService) CountMonthlyBookings(memberID int64, plan *models.Plan) (*models.MonthlyUsage, error) {
	used, err := s.bookingRepo.CountMemberBookingsSince(memberID, monthStart(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly bookings: %w", err)
	}
	if plan == nil {
		return &models.MonthlyUsage{Used: used}, nil
	}
	return monthlyUsage(*plan, used), nil
}

// GrantMembership lets an admin set a member's plan, replacing any current one.
func (s *membershipService) GrantMembership(userID int64, planName string) (*models.MembershipStatus, error) {
	plan, ok := s.catalog.PlanByName(planName)
	if !ok {
		return nil, ErrPlanNotFound
	}
	member, err := s.MemberForUser(userID)
	if err != nil {
		return nil, err
	}
	activated, err := s.ActivateMembership(s.db, member, plan, models.ActivationAdmin, s.now())
	if err != nil {
		return nil, err
	}
	return s.statusFor(activated)
}

func (s *membershipService) ListMembers() ([]models.MembershipStatus, error) {
	members, err := s.memberRepo.ListMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	statuses := make([]models.MembershipStatus, 0, len(members))
	for i := range members {
		member, err := s.reconcile(&members[i])
		if err != nil {
			return nil, err
		}
		status, err := s.statusFor(member)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, *status)
	}
	return statuses, nil
}
