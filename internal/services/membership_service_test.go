package services

import (
	"testing"
	"time"

	"gym_club_backend/internal/config"
	"gym_club_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestMembershipService(members *stubMemberRepo, bookings *stubBookingRepo, now time.Time) *membershipService {
	return &membershipService{
		memberRepo:  members,
		bookingRepo: bookings,
		catalog:     config.DefaultCatalog(),
		now:         fixedClock(now),
	}
}

func TestReconcileExpiry(t *testing.T) {
	today := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	yesterday := date(2024, 3, 9)
	todayDate := date(2024, 3, 10)

	expired := models.Member{ID: 1, MembershipPlan: strPtr("Basic"), ExpiryDate: &yesterday}
	got, changed := ReconcileExpiry(expired, today)
	assert.True(t, changed)
	assert.Nil(t, got.MembershipPlan)
	assert.Nil(t, got.ExpiryDate)

	// idempotent
	_, changed = ReconcileExpiry(got, today)
	assert.False(t, changed)

	lastDay := models.Member{ID: 2, MembershipPlan: strPtr("Basic"), ExpiryDate: &todayDate}
	got, changed = ReconcileExpiry(lastDay, today)
	assert.False(t, changed)
	assert.NotNil(t, got.MembershipPlan)

	halfSet := models.Member{ID: 3, ExpiryDate: &todayDate}
	got, changed = ReconcileExpiry(halfSet, today)
	assert.True(t, changed)
	assert.Nil(t, got.ExpiryDate)
}

func TestBuildMembershipStatus(t *testing.T) {
	today := date(2024, 3, 10)
	expiry := date(2024, 3, 20)
	catalog := config.DefaultCatalog()
	basic, _ := catalog.PlanByName("Basic")
	vip, _ := catalog.PlanByName("VIP")

	member := models.Member{ID: 4, UserID: 40, MembershipPlan: strPtr("Basic"), ExpiryDate: &expiry}
	status := BuildMembershipStatus(member, &basic, 10, today)
	assert.True(t, status.IsActive)
	assert.Equal(t, 10, status.DaysRemaining)
	require.NotNil(t, status.ExpiryDate)
	assert.Equal(t, "2024-03-20", *status.ExpiryDate)
	require.NotNil(t, status.RemainingClasses)
	assert.Equal(t, 0, *status.RemainingClasses)
	assert.Equal(t, 8, *status.ClassLimit)

	member.MembershipPlan = strPtr("VIP")
	status = BuildMembershipStatus(member, &vip, 25, today)
	assert.Equal(t, models.UnlimitedClasses, *status.ClassLimit)
	assert.Equal(t, models.UnlimitedClasses, *status.RemainingClasses)
	assert.Equal(t, 25, status.ClassesUsed)

	status = BuildMembershipStatus(models.Member{ID: 5, UserID: 50}, nil, 0, today)
	assert.False(t, status.IsActive)
	assert.Zero(t, status.DaysRemaining)
	assert.Nil(t, status.ClassLimit)
	assert.Nil(t, status.RemainingClasses)
}

func TestSubscribeActivatesPlan(t *testing.T) {
	now := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	members := newStubMemberRepo(&models.Member{ID: 1, UserID: 10})
	svc := newTestMembershipService(members, &stubBookingRepo{monthlyCount: 2}, now)

	status, err := svc.Subscribe(10, 1)
	require.NoError(t, err)

	assert.True(t, status.IsActive)
	assert.Equal(t, "Basic", *status.MembershipPlan)
	assert.Equal(t, "2024-04-09", *status.ExpiryDate)
	assert.Equal(t, 30, status.DaysRemaining)
	assert.Equal(t, 2, status.ClassesUsed)
	assert.Equal(t, 6, *status.RemainingClasses)
	assert.Equal(t, 1, members.updates)

	_, err = svc.Subscribe(10, 2)
	assert.ErrorIs(t, err, ErrAlreadyActive)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSubscribeRejectsUnknownPlanAndMember(t *testing.T) {
	now := date(2024, 3, 10)
	svc := newTestMembershipService(newStubMemberRepo(&models.Member{ID: 1, UserID: 10}), &stubBookingRepo{}, now)

	_, err := svc.Subscribe(10, 42)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.Subscribe(99, 1)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMembershipStatusClearsLapsedPlan(t *testing.T) {
	expired := date(2024, 3, 1)
	members := newStubMemberRepo(&models.Member{ID: 1, UserID: 10, MembershipPlan: strPtr("Premium"), ExpiryDate: &expired})
	svc := newTestMembershipService(members, &stubBookingRepo{}, date(2024, 3, 10))

	status, err := svc.GetMembershipStatus(10)
	require.NoError(t, err)

	assert.False(t, status.IsActive)
	assert.Nil(t, status.MembershipPlan)
	assert.Nil(t, status.ExpiryDate)
	assert.Equal(t, 1, members.updates)
	assert.Nil(t, members.lastPlan)
}

func TestGrantMembershipReplacesCurrentPlan(t *testing.T) {
	expiry := date(2024, 3, 30)
	members := newStubMemberRepo(&models.Member{ID: 1, UserID: 10, MembershipPlan: strPtr("Basic"), ExpiryDate: &expiry})
	svc := newTestMembershipService(members, &stubBookingRepo{}, date(2024, 3, 10))

	status, err := svc.GrantMembership(10, "VIP")
	require.NoError(t, err)
	assert.Equal(t, "VIP", *status.MembershipPlan)
	assert.Equal(t, "2024-04-09", *status.ExpiryDate)

	_, err = svc.GrantMembership(10, "Platinum")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
