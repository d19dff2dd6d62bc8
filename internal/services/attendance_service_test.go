package services

import (
	"testing"
	"time"

	"gym_club_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics([]models.Booking{
		{ID: 1, Attendance: &models.Attendance{Attended: true}},
		{ID: 2, Attendance: &models.Attendance{Attended: false}},
		{ID: 3},
	})
	assert.Equal(t, models.AttendanceStats{Total: 3, Present: 1, Absent: 1, NotMarked: 1}, stats)

	assert.Equal(t, models.AttendanceStats{}, ComputeStatistics(nil))
}

func TestMarkAttendance(t *testing.T) {
	attendance := &stubAttendanceRepo{}
	svc := &attendanceService{
		attendanceRepo: attendance,
		bookingRepo: &stubBookingRepo{byID: map[int64]*models.Booking{
			10: {ID: 10, ClassID: 1, Class: &models.BookedClass{ID: 1, TrainerID: testTrainerID}},
		}},
		classRepo:  newStubClassRepo(morningYoga()),
		memberRepo: newStubMemberRepo(),
		now:        fixedClock(time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)),
	}

	record, err := svc.MarkAttendance(10, testTrainerID, true)
	require.NoError(t, err)
	assert.True(t, record.Attended)

	// remarking replaces the outcome
	_, err = svc.MarkAttendance(10, testTrainerID, false)
	require.NoError(t, err)
	assert.False(t, attendance.marked[10])

	_, err = svc.MarkAttendance(10, 99, true)
	assert.ErrorIs(t, err, ErrNotClassTrainer)

	_, err = svc.MarkAttendance(11, testTrainerID, true)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = svc.MarkClassAttendance(2, 10, testTrainerID, true)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestClassAttendanceRequiresOwnerOrAdmin(t *testing.T) {
	svc := &attendanceService{
		attendanceRepo: &stubAttendanceRepo{},
		bookingRepo:    &stubBookingRepo{list: []models.Booking{{ID: 10}}},
		classRepo:      newStubClassRepo(morningYoga()),
		memberRepo:     newStubMemberRepo(),
		now:            time.Now,
	}

	_, err := svc.ClassAttendance(1, Actor{UserID: 99, Role: models.RoleTrainer})
	assert.ErrorIs(t, err, ErrNotClassTrainer)

	report, err := svc.ClassAttendance(1, Actor{UserID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Statistics.NotMarked)

	_, err = svc.ClassAttendance(5, Actor{UserID: 1, Role: models.RoleAdmin})
	assert.ErrorIs(t, err, ErrClassNotFound)
}
