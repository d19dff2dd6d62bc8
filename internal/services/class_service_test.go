package services

import (
	"testing"
	"time"

	"gym_club_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTrainerID = int64(7)

func newTestClassService(classes *stubClassRepo, now time.Time) *classService {
	return &classService{
		classRepo:      classes,
		bookingRepo:    &stubBookingRepo{},
		attendanceRepo: &stubAttendanceRepo{},
		now:            fixedClock(now),
	}
}

func morningYoga() *models.GymClass {
	return &models.GymClass{
		ID:              1,
		TrainerID:       testTrainerID,
		Name:            "Morning Yoga",
		Schedule:        time.Date(2024, 3, 11, 9, 0, 0, 0, time.Local),
		Capacity:        10,
		DurationMinutes: 60,
	}
}

func TestParseSchedule(t *testing.T) {
	for _, v := range []string{"2024-03-11T09:30", "2024-03-11T09:30:00", "2024-03-11 09:30", "2024-03-11T09:30:00+07:00"} {
		_, err := ParseSchedule(v)
		assert.NoError(t, err, v)
	}
	_, err := ParseSchedule("next tuesday")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateClassAcceptsEarlierDates(t *testing.T) {
	svc := newTestClassService(newStubClassRepo(), time.Now())

	first, err := svc.CreateClass(testTrainerID, CreateClassRequest{Name: "Spin", Schedule: "2025-01-10T09:00"})
	require.NoError(t, err)
	assert.True(t, first.Schedule.Equal(time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)))

	_, err = svc.CreateClass(testTrainerID, CreateClassRequest{Name: "Spin 2", Schedule: "2025-01-10T09:30"})
	assert.ErrorIs(t, err, ErrScheduleConflict)

	_, err = svc.CreateClass(testTrainerID, CreateClassRequest{Name: "Spin 3", Schedule: "2025-01-10T11:01"})
	require.NoError(t, err)
}

func TestCreateClassScheduleConflict(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		trainer  int64
		schedule string
		conflict bool
	}{
		{"half an hour later", testTrainerID, "2024-03-11T09:30", true},
		{"exactly one hour later", testTrainerID, "2024-03-11T10:00", true},
		{"just over one hour later", testTrainerID, "2024-03-11T10:01", false},
		{"two hours later", testTrainerID, "2024-03-11T11:01", false},
		{"one hour earlier", testTrainerID, "2024-03-11T08:00", true},
		{"other trainer same time", 8, "2024-03-11T09:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestClassService(newStubClassRepo(morningYoga()), now)

			class, err := svc.CreateClass(tt.trainer, CreateClassRequest{Name: "HIIT", Schedule: tt.schedule})
			if tt.conflict {
				assert.ErrorIs(t, err, ErrScheduleConflict)
				assert.ErrorIs(t, err, ErrConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "HIIT", class.Name)
			assert.Equal(t, models.DefaultClassCapacity, class.Capacity)
			assert.Equal(t, models.DefaultClassDuration, class.DurationMinutes)
			assert.Equal(t, models.DefaultClassType, class.ClassType)
		})
	}
}

func TestCreateClassValidation(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)
	svc := newTestClassService(newStubClassRepo(), now)
	zero := 0

	_, err := svc.CreateClass(testTrainerID, CreateClassRequest{Name: "HIIT", Schedule: "tomorrow"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateClass(testTrainerID, CreateClassRequest{Name: "  ", Schedule: "2024-03-12T09:00"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateClass(testTrainerID, CreateClassRequest{Name: "HIIT", Schedule: "2024-03-12T09:00", Capacity: &zero})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateClassOwnershipAndCapacity(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)
	yoga := morningYoga()
	yoga.BookedCount = 5
	svc := newTestClassService(newStubClassRepo(yoga), now)

	_, err := svc.UpdateClass(1, 99, UpdateClassRequest{Name: strPtr("Other")})
	assert.ErrorIs(t, err, ErrClassNotFound)

	four := 4
	_, err = svc.UpdateClass(1, testTrainerID, UpdateClassRequest{Capacity: &four})
	assert.ErrorIs(t, err, ErrCapacityBelowBooked)

	// moving within its own window is not a conflict with itself
	updated, err := svc.UpdateClass(1, testTrainerID, UpdateClassRequest{Schedule: strPtr("2024-03-11T09:30")})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Schedule.Minute())
}

func TestDeleteClassRequiresCascadeForAdmin(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)
	yoga := morningYoga()
	yoga.BookedCount = 2
	classes := newStubClassRepo(yoga)
	svc := newTestClassService(classes, now)
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	err := svc.DeleteClass(1, admin, false)
	assert.ErrorIs(t, err, ErrHasBookings)

	err = svc.DeleteClass(1, Actor{UserID: 99, Role: models.RoleTrainer}, true)
	assert.ErrorIs(t, err, ErrClassNotFound)

	require.NoError(t, svc.DeleteClass(1, admin, true))
	assert.Empty(t, classes.classes)
}

func TestCleanupExpiredClasses(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	classes := newStubClassRepo(morningYoga())
	classes.expired = []models.CleanedClass{{ID: 1, Name: "Morning Yoga"}}
	svc := newTestClassService(classes, time.Date(2024, 3, 12, 8, 0, 0, 0, time.Local))
	svc.attendanceRepo = &stubAttendanceRepo{absentPerClass: 3}
	svc.db = db

	mock.ExpectBegin()
	mock.ExpectCommit()

	cleaned, err := svc.CleanupExpiredClasses(testTrainerID)
	require.NoError(t, err)
	require.Len(t, cleaned, 1)
	assert.Equal(t, int64(3), cleaned[0].AutoAbsentees)
	assert.Empty(t, classes.classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupWithNothingExpiredRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := newTestClassService(newStubClassRepo(morningYoga()), time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local))
	svc.db = db

	mock.ExpectBegin()
	mock.ExpectRollback()

	cleaned, err := svc.CleanupExpiredClasses(testTrainerID)
	require.NoError(t, err)
	assert.Empty(t, cleaned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassMembersRequiresOwnerOrAdmin(t *testing.T) {
	svc := newTestClassService(newStubClassRepo(morningYoga()), time.Now())

	_, err := svc.GetClassMembers(1, Actor{UserID: 99, Role: models.RoleTrainer})
	assert.ErrorIs(t, err, ErrNotClassTrainer)

	_, err = svc.GetClassMembers(1, Actor{UserID: testTrainerID, Role: models.RoleTrainer})
	assert.NoError(t, err)

	_, err = svc.GetClassMembers(1, Actor{UserID: 1, Role: models.RoleAdmin})
	assert.NoError(t, err)
}
