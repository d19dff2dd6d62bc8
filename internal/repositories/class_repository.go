package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gym_club_backend/internal/models"
)

// ClassRepository defines the interface for class schedule database operations.
type ClassRepository interface {
	CreateClass(executor SQLExecutor, class *models.GymClass) (int64, error)
	FindClassByID(classID int64) (*models.GymClass, error) // Includes booked count, rating and trainer
	ListClasses(filters models.ClassFilters) ([]models.GymClass, error)
	UpdateClass(executor SQLExecutor, class *models.GymClass) error
	DeleteClass(executor SQLExecutor, classID int64) error
	// FindConflictingClass returns a class of the trainer scheduled within
	// window of schedule, or ErrNotFound when the slot is free.
	FindConflictingClass(trainerID int64, schedule time.Time, window time.Duration, excludeClassID *int64) (*models.GymClass, error)
	// LockClass takes a row lock on the class for the rest of the transaction
	// and returns its capacity.
	LockClass(executor SQLExecutor, classID int64) (int, error)
	// ListExpiredClasses locks and returns the trainer's classes scheduled before the given time.
	ListExpiredClasses(executor SQLExecutor, trainerID int64, before time.Time) ([]models.CleanedClass, error)
}

type classRepository struct {
	db *sql.DB
}

// NewClassRepository creates a new instance of ClassRepository.
func NewClassRepository(db *sql.DB) ClassRepository {
	return &classRepository{db: db}
}

const selectClassFields = `
	c.id, c.trainer_id, c.name, c.description, c.schedule, c.duration_minutes, c.capacity,
	c.class_type, c.difficulty, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM bookings b WHERE b.class_id = c.id) AS booked_count,
	(SELECT ROUND(AVG(rv.rating), 2) FROM reviews rv WHERE rv.class_id = c.id) AS average_rating,
	t.id, t.name, t.email
`

const classJoins = `
	FROM classes c
	JOIN users t ON t.id = c.trainer_id
`

func scanClassRow(row scanner) (*models.GymClass, error) {
	var class models.GymClass
	var trainer models.UserSummary
	err := row.Scan(
		&class.ID, &class.TrainerID, &class.Name, &class.Description, &class.Schedule,
		&class.DurationMinutes, &class.Capacity, &class.ClassType, &class.Difficulty,
		&class.CreatedAt, &class.UpdatedAt,
		&class.BookedCount, &class.AverageRating,
		&trainer.ID, &trainer.Name, &trainer.Email,
	)
	if err != nil {
		return nil, wrapScanError(err, "scanning class")
	}
	class.Trainer = &trainer
	class.AvailableSlots = class.Capacity - class.BookedCount
	if class.AvailableSlots < 0 {
		class.AvailableSlots = 0
	}
	return &class, nil
}

func (r *classRepository) CreateClass(executor SQLExecutor, class *models.GymClass) (int64, error) {
	query := `INSERT INTO classes
	            (trainer_id, name, description, schedule, duration_minutes, capacity, class_type, difficulty, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	currentTime := time.Now()
	class.CreatedAt = currentTime
	class.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		class.TrainerID, class.Name, class.Description, class.Schedule, class.DurationMinutes,
		class.Capacity, class.ClassType, class.Difficulty, class.CreatedAt, class.UpdatedAt,
	).Scan(&class.ID)
	if err != nil {
		return 0, wrapWriteError(err, "creating class")
	}
	return class.ID, nil
}

func (r *classRepository) FindClassByID(classID int64) (*models.GymClass, error) {
	query := "SELECT " + selectClassFields + classJoins + " WHERE c.id = $1"
	return scanClassRow(r.db.QueryRow(query, classID))
}

func (r *classRepository) ListClasses(filters models.ClassFilters) ([]models.GymClass, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + selectClassFields + classJoins)

	var conditions []string
	var args []interface{}
	if filters.TrainerID != nil {
		args = append(args, *filters.TrainerID)
		conditions = append(conditions, fmt.Sprintf("c.trainer_id = $%d", len(args)))
	}
	if filters.ClassType != nil {
		args = append(args, *filters.ClassType)
		conditions = append(conditions, fmt.Sprintf("c.class_type = $%d", len(args)))
	}
	if filters.Difficulty != nil {
		args = append(args, *filters.Difficulty)
		conditions = append(conditions, fmt.Sprintf("c.difficulty = $%d", len(args)))
	}
	if filters.ScheduleFrom != nil {
		args = append(args, *filters.ScheduleFrom)
		conditions = append(conditions, fmt.Sprintf("c.schedule >= $%d", len(args)))
	}
	if filters.ScheduleTo != nil {
		args = append(args, *filters.ScheduleTo)
		conditions = append(conditions, fmt.Sprintf("c.schedule < $%d", len(args)))
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY c.schedule ASC, c.id ASC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listing classes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	classes := []models.GymClass{}
	for rows.Next() {
		class, err := scanClassRow(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *class)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating classes: %v", ErrDatabaseError, err)
	}
	return classes, nil
}

func (r *classRepository) UpdateClass(executor SQLExecutor, class *models.GymClass) error {
	query := `UPDATE classes
	          SET name = $1, description = $2, schedule = $3, duration_minutes = $4, capacity = $5,
	              class_type = $6, difficulty = $7, updated_at = $8
	          WHERE id = $9`
	class.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		class.Name, class.Description, class.Schedule, class.DurationMinutes, class.Capacity,
		class.ClassType, class.Difficulty, class.UpdatedAt, class.ID,
	)
	if err != nil {
		return wrapWriteError(err, "updating class")
	}
	return expectAffected(result, "updating class")
}

// DeleteClass removes the class; bookings, attendance and reviews cascade.
func (r *classRepository) DeleteClass(executor SQLExecutor, classID int64) error {
	result, err := executor.Exec(`DELETE FROM classes WHERE id = $1`, classID)
	if err != nil {
		return fmt.Errorf("%w: deleting class: %v", ErrDatabaseError, err)
	}
	return expectAffected(result, "deleting class")
}

func (r *classRepository) FindConflictingClass(trainerID int64, schedule time.Time, window time.Duration, excludeClassID *int64) (*models.GymClass, error) {
	query := "SELECT " + selectClassFields + classJoins + `
		WHERE c.trainer_id = $1 AND c.schedule BETWEEN $2 AND $3`
	args := []interface{}{trainerID, schedule.Add(-window), schedule.Add(window)}
	if excludeClassID != nil {
		args = append(args, *excludeClassID)
		query += " AND c.id <> $4"
	}
	query += " ORDER BY c.schedule LIMIT 1"
	return scanClassRow(r.db.QueryRow(query, args...))
}

func (r *classRepository) LockClass(executor SQLExecutor, classID int64) (int, error) {
	var capacity int
	err := executor.QueryRow(`SELECT capacity FROM classes WHERE id = $1 FOR UPDATE`, classID).Scan(&capacity)
	if err != nil {
		return 0, wrapScanError(err, "locking class")
	}
	return capacity, nil
}

func (r *classRepository) ListExpiredClasses(executor SQLExecutor, trainerID int64, before time.Time) ([]models.CleanedClass, error) {
	rows, err := executor.Query(`SELECT id, name, schedule FROM classes
		WHERE trainer_id = $1 AND schedule < $2
		ORDER BY schedule
		FOR UPDATE`, trainerID, before)
	if err != nil {
		return nil, fmt.Errorf("%w: listing expired classes: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	classes := []models.CleanedClass{}
	for rows.Next() {
		var c models.CleanedClass
		if err := rows.Scan(&c.ID, &c.Name, &c.Schedule); err != nil {
			return nil, fmt.Errorf("%w: scanning expired class: %v", ErrDatabaseError, err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating expired classes: %v", ErrDatabaseError, err)
	}
	return classes, nil
}
